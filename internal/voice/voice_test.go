// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package voice

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/session"
)

type fakeSpeech struct {
	text    string
	err     error
	calls   int
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeSpeech) TranscribeSpeech(_ context.Context, _ audio.Clip) (string, error) {
	f.calls++
	if f.started != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	return f.text, f.err
}

func wav() audio.Clip {
	return audio.Clip{Name: "memo.wav", MimeType: "audio/wav", Data: []byte("RIFF")}
}

func TestTranscribe(t *testing.T) {
	eng := &fakeSpeech{text: "  la la la  "}
	tr := NewTranscriber(eng, time.Minute, nil)

	got, err := tr.Transcribe(context.Background(), wav())
	require.NoError(t, err)
	assert.Equal(t, "la la la", got)
}

func TestTranscribeEmptyResultFallsBack(t *testing.T) {
	tr := NewTranscriber(&fakeSpeech{text: " "}, 0, nil)

	got, err := tr.Transcribe(context.Background(), wav())
	require.NoError(t, err)
	assert.Equal(t, NoResult, got)
}

func TestTranscribeEngineError(t *testing.T) {
	tr := NewTranscriber(&fakeSpeech{err: errors.New("503")}, 0, nil)

	_, err := tr.Transcribe(context.Background(), wav())
	assert.ErrorIs(t, err, ErrTranscribeFailed)
	assert.False(t, tr.Running())
}

func TestTranscribeEmptyClip(t *testing.T) {
	eng := &fakeSpeech{}
	tr := NewTranscriber(eng, 0, nil)

	_, err := tr.Transcribe(context.Background(), audio.Clip{Name: "x.wav"})
	assert.ErrorIs(t, err, ErrEmptyClip)
	assert.Equal(t, 0, eng.calls)
}

func TestTranscribeUnprobeableMP3Warns(t *testing.T) {
	var warn bytes.Buffer
	tr := NewTranscriber(&fakeSpeech{text: "ok"}, time.Second, &warn)

	got, err := tr.Transcribe(context.Background(), audio.Clip{Name: "bad.mp3", MimeType: "audio/mpeg", Data: []byte("junk")})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Contains(t, warn.String(), "cannot probe bad.mp3")
}

func TestTranscribeOneAtATime(t *testing.T) {
	eng := &fakeSpeech{text: "done", started: make(chan struct{}, 1), gate: make(chan struct{})}
	tr := NewTranscriber(eng, 0, nil)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Transcribe(context.Background(), wav())
		done <- err
	}()
	<-eng.started
	assert.True(t, tr.Running())

	_, err := tr.Transcribe(context.Background(), wav())
	assert.ErrorIs(t, err, session.ErrBusy)

	close(eng.gate)
	require.NoError(t, <-done)
	assert.False(t, tr.Running())
}
