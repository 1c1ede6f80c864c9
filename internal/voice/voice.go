// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package voice transcribes short recorded clips to text, writing out
// sung lyrics when the clip is a song.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/session"
)

// NoResult is returned in place of an empty transcription.
const NoResult = "No transcription result."

var (
	// ErrClipTooLong means the clip exceeds the configured maximum length.
	ErrClipTooLong = errors.New("clip too long")

	// ErrEmptyClip means the clip has no audio data.
	ErrEmptyClip = errors.New("clip is empty")

	// ErrTranscribeFailed wraps engine errors.
	ErrTranscribeFailed = errors.New("transcription failed")
)

// SpeechEngine turns audio into text.
type SpeechEngine interface {
	TranscribeSpeech(ctx context.Context, clip audio.Clip) (string, error)
}

// Transcriber runs one transcription at a time.
type Transcriber struct {
	engine  SpeechEngine
	maxClip time.Duration
	warn    io.Writer

	mu      sync.Mutex
	running bool
}

// NewTranscriber returns a transcriber that rejects clips longer than
// maxClip. A zero maxClip disables the check.
func NewTranscriber(engine SpeechEngine, maxClip time.Duration, warn io.Writer) *Transcriber {
	if warn == nil {
		warn = io.Discard
	}
	return &Transcriber{engine: engine, maxClip: maxClip, warn: warn}
}

// Running reports whether a transcription is in progress.
func (t *Transcriber) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Transcribe returns the text of clip.
func (t *Transcriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	if len(clip.Data) == 0 {
		return "", ErrEmptyClip
	}
	if err := t.checkLength(clip); err != nil {
		return "", err
	}

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return "", session.ErrBusy
	}
	t.running = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	text, err := t.engine.TranscribeSpeech(ctx, clip)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscribeFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NoResult, nil
	}
	return text, nil
}

func (t *Transcriber) checkLength(clip audio.Clip) error {
	if t.maxClip <= 0 {
		return nil
	}
	d, ok, err := audio.Duration(clip)
	if err != nil {
		fmt.Fprintf(t.warn, "warning: cannot probe %s: %v\n", clip.Name, err)
		return nil
	}
	if ok && d > t.maxClip {
		return fmt.Errorf("%w: %s is %s, limit %s", ErrClipTooLong, clip.Name, d.Round(time.Second), t.maxClip)
	}
	return nil
}
