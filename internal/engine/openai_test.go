// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/httputil"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

func refineFixture() types.RefineRequest {
	return types.RefineRequest{
		ArtistName:            "IU",
		VocalTextureReference: "clear",
		CurrentPromptText:     "chill",
	}
}

// openAIStub serves canned replies for the endpoints the backend uses and
// records each request body.
type openAIStub struct {
	mu     sync.Mutex
	bodies map[string][]byte
	paths  []string
	status int
	// queued statuses are answered first, one per request.
	queued []int
}

func newOpenAIStub(t *testing.T) (*openAIStub, *OpenAIBackend) {
	return newOpenAIStubWith(t, httputil.RateLimit{})
}

func newOpenAIStubWith(t *testing.T, rl httputil.RateLimit) (*openAIStub, *OpenAIBackend) {
	t.Helper()
	s := &openAIStub{bodies: map[string][]byte{}, status: http.StatusOK}
	ts := httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(ts.Close)

	b := NewOpenAIBackend(OpenAIConfig{APIKey: "sk-test", BaseURL: ts.URL + "/", RateLimit: rl})
	return s, b
}

func (s *openAIStub) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies[r.URL.Path] = body
	s.paths = append(s.paths, r.URL.Path)
	status := s.status
	if len(s.queued) > 0 {
		status, s.queued = s.queued[0], s.queued[1:]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
		return
	}

	switch r.URL.Path {
	case "/responses":
		w.Write([]byte(`{
			"id": "resp_1", "object": "response", "created_at": 0, "status": "completed", "model": "gpt-4.1-mini",
			"output": [{"type": "message", "id": "msg_1", "status": "completed", "role": "assistant",
				"content": [{"type": "output_text", "text": "{\"prompt_text\": \"lofi, mellow\"}", "annotations": []}]}]
		}`))
	case "/chat/completions":
		w.Write([]byte(`{
			"id": "chat_1", "object": "chat.completion", "created": 0, "model": "gpt-4o-audio-preview",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"notation\": \"X:1\\nK:C\\nCDEF|\", \"analysis\": \"C major\"}"}}]
		}`))
	case "/audio/transcriptions":
		w.Write([]byte(`{"text": "hello there"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *openAIStub) body(path string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var m map[string]any
	_ = json.Unmarshal(s.bodies[path], &m)
	return m
}

func TestOpenAIBackend_Refine(t *testing.T) {
	stub, b := newOpenAIStub(t)
	e := NewEngine(b, Options{MaxTokens: 300})

	out, err := e.Refine(context.Background(), refineFixture())
	require.NoError(t, err)
	assert.Equal(t, "lofi, mellow", out)

	req := stub.body("/responses")
	assert.Equal(t, DefaultOpenAIModel, req["model"])
	assert.EqualValues(t, 300, req["max_output_tokens"])

	text, ok := req["text"].(map[string]any)
	require.True(t, ok)
	format := text["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "refined_prompt", format["name"])
	assert.Equal(t, true, format["strict"])
}

func TestOpenAIBackend_TranscribeScore(t *testing.T) {
	stub, b := newOpenAIStub(t)
	e := NewEngine(b, Options{})
	clip := audio.Clip{Name: "hum.wav", MimeType: "audio/wav", Data: []byte("RIFF")}

	got, err := e.TranscribeScore(context.Background(), clip)
	require.NoError(t, err)
	assert.Equal(t, "X:1\nK:C\nCDEF|", got.Notation)
	assert.Equal(t, "C major", got.AnalysisText)

	req := stub.body("/chat/completions")
	assert.Equal(t, DefaultAudioModel, req["model"])
	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	user := msgs[1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 2)
	audioPart := parts[1].(map[string]any)
	assert.Equal(t, "input_audio", audioPart["type"])
	inputAudio := audioPart["input_audio"].(map[string]any)
	assert.Equal(t, "wav", inputAudio["format"])
	assert.Equal(t, "UklGRg==", inputAudio["data"])
}

func TestOpenAIBackend_AudioFormatRejected(t *testing.T) {
	stub, b := newOpenAIStub(t)

	_, err := b.CompleteAudio(context.Background(), Call{}, audio.Clip{Name: "a.ogg", MimeType: "audio/ogg"})
	assert.ErrorIs(t, err, ErrAudioUnsupported)
	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Empty(t, stub.paths)
}

func TestOpenAIBackend_TranscribeSpeech(t *testing.T) {
	stub, b := newOpenAIStub(t)
	e := NewEngine(b, Options{})

	got, err := e.TranscribeSpeech(context.Background(), audio.Clip{Name: "memo.m4a", MimeType: "audio/mp4", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "hello there", got)
	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, []string{"/audio/transcriptions"}, stub.paths)
}

func TestOpenAIBackend_NoRetryByDefault(t *testing.T) {
	stub, b := newOpenAIStub(t)
	stub.mu.Lock()
	stub.status = http.StatusTooManyRequests
	stub.mu.Unlock()

	_, err := b.Complete(context.Background(), Call{Input: "hi"})
	require.Error(t, err)
	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Len(t, stub.paths, 1)
}

func TestOpenAIBackend_RetriesRateLimit(t *testing.T) {
	stub, b := newOpenAIStubWith(t, httputil.RateLimit{Retries: 1, BaseDelay: time.Millisecond})
	stub.mu.Lock()
	stub.queued = []int{http.StatusTooManyRequests}
	stub.mu.Unlock()

	out, err := b.Complete(context.Background(), Call{Input: "hi"})
	require.NoError(t, err)
	assert.Contains(t, out, "lofi, mellow")

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, []string{"/responses", "/responses"}, stub.paths)
	assert.Contains(t, string(stub.bodies["/responses"]), `"hi"`)
}

func TestOpenAIBackend_ServerErrorNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusRequestTimeout, http.StatusConflict, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			stub, b := newOpenAIStubWith(t, httputil.RateLimit{Retries: 2, BaseDelay: time.Millisecond})
			stub.mu.Lock()
			stub.status = status
			stub.mu.Unlock()

			_, err := b.Complete(context.Background(), Call{Input: "hi"})
			require.Error(t, err)

			stub.mu.Lock()
			defer stub.mu.Unlock()
			assert.Len(t, stub.paths, 1)
		})
	}
}
