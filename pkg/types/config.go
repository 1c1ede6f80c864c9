// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EngineBackend selects the generative model provider.
type EngineBackend string

const (
	BackendOpenAI EngineBackend = "openai"
	BackendClaude EngineBackend = "claude"
)

// EngineConfig holds settings for the generative model boundary.
type EngineConfig struct {
	// Backend selects the provider: openai or claude.
	Backend EngineBackend `json:"backend" yaml:"backend"`

	// Model is the text model identifier.
	Model string `json:"model" yaml:"model"`

	// AudioModel is the model used for score transcription from audio.
	AudioModel string `json:"audio_model" yaml:"audio_model"`

	// TranscribeModel is the speech-to-text model for short clips.
	TranscribeModel string `json:"transcribe_model" yaml:"transcribe_model"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Language is the display language for localized analysis text
	// (default Korean).
	Language string `json:"language" yaml:"language"`

	// RateLimitRetries is how many times a rate-limited (HTTP 429) call is
	// re-sent. Zero disables it; other failures are never re-sent.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries"`
}

// StoreConfig holds settings for local persistence.
type StoreConfig struct {
	// DataDir contains the SQLite database.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// AudioConfig holds limits for audio input.
type AudioConfig struct {
	// MaxClipSeconds bounds clips sent to the speech transcriber.
	MaxClipSeconds int `json:"max_clip_seconds" yaml:"max_clip_seconds"`
}

// Config groups all settings.
type Config struct {
	Engine EngineConfig `json:"engine" yaml:"engine"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Audio  AudioConfig  `json:"audio" yaml:"audio"`
}
