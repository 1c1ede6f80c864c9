// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"io"

	"github.com/pdiddy/vocal-architect/internal/httputil"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

// New builds an Engine for cfg. log receives rate-limit notices.
func New(cfg types.EngineConfig, log io.Writer) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s backend: %w", backendName(cfg.Backend), ErrNoAPIKey)
	}

	var b Backend
	switch cfg.Backend {
	case types.BackendOpenAI, "":
		b = NewOpenAIBackend(OpenAIConfig{
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			AudioModel:      cfg.AudioModel,
			TranscribeModel: cfg.TranscribeModel,
			RateLimit:       httputil.RateLimit{Retries: cfg.RateLimitRetries, Log: log},
		})
	case types.BackendClaude:
		b = &ClaudeBackend{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			RateLimit: httputil.RateLimit{Retries: cfg.RateLimitRetries, Log: log},
		}
	default:
		return nil, fmt.Errorf("unknown engine backend %q", cfg.Backend)
	}

	return NewEngine(b, Options{MaxTokens: cfg.MaxTokens, Language: cfg.Language}), nil
}

func backendName(b types.EngineBackend) string {
	if b == "" {
		return string(types.BackendOpenAI)
	}
	return string(b)
}
