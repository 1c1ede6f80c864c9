// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/vocal-architect/internal/engine"
	"github.com/pdiddy/vocal-architect/internal/secrets"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

func setDefaults() {
	viper.SetDefault("engine.backend", string(types.BackendOpenAI))
	viper.SetDefault("engine.max_tokens", engine.DefaultMaxTokens)
	viper.SetDefault("engine.language", engine.DefaultLanguage)
	viper.SetDefault("engine.rate_limit_retries", 0)
	viper.SetDefault("store.data_dir", "~/.vocal-architect")
	viper.SetDefault("audio.max_clip_seconds", 60)
}

// loadConfig assembles the typed configuration from viper and secrets.
func loadConfig() types.Config {
	cfg := types.Config{
		Engine: types.EngineConfig{
			Backend:          types.EngineBackend(viper.GetString("engine.backend")),
			Model:            viper.GetString("engine.model"),
			AudioModel:       viper.GetString("engine.audio_model"),
			TranscribeModel:  viper.GetString("engine.transcribe_model"),
			MaxTokens:        viper.GetInt("engine.max_tokens"),
			Language:         viper.GetString("engine.language"),
			RateLimitRetries: viper.GetInt("engine.rate_limit_retries"),
		},
		Store: types.StoreConfig{
			DataDir: expandHome(viper.GetString("store.data_dir")),
		},
		Audio: types.AudioConfig{
			MaxClipSeconds: viper.GetInt("audio.max_clip_seconds"),
		},
	}
	cfg.Engine.APIKey = loadedSecrets.Resolve(secrets.KeyFor(cfg.Engine.Backend), viper.GetString("engine.api_key"))
	return cfg
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
