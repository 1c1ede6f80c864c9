// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. Each
// file holds one secret: the filename is the key name and the trimmed file
// contents are the value.
//
// Known key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

// Key file names.
const (
	OpenAIKey    = "openai-api-key"
	AnthropicKey = "anthropic-api-key"
)

// envVars maps key names to the provider's conventional variable.
var envVars = map[string]string{
	OpenAIKey:    "OPENAI_API_KEY",
	AnthropicKey: "ANTHROPIC_API_KEY",
}

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files produce a warning on warn but do
// not abort.
func Load(dir string, warn io.Writer) (Secrets, error) {
	if warn == nil {
		warn = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Names returns the loaded key names, sorted.
func (s Secrets) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the value for key. An explicit value wins, then the
// secret file, then the provider's environment variable.
func (s Secrets) Resolve(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := s[key]; ok {
		return v
	}
	if env, ok := envVars[key]; ok {
		return os.Getenv(env)
	}
	return ""
}

// KeyFor returns the key name that authenticates backend.
func KeyFor(backend types.EngineBackend) string {
	if backend == types.BackendClaude {
		return AnthropicKey
	}
	return OpenAIKey
}
