// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   Secrets
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKey, "  sk-abc123  \n")
				writeFile(t, dir, AnthropicKey, "sk-ant-xyz")
				return dir
			},
			want: Secrets{OpenAIKey: "sk-abc123", AnthropicKey: "sk-ant-xyz"},
		},
		{
			name: "skips dotfiles, directories and empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, "empty", "  \n")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				writeFile(t, dir, OpenAIKey, "k")
				return dir
			},
			want: Secrets{OpenAIKey: "k"},
		},
		{
			name: "returns empty set for missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope")
			},
			want: Secrets{},
		},
		{
			name: "errors when path is a file",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "file", "x")
				return filepath.Join(dir, "file")
			},
			errMsg: "reading secrets directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFileWarns(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := t.TempDir()
	writeFile(t, dir, OpenAIKey, "value123")

	badPath := filepath.Join(dir, AnthropicKey)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var warn bytes.Buffer
	got, err := Load(dir, &warn)
	require.NoError(t, err)
	assert.Equal(t, Secrets{OpenAIKey: "value123"}, got)
	assert.Contains(t, warn.String(), "could not read secret "+AnthropicKey)
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")
	s := Secrets{OpenAIKey: "from-file"}

	assert.Equal(t, "explicit", s.Resolve(OpenAIKey, "explicit"))
	assert.Equal(t, "from-file", s.Resolve(OpenAIKey, ""))
	assert.Equal(t, "from-env", Secrets{}.Resolve(OpenAIKey, ""))
	assert.Equal(t, "", Secrets{}.Resolve("unknown-key", ""))
}

func TestNamesSorted(t *testing.T) {
	s := Secrets{OpenAIKey: "a", AnthropicKey: "b"}
	assert.Equal(t, []string{AnthropicKey, OpenAIKey}, s.Names())
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, AnthropicKey, KeyFor(types.BackendClaude))
	assert.Equal(t, OpenAIKey, KeyFor(types.BackendOpenAI))
	assert.Equal(t, OpenAIKey, KeyFor(""))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
