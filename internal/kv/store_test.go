// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestOpenCreatesSchema(t *testing.T) {
	s, dir := testStore(t)

	var count int
	err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries'`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.FileExists(t, filepath.Join(dir, dbFile))
}

func TestGetPutDelete(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", []byte("one")))
	require.NoError(t, s.Put(ctx, "k", []byte("two")))

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveJSON(ctx, KeyFolders, []string{"a", "b"}))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	var got []string
	assert.True(t, s.LoadJSON(ctx, KeyFolders, &got, nil))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestLoadJSONCorruptIsWarnedAndEmpty(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyHistory, []byte("{not json")))

	var warn strings.Builder
	var got []string
	assert.False(t, s.LoadJSON(ctx, KeyHistory, &got, &warn))
	assert.Empty(t, got)
	assert.Contains(t, warn.String(), "ignoring corrupt "+KeyHistory)
}

func TestKeysAreIndependent(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveJSON(ctx, KeySavedPrompts, []int{1}))
	require.NoError(t, s.Put(ctx, KeySavedLyrics, []byte("garbage")))

	var prompts []int
	var lyrics []int
	assert.True(t, s.LoadJSON(ctx, KeySavedPrompts, &prompts, nil))
	assert.False(t, s.LoadJSON(ctx, KeySavedLyrics, &lyrics, nil))
	assert.Equal(t, []int{1}, prompts)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeySavedLyrics, KeySavedPrompts}, keys)
}

func TestTheme(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	assert.Equal(t, DefaultTheme, s.Theme(ctx, nil))

	require.NoError(t, s.SetTheme(ctx, ThemeLight))
	assert.Equal(t, ThemeLight, s.Theme(ctx, nil))

	assert.Error(t, s.SetTheme(ctx, Theme("neon")))
	assert.Equal(t, ThemeLight, s.Theme(ctx, nil))

	require.NoError(t, s.Put(ctx, KeyTheme, []byte(`"sepia"`)))
	assert.Equal(t, DefaultTheme, s.Theme(ctx, nil))
}
