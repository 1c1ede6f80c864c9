// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vocal-architect/internal/kv"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, *kv.Store, string) {
	t.Helper()
	dir := t.TempDir()
	kvs, err := kv.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { kvs.Close() })

	s := Open(context.Background(), kvs, nil)
	seq(s)
	return s, kvs, dir
}

func seq(s *Store) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	id := 0
	s.newID = func() string {
		id++
		return fmt.Sprintf("id-%d", id)
	}
}

func ptr(s string) *string { return &s }

func promptIDs(ps []types.SavedPrompt) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// --- prompts ---

func TestSavePromptPrependsWithoutDedup(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	a, err := s.SavePrompt(ctx, "IU", "Ballad", "soft piano, airy soprano", "")
	require.NoError(t, err)
	b, err := s.SavePrompt(ctx, "IU", "Ballad", "soft piano, airy soprano", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, []string{b.ID, a.ID}, promptIDs(s.Prompts(Query{})))
}

func TestUpdatePromptFolderSemantics(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, err := s.CreateFolder(ctx, "Demos", "rose")
	require.NoError(t, err)
	p, err := s.SavePrompt(ctx, "IU", "Dance", "bright synth pop", f.ID)
	require.NoError(t, err)

	ok, err := s.UpdatePrompt(ctx, p.ID, "bright synth pop, 120 bpm", KeepFolder)
	require.NoError(t, err)
	require.True(t, ok)
	got, _ := s.Prompt(p.ID)
	assert.Equal(t, "bright synth pop, 120 bpm", got.PromptText)
	assert.Equal(t, f.ID, got.FolderID)

	ok, err = s.UpdatePrompt(ctx, p.ID, "bright synth pop", ClearFolder)
	require.NoError(t, err)
	require.True(t, ok)
	got, _ = s.Prompt(p.ID)
	assert.Empty(t, got.FolderID)

	ok, err = s.UpdatePrompt(ctx, p.ID, "bright synth pop", MoveToFolder(f.ID))
	require.NoError(t, err)
	require.True(t, ok)
	got, _ = s.Prompt(p.ID)
	assert.Equal(t, f.ID, got.FolderID)

	ok, err = s.UpdatePrompt(ctx, "missing", "x", KeepFolder)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeletePrompt(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	a, _ := s.SavePrompt(ctx, "IU", "Dance", "one", "")
	b, _ := s.SavePrompt(ctx, "IU", "Dance", "two", "")

	require.NoError(t, s.DeletePrompt(ctx, a.ID))
	assert.Equal(t, []string{b.ID}, promptIDs(s.Prompts(Query{})))
	require.NoError(t, s.DeletePrompt(ctx, a.ID))
}

// --- lyrics ---

func TestSaveLyricPlaceholderTitle(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	l, err := s.SaveLyric(ctx, "   ", nil, "raw", "[Verse]\nraw", "")
	require.NoError(t, err)
	assert.Equal(t, UntitledLyric, l.Title)
	assert.Nil(t, l.ArtistName)

	named, err := s.SaveLyric(ctx, "Night Drive", ptr("IU"), "raw", "[Verse]\nraw", "")
	require.NoError(t, err)
	assert.Equal(t, "Night Drive", named.Title)

	all := s.Lyrics(Query{})
	require.Len(t, all, 2)
	assert.Equal(t, named.ID, all[0].ID)
}

func TestDeleteLyric(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	l, _ := s.SaveLyric(ctx, "A", nil, "r", "s", "")
	require.NoError(t, s.DeleteLyric(ctx, l.ID))
	assert.Empty(t, s.Lyrics(Query{}))
	require.NoError(t, s.DeleteLyric(ctx, "missing"))
}

// --- folders ---

func TestCreateFolderAndSaveInOneStep(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, err := s.CreateFolder(ctx, "  Summer EP ", "amber")
	require.NoError(t, err)
	assert.Equal(t, "Summer EP", f.Name)

	p, err := s.SavePrompt(ctx, "IU", "Dreamy", "lofi, reverb", f.ID)
	require.NoError(t, err)

	got := s.Prompts(Query{Folder: InFolder(f.ID)})
	assert.Equal(t, []string{p.ID}, promptIDs(got))
}

func TestCreateFolderRejectsBlank(t *testing.T) {
	s, _, _ := testSetup(t)
	_, err := s.CreateFolder(context.Background(), " \t", "red")
	assert.ErrorIs(t, err, ErrBlankFolderName)
	assert.Empty(t, s.Folders())
}

func TestDeleteFolderCascadesClear(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, _ := s.CreateFolder(ctx, "F", "blue")
	other, _ := s.CreateFolder(ctx, "Other", "green")
	p, _ := s.SavePrompt(ctx, "IU", "Ballad", "piano", f.ID)
	keep, _ := s.SavePrompt(ctx, "IU", "Dance", "synth", other.ID)
	l, _ := s.SaveLyric(ctx, "Song", nil, "raw", "[Chorus] raw", f.ID)

	require.NoError(t, s.DeleteFolder(ctx, f.ID))

	gotP, ok := s.Prompt(p.ID)
	require.True(t, ok)
	assert.Empty(t, gotP.FolderID)

	gotL, ok := s.Lyric(l.ID)
	require.True(t, ok)
	assert.Empty(t, gotL.FolderID)

	gotKeep, _ := s.Prompt(keep.ID)
	assert.Equal(t, other.ID, gotKeep.FolderID)

	_, ok = s.Folder(f.ID)
	assert.False(t, ok)
	assert.Len(t, s.Folders(), 1)
}

func TestDeleteFolderCascadeIsPersisted(t *testing.T) {
	s, kvs, _ := testSetup(t)
	ctx := context.Background()

	f, _ := s.CreateFolder(ctx, "F", "blue")
	p, _ := s.SavePrompt(ctx, "IU", "Ballad", "piano", f.ID)
	require.NoError(t, s.DeleteFolder(ctx, f.ID))

	reopened := Open(ctx, kvs, nil)
	got, ok := reopened.Prompt(p.ID)
	require.True(t, ok)
	assert.Empty(t, got.FolderID)
	assert.Empty(t, reopened.Folders())
}

// failingPersister fails writes to one key and passes the rest through.
type failingPersister struct {
	Persister
	failKey string
}

var errDiskFull = errors.New("disk full")

func (f failingPersister) SaveJSON(ctx context.Context, key string, v any) error {
	if key == f.failKey {
		return errDiskFull
	}
	return f.Persister.SaveJSON(ctx, key, v)
}

func TestDeleteFolderSweepsItemsWhenFolderWriteFails(t *testing.T) {
	_, kvs, _ := testSetup(t)
	ctx := context.Background()

	s := Open(ctx, failingPersister{Persister: kvs}, nil)
	seq(s)
	f, err := s.CreateFolder(ctx, "F", "blue")
	require.NoError(t, err)
	p, err := s.SavePrompt(ctx, "IU", "Ballad", "piano", f.ID)
	require.NoError(t, err)
	l, err := s.SaveLyric(ctx, "Song", nil, "raw", "[Chorus] raw", f.ID)
	require.NoError(t, err)

	s.p = failingPersister{Persister: kvs, failKey: kv.KeyFolders}
	err = s.DeleteFolder(ctx, f.ID)
	require.ErrorIs(t, err, errDiskFull)

	_, ok := s.Folder(f.ID)
	assert.False(t, ok)
	gotP, ok := s.Prompt(p.ID)
	require.True(t, ok)
	assert.Empty(t, gotP.FolderID)
	gotL, ok := s.Lyric(l.ID)
	require.True(t, ok)
	assert.Empty(t, gotL.FolderID)

	// The item sweeps still reached storage.
	reopened := Open(ctx, kvs, nil)
	gotP, ok = reopened.Prompt(p.ID)
	require.True(t, ok)
	assert.Empty(t, gotP.FolderID)
}

func TestRenameFolder(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, _ := s.CreateFolder(ctx, "Old", "blue")
	ok, err := s.RenameFolder(ctx, f.ID, "New")
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ := s.Folder(f.ID)
	assert.Equal(t, "New", got.Name)

	_, err = s.RenameFolder(ctx, f.ID, "")
	assert.ErrorIs(t, err, ErrBlankFolderName)

	ok, err = s.RenameFolder(ctx, "missing", "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCounts(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, _ := s.CreateFolder(ctx, "F", "blue")
	_, _ = s.SavePrompt(ctx, "IU", "Ballad", "a", f.ID)
	_, _ = s.SavePrompt(ctx, "IU", "Ballad", "b", "")
	_, _ = s.SavePrompt(ctx, "IU", "Ballad", "c", "dangling")
	_, _ = s.SaveLyric(ctx, "L", nil, "r", "s", f.ID)

	counts := s.Counts()
	assert.Equal(t, FolderCounts{Prompts: 1, Lyrics: 1}, counts[f.ID])
	assert.Equal(t, FolderCounts{Prompts: 2}, counts[""])
}

// --- query ---

func TestPromptQuery(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, _ := s.CreateFolder(ctx, "F", "blue")
	iu, _ := s.SavePrompt(ctx, "IU", "Ballad", "Soft piano", f.ID)
	adele, _ := s.SavePrompt(ctx, "Adele", "Vocal DNA", "smoky mezzo", "")
	dangling, _ := s.SavePrompt(ctx, "Sia", "Dance", "Piano house", "gone")

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"all", Query{}, []string{dangling.ID, adele.ID, iu.ID}},
		{"artist case-insensitive", Query{Text: "adele"}, []string{adele.ID}},
		{"label", Query{Text: "vocal dna"}, []string{adele.ID}},
		{"body", Query{Text: "PIANO"}, []string{dangling.ID, iu.ID}},
		{"folder", Query{Folder: InFolder(f.ID)}, []string{iu.ID}},
		{"uncategorized includes dangling", Query{Folder: Uncategorized}, []string{dangling.ID, adele.ID}},
		{"text and folder", Query{Text: "piano", Folder: Uncategorized}, []string{dangling.ID}},
		{"no match", Query{Text: "trap"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, promptIDs(s.Prompts(tt.q)))
		})
	}
}

func TestLyricQuery(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	a, _ := s.SaveLyric(ctx, "Night Drive", ptr("IU"), "city lights", "[Verse]\ncity lights", "")
	b, _ := s.SaveLyric(ctx, "Rain", nil, "grey skies", "[Verse]\ngrey skies", "")

	got := s.Lyrics(Query{Text: "iu"})
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got = s.Lyrics(Query{Text: "GREY"})
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestQueryIsEmpty(t *testing.T) {
	assert.True(t, Query{}.IsEmpty())
	assert.True(t, Query{Text: "  "}.IsEmpty())
	assert.False(t, Query{Text: "x"}.IsEmpty())
	assert.False(t, Query{Folder: Uncategorized}.IsEmpty())
}

// --- persistence ---

func TestCollectionsLoadIndependently(t *testing.T) {
	s, kvs, _ := testSetup(t)
	ctx := context.Background()

	_, _ = s.SavePrompt(ctx, "IU", "Ballad", "piano", "")
	_, _ = s.SaveLyric(ctx, "L", nil, "r", "s", "")
	require.NoError(t, kvs.Put(ctx, kv.KeySavedLyrics, []byte("not json")))

	var warn strings.Builder
	reopened := Open(ctx, kvs, &warn)
	assert.Len(t, reopened.Prompts(Query{}), 1)
	assert.Empty(t, reopened.Lyrics(Query{}))
	assert.Contains(t, warn.String(), kv.KeySavedLyrics)
}

// --- export ---

func TestExport(t *testing.T) {
	s, _, _ := testSetup(t)
	ctx := context.Background()

	f, _ := s.CreateFolder(ctx, "F", "blue")
	_, _ = s.SavePrompt(ctx, "IU", "Ballad", "piano", f.ID)
	_, _ = s.SaveLyric(ctx, "L", ptr("IU"), "r", "[Verse] r", "")

	var yamlOut bytes.Buffer
	require.NoError(t, s.Export(&yamlOut, Query{}, FormatYAML))
	var fromYAML Snapshot
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &fromYAML))
	assert.Len(t, fromYAML.Folders, 1)
	assert.Len(t, fromYAML.Prompts, 1)
	assert.Len(t, fromYAML.Lyrics, 1)

	var jsonOut bytes.Buffer
	require.NoError(t, s.Export(&jsonOut, Query{Folder: InFolder(f.ID)}, FormatJSON))
	var fromJSON Snapshot
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &fromJSON))
	assert.Len(t, fromJSON.Folders, 1)
	assert.Len(t, fromJSON.Prompts, 1)
	assert.Empty(t, fromJSON.Lyrics)

	assert.Error(t, s.Export(&jsonOut, Query{}, ExportFormat("xml")))
}
