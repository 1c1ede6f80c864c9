// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library stores finished artifacts: saved prompts, saved lyrics,
// and the flat set of user folders that organise them. Each collection is
// persisted under its own key and written through after every mutation.
//
// Folder membership is a weak reference. Deleting a folder never deletes
// items; it clears their folder id.
package library

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/vocal-architect/internal/kv"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

// UntitledLyric replaces a blank title when a lyric is saved.
const UntitledLyric = "untitled"

// Persister reads and writes JSON values by key. *kv.Store satisfies it.
type Persister interface {
	LoadJSON(ctx context.Context, key string, v any, warn io.Writer) bool
	SaveJSON(ctx context.Context, key string, v any) error
}

// FolderUpdate describes what UpdatePrompt does with the folder assignment.
// The zero value keeps the current folder.
type FolderUpdate struct {
	set bool
	id  string
}

// KeepFolder leaves the folder assignment unchanged.
var KeepFolder = FolderUpdate{}

// ClearFolder moves the item to uncategorized.
var ClearFolder = FolderUpdate{set: true}

// MoveToFolder assigns the item to folder id. An empty id is the same as
// ClearFolder.
func MoveToFolder(id string) FolderUpdate {
	return FolderUpdate{set: true, id: id}
}

func (u FolderUpdate) apply(current string) string {
	if !u.set {
		return current
	}
	return u.id
}

// Store owns saved prompts, saved lyrics and folders.
type Store struct {
	mu      sync.Mutex
	p       Persister
	prompts []types.SavedPrompt
	lyrics  []types.SavedLyric
	folders []types.Folder

	now   func() time.Time
	newID func() string
}

// Open loads all three collections. Each is read independently; a missing
// or corrupt collection starts empty and corruption is reported on warn.
func Open(ctx context.Context, p Persister, warn io.Writer) *Store {
	s := &Store{
		p:     p,
		now:   time.Now,
		newID: uuid.NewString,
	}
	s.prompts = load[types.SavedPrompt](ctx, p, kv.KeySavedPrompts, warn)
	s.lyrics = load[types.SavedLyric](ctx, p, kv.KeySavedLyrics, warn)
	s.folders = load[types.Folder](ctx, p, kv.KeyFolders, warn)
	return s
}

func load[T any](ctx context.Context, p Persister, key string, warn io.Writer) []T {
	var items []T
	if !p.LoadJSON(ctx, key, &items, warn) {
		return nil
	}
	return items
}

// --- prompts ---

// SavePrompt prepends a new saved prompt. Saving identical text twice
// creates two entries.
func (s *Store) SavePrompt(ctx context.Context, artistName, moodLabel, promptText, folderID string) (types.SavedPrompt, error) {
	p := types.SavedPrompt{
		ID:         s.newID(),
		ArtistName: artistName,
		MoodLabel:  moodLabel,
		PromptText: promptText,
		SavedAt:    s.now(),
		FolderID:   folderID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append([]types.SavedPrompt{p}, s.prompts...)
	return p, s.persistPrompts(ctx)
}

// UpdatePrompt replaces the text of prompt id and applies folder. It reports
// false when id does not exist.
func (s *Store) UpdatePrompt(ctx context.Context, id, newText string, folder FolderUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.prompts {
		if s.prompts[i].ID != id {
			continue
		}
		s.prompts[i].PromptText = newText
		s.prompts[i].FolderID = folder.apply(s.prompts[i].FolderID)
		return true, s.persistPrompts(ctx)
	}
	return false, nil
}

// MovePrompt changes only the folder of prompt id.
func (s *Store) MovePrompt(ctx context.Context, id string, folder FolderUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.prompts {
		if s.prompts[i].ID == id {
			s.prompts[i].FolderID = folder.apply(s.prompts[i].FolderID)
			return true, s.persistPrompts(ctx)
		}
	}
	return false, nil
}

// DeletePrompt removes prompt id. A missing id is a no-op.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.prompts {
		if p.ID == id {
			s.prompts = append(s.prompts[:i:i], s.prompts[i+1:]...)
			return s.persistPrompts(ctx)
		}
	}
	return nil
}

// Prompt returns saved prompt id.
func (s *Store) Prompt(id string) (types.SavedPrompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prompts {
		if p.ID == id {
			return p, true
		}
	}
	return types.SavedPrompt{}, false
}

// --- lyrics ---

// SaveLyric prepends a new saved lyric. A blank title becomes UntitledLyric.
func (s *Store) SaveLyric(ctx context.Context, title string, artistName *string, rawText, structuredText, folderID string) (types.SavedLyric, error) {
	if strings.TrimSpace(title) == "" {
		title = UntitledLyric
	}
	l := types.SavedLyric{
		ID:             s.newID(),
		Title:          strings.TrimSpace(title),
		ArtistName:     artistName,
		RawText:        rawText,
		StructuredText: structuredText,
		SavedAt:        s.now(),
		FolderID:       folderID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lyrics = append([]types.SavedLyric{l}, s.lyrics...)
	return l, s.persistLyrics(ctx)
}

// MoveLyric changes the folder of lyric id.
func (s *Store) MoveLyric(ctx context.Context, id string, folder FolderUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lyrics {
		if s.lyrics[i].ID == id {
			s.lyrics[i].FolderID = folder.apply(s.lyrics[i].FolderID)
			return true, s.persistLyrics(ctx)
		}
	}
	return false, nil
}

// DeleteLyric removes lyric id. A missing id is a no-op.
func (s *Store) DeleteLyric(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.lyrics {
		if l.ID == id {
			s.lyrics = append(s.lyrics[:i:i], s.lyrics[i+1:]...)
			return s.persistLyrics(ctx)
		}
	}
	return nil
}

// Lyric returns saved lyric id.
func (s *Store) Lyric(id string) (types.SavedLyric, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lyrics {
		if l.ID == id {
			return l, true
		}
	}
	return types.SavedLyric{}, false
}

// --- persistence ---

func (s *Store) persistPrompts(ctx context.Context) error {
	if err := s.p.SaveJSON(ctx, kv.KeySavedPrompts, s.prompts); err != nil {
		return fmt.Errorf("saving prompts: %w", err)
	}
	return nil
}

func (s *Store) persistLyrics(ctx context.Context) error {
	if err := s.p.SaveJSON(ctx, kv.KeySavedLyrics, s.lyrics); err != nil {
		return fmt.Errorf("saving lyrics: %w", err)
	}
	return nil
}

func (s *Store) persistFolders(ctx context.Context) error {
	if err := s.p.SaveJSON(ctx, kv.KeyFolders, s.folders); err != nil {
		return fmt.Errorf("saving folders: %w", err)
	}
	return nil
}
