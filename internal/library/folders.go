// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"errors"
	"strings"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

// ErrBlankFolderName is returned when a folder name is empty after trimming.
var ErrBlankFolderName = errors.New("folder name is blank")

// CreateFolder adds a folder and returns it. The id is usable immediately as
// the folder argument of a save in the same user action.
func (s *Store) CreateFolder(ctx context.Context, name, color string) (types.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Folder{}, ErrBlankFolderName
	}
	f := types.Folder{
		ID:        s.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.folders = append(s.folders, f)
	return f, s.persistFolders(ctx)
}

// RenameFolder changes the name of folder id. It reports false when the
// folder does not exist.
func (s *Store) RenameFolder(ctx context.Context, id, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrBlankFolderName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].Name = name
			return true, s.persistFolders(ctx)
		}
	}
	return false, nil
}

// DeleteFolder removes folder id and clears the folder id of every saved
// prompt and lyric that referenced it. Items are never deleted. A missing
// folder still sweeps the item collections so no dangling reference to id
// survives. Memory is updated in full before anything is written, so a
// failed write never leaves items pointing at the removed folder.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	foldersChanged := false
	for i, f := range s.folders {
		if f.ID == id {
			s.folders = append(s.folders[:i:i], s.folders[i+1:]...)
			foldersChanged = true
			break
		}
	}
	promptsChanged := false
	for i := range s.prompts {
		if s.prompts[i].FolderID == id {
			s.prompts[i].FolderID = ""
			promptsChanged = true
		}
	}
	lyricsChanged := false
	for i := range s.lyrics {
		if s.lyrics[i].FolderID == id {
			s.lyrics[i].FolderID = ""
			lyricsChanged = true
		}
	}

	var errs []error
	if foldersChanged {
		errs = append(errs, s.persistFolders(ctx))
	}
	if promptsChanged {
		errs = append(errs, s.persistPrompts(ctx))
	}
	if lyricsChanged {
		errs = append(errs, s.persistLyrics(ctx))
	}
	return errors.Join(errs...)
}

// Folders returns all folders in creation order.
func (s *Store) Folders() []types.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// Folder returns folder id.
func (s *Store) Folder(id string) (types.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return types.Folder{}, false
}

// FolderCounts holds the number of items filed in one folder.
type FolderCounts struct {
	Prompts int
	Lyrics  int
}

// Counts returns item counts keyed by folder id. Uncategorized items,
// including those with a dangling folder id, are counted under "".
func (s *Store) Counts() map[string]FolderCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := s.folderSet()
	counts := make(map[string]FolderCounts, len(s.folders)+1)
	for _, p := range s.prompts {
		k := effectiveFolder(p.FolderID, known)
		c := counts[k]
		c.Prompts++
		counts[k] = c
	}
	for _, l := range s.lyrics {
		k := effectiveFolder(l.FolderID, known)
		c := counts[k]
		c.Lyrics++
		counts[k] = c
	}
	return counts
}

// folderSet must be called with s.mu held.
func (s *Store) folderSet() map[string]bool {
	known := make(map[string]bool, len(s.folders))
	for _, f := range s.folders {
		known[f.ID] = true
	}
	return known
}

// effectiveFolder maps an absent or dangling folder id to "".
func effectiveFolder(id string, known map[string]bool) string {
	if id == "" || !known[id] {
		return ""
	}
	return id
}
