// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"strings"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

type folderFilterKind int

const (
	filterAny folderFilterKind = iota
	filterUncategorized
	filterFolder
)

// FolderFilter restricts a query by folder membership. The zero value
// matches every item.
type FolderFilter struct {
	kind folderFilterKind
	id   string
}

// AnyFolder matches every item.
var AnyFolder = FolderFilter{}

// Uncategorized matches items with no folder id or a folder id that no
// longer names an existing folder.
var Uncategorized = FolderFilter{kind: filterUncategorized}

// InFolder matches items filed in folder id.
func InFolder(id string) FolderFilter {
	return FolderFilter{kind: filterFolder, id: id}
}

// Query holds search parameters for saved prompts and lyrics.
type Query struct {
	// Text is matched case-insensitively as a substring of the item's
	// name, label and body fields. Empty matches everything.
	Text string

	// Folder restricts results by folder.
	Folder FolderFilter
}

// IsEmpty reports whether the query has no search text or folder filter.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" && q.Folder.kind == filterAny
}

func (f FolderFilter) match(folderID string, known map[string]bool) bool {
	switch f.kind {
	case filterUncategorized:
		return effectiveFolder(folderID, known) == ""
	case filterFolder:
		return folderID == f.id
	default:
		return true
	}
}

func containsFold(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Prompts returns saved prompts matching q, most recent first.
func (s *Store) Prompts(q Query) []types.SavedPrompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	known := s.folderSet()

	var out []types.SavedPrompt
	for _, p := range s.prompts {
		if !q.Folder.match(p.FolderID, known) {
			continue
		}
		if !containsFold(needle, p.ArtistName, p.MoodLabel, p.PromptText) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Lyrics returns saved lyrics matching q, most recent first.
func (s *Store) Lyrics(q Query) []types.SavedLyric {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	known := s.folderSet()

	var out []types.SavedLyric
	for _, l := range s.lyrics {
		if !q.Folder.match(l.FolderID, known) {
			continue
		}
		artist := ""
		if l.ArtistName != nil {
			artist = *l.ArtistName
		}
		if !containsFold(needle, l.Title, artist, l.RawText, l.StructuredText) {
			continue
		}
		out = append(out, l)
	}
	return out
}
