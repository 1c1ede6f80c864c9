// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps the capped, deduplicated, most-recent-first list of
// past artist analyses and writes it through to local storage on every
// change.
package history

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

// Capacity is the maximum number of entries kept.
const Capacity = 10

// Persister reads and writes JSON values by key. *kv.Store satisfies it.
type Persister interface {
	LoadJSON(ctx context.Context, key string, v any, warn io.Writer) bool
	SaveJSON(ctx context.Context, key string, v any) error
}

// Store owns the history list.
type Store struct {
	mu      sync.Mutex
	p       Persister
	entries []types.HistoryEntry

	now   func() time.Time
	newID func() string
}

// Open loads the persisted history. Missing or corrupt data yields an empty
// history; corruption is reported on warn.
func Open(ctx context.Context, p Persister, warn io.Writer) *Store {
	s := &Store{
		p:     p,
		now:   time.Now,
		newID: uuid.NewString,
	}

	var stored []types.HistoryEntry
	if p.LoadJSON(ctx, kv.KeyHistory, &stored, warn) {
		s.entries = normalize(stored)
	}
	return s
}

// normalize drops duplicate names (first occurrence wins) and truncates to
// Capacity, so data written by older versions still fits.
func normalize(in []types.HistoryEntry) []types.HistoryEntry {
	seen := make(map[string]bool, len(in))
	out := make([]types.HistoryEntry, 0, min(len(in), Capacity))
	for _, e := range in {
		k := nameKey(e.Name)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
		if len(out) == Capacity {
			break
		}
	}
	return out
}

func nameKey(name string) string {
	return strings.ToLower(name)
}

// Record captures result as a new entry at the front. Any entry with the
// same name (case-insensitive) is removed first, then the list is truncated
// to Capacity. The in-memory list is updated even if the write fails.
func (s *Store) Record(ctx context.Context, result types.AnalysisResult) (types.HistoryEntry, error) {
	entry := types.HistoryEntry{
		AnalysisResult: result,
		ID:             s.newID(),
		CapturedAt:     s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(result.Name)
	next := make([]types.HistoryEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	for _, e := range s.entries {
		if nameKey(e.Name) != key {
			next = append(next, e)
		}
	}
	if len(next) > Capacity {
		next = next[:Capacity]
	}
	s.entries = next

	if err := s.persist(ctx); err != nil {
		return entry, err
	}
	return entry, nil
}

// Remove deletes the entry with id. A missing id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	return s.persist(ctx)
}

// Select returns the stored result for replay. It does not change ordering.
func (s *Store) Select(id string) (types.AnalysisResult, bool) {
	e, ok := s.Get(id)
	return e.AnalysisResult, ok
}

// Get returns the full entry with id.
func (s *Store) Get(id string) (types.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return types.HistoryEntry{}, false
	}
	return s.entries[idx], true
}

// FindByName returns the entry whose name matches case-insensitively.
func (s *Store) FindByName(name string) (types.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(name)
	for _, e := range s.entries {
		if nameKey(e.Name) == key {
			return e, true
		}
	}
	return types.HistoryEntry{}, false
}

// List returns the entries, most recent first.
func (s *Store) List() []types.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	if err := s.p.SaveJSON(ctx, kv.KeyHistory, s.entries); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
