// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lyrics implements the lyric structuring page: a raw lyric draft is
// sent to the engine, which returns the same text annotated with section
// markers, and the result can be committed to the library.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/vocal-architect/internal/session"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

var (
	// ErrEmptyLyrics means there is no raw text to structure.
	ErrEmptyLyrics = errors.New("raw lyrics are empty")

	// ErrNothingToSave means there is no structured text to save.
	ErrNothingToSave = errors.New("no structured lyrics to save")

	// ErrStructureFailed wraps engine errors from Structure.
	ErrStructureFailed = errors.New("lyric structuring failed")
)

// State is the page state derived from the draft.
type State int

const (
	Empty State = iota
	Drafting
	Structured
)

func (s State) String() string {
	switch s {
	case Drafting:
		return "drafting"
	case Structured:
		return "structured"
	default:
		return "empty"
	}
}

// Structurer adds section markers to raw lyrics.
type Structurer interface {
	StructureLyrics(ctx context.Context, req types.StructureRequest) (string, error)
}

// ArtistLookup resolves a history entry id. *history.Store satisfies it.
type ArtistLookup interface {
	Get(id string) (types.HistoryEntry, bool)
}

// LyricSaver commits lyrics to the library. *library.Store satisfies it.
type LyricSaver interface {
	SaveLyric(ctx context.Context, title string, artistName *string, rawText, structuredText, folderID string) (types.SavedLyric, error)
}

// Workflow drives one visit to the lyric page. The draft, its in-flight
// mark and its saved mark all live in session.Drafts, so a new Workflow
// over the same Drafts picks up where the previous one left off.
type Workflow struct {
	drafts  *session.Drafts
	artists ArtistLookup
	engine  Structurer
	library LyricSaver
}

// NewWorkflow returns a workflow over drafts.
func NewWorkflow(drafts *session.Drafts, artists ArtistLookup, engine Structurer, library LyricSaver) *Workflow {
	return &Workflow{drafts: drafts, artists: artists, engine: engine, library: library}
}

// Draft returns the current draft.
func (w *Workflow) Draft() types.LyricDraft {
	return w.drafts.Lyric()
}

// State derives the page state from the draft.
func (w *Workflow) State() State {
	d := w.drafts.Lyric()
	switch {
	case strings.TrimSpace(d.StructuredText) != "":
		return Structured
	case strings.TrimSpace(d.RawText) != "":
		return Drafting
	default:
		return Empty
	}
}

// Saved reports whether the current structured text has been committed to
// the library. Any later edit resets it.
func (w *Workflow) Saved() bool {
	return w.drafts.LyricSaved()
}

// Structuring reports whether a Structure call is outstanding, from this
// workflow or any other over the same drafts.
func (w *Workflow) Structuring() bool {
	return w.drafts.Structuring()
}

// SetTitle sets the draft title.
func (w *Workflow) SetTitle(title string) {
	w.drafts.UpdateLyric(func(d *types.LyricDraft) { d.Title = title })
}

// SelectArtist sets the history entry whose style colors structuring. An
// empty id selects no artist. A Structure call in flight discards its
// result.
func (w *Workflow) SelectArtist(historyID string) {
	w.drafts.UpdateLyric(func(d *types.LyricDraft) { d.ArtistID = historyID })
}

// SetRaw replaces the raw lyric text. Existing structured output is kept
// until the next successful Structure call; a call in flight discards its
// result.
func (w *Workflow) SetRaw(text string) {
	w.drafts.UpdateLyric(func(d *types.LyricDraft) { d.RawText = text })
}

// SetStructured replaces the structured text with a local edit.
func (w *Workflow) SetStructured(text string) {
	w.drafts.UpdateLyric(func(d *types.LyricDraft) { d.StructuredText = text })
}

// Clear resets the draft to empty. A Structure call still in flight will
// discard its result.
func (w *Workflow) Clear() {
	w.drafts.SetLyric(types.LyricDraft{})
}

// ArtistContext returns the style context for the selected artist, or nil
// when none is selected or the entry has left history.
func (w *Workflow) ArtistContext() *types.ArtistContext {
	return w.artistContext(w.drafts.Lyric().ArtistID)
}

func (w *Workflow) artistContext(id string) *types.ArtistContext {
	if id == "" || w.artists == nil {
		return nil
	}
	e, ok := w.artists.Get(id)
	if !ok {
		return nil
	}
	return &types.ArtistContext{
		Name:         e.Name,
		StyleSummary: e.Style.Localized,
		VocalSummary: e.VocalTexture.Localized,
	}
}

// Structure sends the raw text to the engine and stores the structured
// result. On failure the draft is unchanged, including any earlier
// structured output. If the raw text or artist changed, or the draft was
// cleared, while the call was outstanding, the result is dropped and
// session.ErrStale returned.
func (w *Workflow) Structure(ctx context.Context) (string, error) {
	draft, gen, err := w.drafts.BeginStructure()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(draft.RawText) == "" {
		w.drafts.EndStructure(gen, "")
		return "", ErrEmptyLyrics
	}

	req := types.StructureRequest{
		RawLyrics:     draft.RawText,
		ArtistContext: w.artistContext(draft.ArtistID),
	}
	out, err := w.engine.StructureLyrics(ctx, req)
	if err == nil && strings.TrimSpace(out) == "" {
		err = errors.New("engine returned empty text")
	}
	if err != nil {
		w.drafts.EndStructure(gen, "")
		return "", fmt.Errorf("%w: %w", ErrStructureFailed, err)
	}

	if err := w.drafts.EndStructure(gen, out); err != nil {
		return "", err
	}
	return out, nil
}

// Save commits the draft to the library under folderID. A blank title is
// stored under the library's placeholder.
func (w *Workflow) Save(ctx context.Context, folderID string) (types.SavedLyric, error) {
	d, rev := w.drafts.LyricRevision()
	if strings.TrimSpace(d.StructuredText) == "" {
		return types.SavedLyric{}, ErrNothingToSave
	}

	var artist *string
	if c := w.artistContext(d.ArtistID); c != nil {
		artist = &c.Name
	}

	saved, err := w.library.SaveLyric(ctx, d.Title, artist, d.RawText, d.StructuredText, folderID)
	if err != nil {
		return saved, err
	}
	w.drafts.MarkLyricSaved(rev)
	return saved, nil
}
