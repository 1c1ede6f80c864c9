// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sync"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

// Drafts holds the lyric and score draft buffers for the whole session.
// Page workflows come and go as the user navigates; the buffers stay here
// until explicitly replaced or cleared.
//
// The in-flight mark and generation of each draft live here too, so every
// workflow over the same Drafts sees one outstanding call at most and a
// late result can never land in a draft that was cleared or rewritten after
// the call started.
type Drafts struct {
	mu sync.Mutex

	lyric       types.LyricDraft
	lyricGen    uint64 // bumped when the structuring input changes
	lyricRev    uint64 // bumped on every lyric change
	savedRev    uint64
	lyricSaved  bool
	structuring bool

	score        *types.ScoreDraft
	scoreGen     uint64
	transcribing bool
}

// NewDrafts returns empty draft buffers.
func NewDrafts() *Drafts {
	return &Drafts{}
}

// Lyric returns the lyric draft.
func (d *Drafts) Lyric() types.LyricDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lyric
}

// SetLyric replaces the lyric draft. A structuring call in flight will
// have its result discarded.
func (d *Drafts) SetLyric(draft types.LyricDraft) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lyric = draft
	d.lyricGen++
	d.lyricRev++
}

// UpdateLyric applies fn to the lyric draft atomically and returns the
// result. Changing the raw text or the artist discards the result of a
// structuring call in flight.
func (d *Drafts) UpdateLyric(fn func(*types.LyricDraft)) types.LyricDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	before := d.lyric
	fn(&d.lyric)
	if d.lyric.RawText != before.RawText || d.lyric.ArtistID != before.ArtistID {
		d.lyricGen++
	}
	d.lyricRev++
	return d.lyric
}

// LyricRevision returns the lyric draft with its revision, for use with
// MarkLyricSaved.
func (d *Drafts) LyricRevision() (types.LyricDraft, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lyric, d.lyricRev
}

// MarkLyricSaved records that revision rev was committed to the library.
// It has no effect if the draft changed since rev was read.
func (d *Drafts) MarkLyricSaved(rev uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rev == d.lyricRev {
		d.savedRev = rev
		d.lyricSaved = true
	}
}

// LyricSaved reports whether the current lyric draft has been committed to
// the library.
func (d *Drafts) LyricSaved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lyricSaved && d.savedRev == d.lyricRev
}

// BeginStructure marks a structuring call outstanding and returns the
// draft it should work on along with the draft generation. It returns
// ErrBusy if a call is already outstanding. Every successful
// BeginStructure must be paired with EndStructure.
func (d *Drafts) BeginStructure() (types.LyricDraft, uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.structuring {
		return types.LyricDraft{}, 0, ErrBusy
	}
	d.structuring = true
	return d.lyric, d.lyricGen, nil
}

// EndStructure clears the outstanding mark. A non-empty structured text is
// stored if the draft generation still equals gen; otherwise ErrStale is
// returned and the draft is left alone. An empty structured text only
// clears the mark.
func (d *Drafts) EndStructure(gen uint64, structured string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.structuring = false
	if structured == "" {
		return nil
	}
	if gen != d.lyricGen {
		return ErrStale
	}
	d.lyric.StructuredText = structured
	d.lyricRev++
	return nil
}

// Structuring reports whether a structuring call is outstanding.
func (d *Drafts) Structuring() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.structuring
}

// Score returns the score draft, if one has been produced.
func (d *Drafts) Score() (types.ScoreDraft, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.score == nil {
		return types.ScoreDraft{}, false
	}
	return *d.score, true
}

// SetScore replaces the score draft. A transcription in flight will have
// its result discarded.
func (d *Drafts) SetScore(draft types.ScoreDraft) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.score = &draft
	d.scoreGen++
}

// UpdateScore applies fn to the score draft if one exists. It reports
// whether a draft was present.
func (d *Drafts) UpdateScore(fn func(*types.ScoreDraft)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.score == nil {
		return false
	}
	fn(d.score)
	return true
}

// BeginTranscribe marks a transcription outstanding and returns the score
// generation. It returns ErrBusy if one is already outstanding. Every
// successful BeginTranscribe must be paired with EndTranscribe.
func (d *Drafts) BeginTranscribe() (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.transcribing {
		return 0, ErrBusy
	}
	d.transcribing = true
	return d.scoreGen, nil
}

// EndTranscribe clears the outstanding mark. A non-nil result replaces the
// draft if the score generation still equals gen; otherwise ErrStale is
// returned.
func (d *Drafts) EndTranscribe(gen uint64, result *types.ScoreDraft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transcribing = false
	if result == nil {
		return nil
	}
	if gen != d.scoreGen {
		return ErrStale
	}
	r := *result
	d.score = &r
	d.scoreGen++
	return nil
}

// Transcribing reports whether a transcription is outstanding.
func (d *Drafts) Transcribing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transcribing
}
