// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score implements the score transcription page: an audio clip is
// turned into ABC notation plus a short musical analysis, which the user
// can edit and export.
package score

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/session"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

const (
	// ExportSuffix is appended to the source base name on export.
	ExportSuffix = "_transcription.abc"

	// DefaultBaseName is used when the source name has no usable base.
	DefaultBaseName = "score"
)

var (
	// ErrNoDraft means no transcription has been produced yet.
	ErrNoDraft = errors.New("no score draft")

	// ErrEmptyNotation means the draft has no notation to export.
	ErrEmptyNotation = errors.New("notation is empty")

	// ErrTranscribeFailed wraps engine errors from Transcribe.
	ErrTranscribeFailed = errors.New("score transcription failed")
)

// Transcriber turns audio into notation.
type Transcriber interface {
	TranscribeScore(ctx context.Context, clip audio.Clip) (types.ScoreResult, error)
}

// Workflow drives one visit to the score page. The draft and its
// in-flight mark live in session.Drafts and outlive the workflow.
type Workflow struct {
	drafts *session.Drafts
	engine Transcriber
}

// NewWorkflow returns a workflow over drafts.
func NewWorkflow(drafts *session.Drafts, engine Transcriber) *Workflow {
	return &Workflow{drafts: drafts, engine: engine}
}

// Draft returns the current draft.
func (w *Workflow) Draft() (types.ScoreDraft, bool) {
	return w.drafts.Score()
}

// Transcribing reports whether a Transcribe call is outstanding, from this
// workflow or any other over the same drafts.
func (w *Workflow) Transcribing() bool {
	return w.drafts.Transcribing()
}

// Transcribe sends clip to the engine. The existing draft is left in place
// until the call succeeds, then replaced wholesale. If the draft was
// replaced while the call was outstanding, the result is dropped and
// session.ErrStale returned.
func (w *Workflow) Transcribe(ctx context.Context, clip audio.Clip) (types.ScoreDraft, error) {
	gen, err := w.drafts.BeginTranscribe()
	if err != nil {
		return types.ScoreDraft{}, err
	}

	res, err := w.engine.TranscribeScore(ctx, clip)
	if err != nil {
		w.drafts.EndTranscribe(gen, nil)
		return types.ScoreDraft{}, fmt.Errorf("%w: %w", ErrTranscribeFailed, err)
	}

	draft := types.ScoreDraft{
		SourceFileName: clip.Name,
		NotationText:   res.Notation,
		AnalysisText:   res.AnalysisText,
	}
	if err := w.drafts.EndTranscribe(gen, &draft); err != nil {
		return types.ScoreDraft{}, err
	}
	return draft, nil
}

// EditNotation replaces the notation text with a local edit.
func (w *Workflow) EditNotation(text string) error {
	if !w.drafts.UpdateScore(func(d *types.ScoreDraft) { d.NotationText = text }) {
		return ErrNoDraft
	}
	return nil
}

// ExportName returns the export file name for a source file name: the
// part before the first dot, plus ExportSuffix.
func ExportName(sourceFileName string) string {
	base := filepath.Base(sourceFileName)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "/" {
		base = DefaultBaseName
	}
	return base + ExportSuffix
}

// Export writes the draft's notation into dir and returns the file path.
func (w *Workflow) Export(dir string) (string, error) {
	d, ok := w.drafts.Score()
	if !ok {
		return "", ErrNoDraft
	}
	if strings.TrimSpace(d.NotationText) == "" {
		return "", ErrEmptyNotation
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, ExportName(d.SourceFileName))
	if err := os.WriteFile(path, []byte(d.NotationText), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
