// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the working state of one user session: the active
// analysis, the editable mood prompts and vocal DNA text derived from it,
// and the lyric and score draft buffers.
//
// Every engine call is tracked by slot. At most one call per slot may be
// outstanding, and a response that arrives after the active analysis was
// replaced is discarded instead of being applied.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

// Analyzer produces an artist analysis.
type Analyzer interface {
	Analyze(ctx context.Context, artistName string) (types.AnalysisResult, error)
}

// Refiner revises prompt text.
type Refiner interface {
	Refine(ctx context.Context, req types.RefineRequest) (string, error)
	Tailor(ctx context.Context, req types.TailorRequest) (string, error)
}

// Recorder captures successful analyses. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, result types.AnalysisResult) (types.HistoryEntry, error)
}

// PromptSaver commits prompts to the library. *library.Store satisfies it.
type PromptSaver interface {
	SavePrompt(ctx context.Context, artistName, moodLabel, promptText, folderID string) (types.SavedPrompt, error)
}

// Slot identifies one independently refinable prompt.
type Slot int

// VocalDNASlot is the slot of the single vocal DNA prompt.
const VocalDNASlot Slot = -1

// MoodSlot returns the slot of mood prompt i.
func MoodSlot(i int) Slot { return Slot(i) }

func (s Slot) String() string {
	if s == VocalDNASlot {
		return "vocal-dna"
	}
	return fmt.Sprintf("mood-%d", int(s))
}

// Controller mediates all access to the active analysis and its derived
// prompts. It is safe for concurrent use.
type Controller struct {
	analyzer Analyzer
	refiner  Refiner
	history  Recorder
	library  PromptSaver
	warn     io.Writer

	mu         sync.Mutex
	active     *types.AnalysisResult
	moods      []string
	dna        string
	generation uint64
	analyzing  bool
	busy       map[Slot]uint64
}

// Config wires a Controller to its collaborators.
type Config struct {
	Analyzer Analyzer
	Refiner  Refiner
	History  Recorder
	Library  PromptSaver

	// Warn receives non-fatal persistence warnings. Nil discards.
	Warn io.Writer
}

// NewController returns a controller with no active analysis.
func NewController(cfg Config) *Controller {
	warn := cfg.Warn
	if warn == nil {
		warn = io.Discard
	}
	return &Controller{
		analyzer: cfg.Analyzer,
		refiner:  cfg.Refiner,
		history:  cfg.History,
		library:  cfg.Library,
		warn:     warn,
		busy:     make(map[Slot]uint64),
	}
}

// RunAnalysis queries the engine for artistName. A blank name is rejected
// without calling the engine. On success the result becomes active, the
// mood prompts and vocal DNA text are reseeded from it, and it is recorded
// in history. On failure the previously active result is left untouched.
func (c *Controller) RunAnalysis(ctx context.Context, artistName string) (types.AnalysisResult, error) {
	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return types.AnalysisResult{}, ErrEmptyQuery
	}

	c.mu.Lock()
	if c.analyzing {
		c.mu.Unlock()
		return types.AnalysisResult{}, ErrBusy
	}
	c.analyzing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.analyzing = false
		c.mu.Unlock()
	}()

	result, err := c.analyzer.Analyze(ctx, artistName)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if err := result.Validate(); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	c.activate(result)

	if c.history != nil {
		if _, err := c.history.Record(ctx, result); err != nil {
			fmt.Fprintf(c.warn, "warning: %v\n", err)
		}
	}
	return result, nil
}

// Load makes a previously captured result active, as when an entry is
// selected from history. It does not record the result again.
func (c *Controller) Load(result types.AnalysisResult) {
	c.activate(result)
}

func (c *Controller) activate(result types.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := result
	c.active = &r
	c.moods = result.MoodPrompts()
	c.dna = result.VocalDNAPrompt
	c.generation++
	c.busy = make(map[Slot]uint64)
}

// Active returns the active analysis.
func (c *Controller) Active() (types.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return types.AnalysisResult{}, false
	}
	return *c.active, true
}

// MoodPrompts returns a copy of the editable mood prompts.
func (c *Controller) MoodPrompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.moods))
	copy(out, c.moods)
	return out
}

// MoodPrompt returns the editable text at index i.
func (c *Controller) MoodPrompt(i int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIndex(i); err != nil {
		return "", err
	}
	return c.moods[i], nil
}

// VocalDNA returns the editable vocal DNA text.
func (c *Controller) VocalDNA() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dna
}

// SetMoodPromptText overwrites mood prompt i. An out-of-range index returns
// ErrIndexOutOfRange and changes nothing.
func (c *Controller) SetMoodPromptText(i int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.moods[i] = text
	return nil
}

// SetVocalDNA overwrites the vocal DNA text.
func (c *Controller) SetVocalDNA(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return ErrNoAnalysis
	}
	c.dna = text
	return nil
}

// checkIndex must be called with c.mu held.
func (c *Controller) checkIndex(i int) error {
	if c.active == nil {
		return ErrNoAnalysis
	}
	if i < 0 || i >= len(c.moods) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(c.moods))
	}
	return nil
}

// Busy reports whether a call for slot is outstanding.
func (c *Controller) Busy(slot Slot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.busy[slot]
	return ok
}

// Analyzing reports whether an analysis call is outstanding.
func (c *Controller) Analyzing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analyzing
}
