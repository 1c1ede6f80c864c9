// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

// revision is a snapshot of the state a refinement call was issued against.
type revision struct {
	slot         Slot
	generation   uint64
	artistName   string
	vocalTexture string
	current      string
}

// RefineMoodPrompt asks the engine to improve mood prompt i, optionally
// following instruction. On success the slot is overwritten and the new
// text returned. On failure the slot keeps its prior text.
func (c *Controller) RefineMoodPrompt(ctx context.Context, i int, instruction string) (string, error) {
	return c.revise(ctx, MoodSlot(i), func(r revision) (string, error) {
		return c.refiner.Refine(ctx, refineRequest(r, instruction))
	})
}

// TailorMoodPromptToTrack bends mood prompt i toward trackTitle. A blank
// title is rejected without calling the engine.
func (c *Controller) TailorMoodPromptToTrack(ctx context.Context, i int, trackTitle string) (string, error) {
	trackTitle = strings.TrimSpace(trackTitle)
	if trackTitle == "" {
		return "", ErrEmptyTrack
	}
	return c.revise(ctx, MoodSlot(i), func(r revision) (string, error) {
		return c.refiner.Tailor(ctx, tailorRequest(r, trackTitle))
	})
}

// RefineVocalDNA asks the engine to improve the vocal DNA text.
func (c *Controller) RefineVocalDNA(ctx context.Context, instruction string) (string, error) {
	return c.revise(ctx, VocalDNASlot, func(r revision) (string, error) {
		return c.refiner.Refine(ctx, refineRequest(r, instruction))
	})
}

// TailorVocalDNAToTrack bends the vocal DNA text toward trackTitle.
func (c *Controller) TailorVocalDNAToTrack(ctx context.Context, trackTitle string) (string, error) {
	trackTitle = strings.TrimSpace(trackTitle)
	if trackTitle == "" {
		return "", ErrEmptyTrack
	}
	return c.revise(ctx, VocalDNASlot, func(r revision) (string, error) {
		return c.refiner.Tailor(ctx, tailorRequest(r, trackTitle))
	})
}

func refineRequest(r revision, instruction string) types.RefineRequest {
	return types.RefineRequest{
		ArtistName:            r.artistName,
		VocalTextureReference: r.vocalTexture,
		CurrentPromptText:     r.current,
		Instruction:           strings.TrimSpace(instruction),
	}
}

func tailorRequest(r revision, trackTitle string) types.TailorRequest {
	return types.TailorRequest{
		ArtistName:            r.artistName,
		VocalTextureReference: r.vocalTexture,
		CurrentPromptText:     r.current,
		ReferenceTrackTitle:   trackTitle,
	}
}

// revise runs call for slot under the in-flight and staleness rules.
func (c *Controller) revise(ctx context.Context, slot Slot, call func(revision) (string, error)) (string, error) {
	r, err := c.acquire(slot)
	if err != nil {
		return "", err
	}
	defer c.release(r)

	text, err := call(r)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRefineFailed, slot, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s: engine returned empty text", ErrRefineFailed, slot)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != r.generation {
		return "", ErrStale
	}
	if slot == VocalDNASlot {
		c.dna = text
	} else {
		c.moods[int(slot)] = text
	}
	return text, nil
}

// acquire marks slot busy and snapshots its inputs.
func (c *Controller) acquire(slot Slot) (revision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return revision{}, ErrNoAnalysis
	}

	var current string
	if slot == VocalDNASlot {
		current = c.dna
	} else {
		if err := c.checkIndex(int(slot)); err != nil {
			return revision{}, err
		}
		current = c.moods[int(slot)]
	}

	if _, ok := c.busy[slot]; ok {
		return revision{}, fmt.Errorf("%w: %s", ErrBusy, slot)
	}
	c.busy[slot] = c.generation

	return revision{
		slot:         slot,
		generation:   c.generation,
		artistName:   c.active.Name,
		vocalTexture: c.active.VocalTexture.Reference,
		current:      current,
	}, nil
}

// release clears the busy mark, unless a newer analysis already reset it.
func (c *Controller) release(r revision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen, ok := c.busy[r.slot]; ok && gen == r.generation {
		delete(c.busy, r.slot)
	}
}

// SaveMoodPrompt commits the current text of mood prompt i to the library,
// filed under folderID (empty for uncategorized).
func (c *Controller) SaveMoodPrompt(ctx context.Context, i int, folderID string) (types.SavedPrompt, error) {
	c.mu.Lock()
	if err := c.checkIndex(i); err != nil {
		c.mu.Unlock()
		return types.SavedPrompt{}, err
	}
	artist := c.active.Name
	mood := c.active.MoodVariations[i].Mood
	text := c.moods[i]
	c.mu.Unlock()

	return c.library.SavePrompt(ctx, artist, mood, text, folderID)
}

// SaveVocalDNA commits the current vocal DNA text to the library.
func (c *Controller) SaveVocalDNA(ctx context.Context, folderID string) (types.SavedPrompt, error) {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return types.SavedPrompt{}, ErrNoAnalysis
	}
	artist := c.active.Name
	text := c.dna
	c.mu.Unlock()

	return c.library.SavePrompt(ctx, artist, types.VocalDNALabel, text, folderID)
}
