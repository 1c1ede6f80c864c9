// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MaxMoodVariations bounds the number of mood prompts in one analysis.
const MaxMoodVariations = 6

// VocalDNALabel is the mood label used when the vocal DNA prompt is saved.
const VocalDNALabel = "Vocal DNA"

// LocalizedText pairs a description in the user's language with the same
// description in the reference language (English) sent back to the engine.
type LocalizedText struct {
	// Localized is the text in the user's display language.
	Localized string `json:"localized" yaml:"localized"`

	// Reference is the English text used as engine context.
	Reference string `json:"reference" yaml:"reference"`
}

// MoodVariation is one mood-tagged style prompt.
type MoodVariation struct {
	// Mood is the human-readable mood name (e.g. "Dreamy").
	Mood string `json:"mood" yaml:"mood"`

	// Prompt is the comma-separated style tag list.
	Prompt string `json:"prompt" yaml:"prompt"`
}

// TrackRef is a representative track. Early engine versions returned bare
// titles; later versions return a title plus a locator URL. Both shapes
// decode into TrackRef, and TrackRef always encodes as the object form.
type TrackRef struct {
	Title      string `json:"title" yaml:"title"`
	LocatorURL string `json:"locator_url,omitempty" yaml:"locator_url,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or a {title, locator_url}
// object. The camelCase key locatorUrl is also accepted.
func (t *TrackRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return err
		}
		*t = TrackRef{Title: title}
		return nil
	}

	var obj struct {
		Title      string `json:"title"`
		LocatorURL string `json:"locator_url"`
		LocatorAlt string `json:"locatorUrl"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding track reference: %w", err)
	}
	t.Title = obj.Title
	t.LocatorURL = obj.LocatorURL
	if t.LocatorURL == "" {
		t.LocatorURL = obj.LocatorAlt
	}
	return nil
}

// Source is a grounding citation returned alongside an analysis.
type Source struct {
	Title   string `json:"title" yaml:"title"`
	URI     string `json:"uri" yaml:"uri"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// AnalysisResult is the immutable output of one artist query.
type AnalysisResult struct {
	// Name is the canonical artist name as resolved by the engine. It may
	// differ from the query string.
	Name string `json:"name" yaml:"name"`

	// Style describes the artist's musical style.
	Style LocalizedText `json:"style" yaml:"style"`

	// VocalTexture describes the artist's voice and technique.
	VocalTexture LocalizedText `json:"vocal_texture" yaml:"vocal_texture"`

	// VocalDNAPrompt is a tag list describing timbre only. It never
	// contains the artist's name.
	VocalDNAPrompt string `json:"vocal_dna_prompt" yaml:"vocal_dna_prompt"`

	// MoodVariations holds at most MaxMoodVariations mood prompts.
	MoodVariations []MoodVariation `json:"mood_variations" yaml:"mood_variations"`

	// MoodTags are short keywords shown as hashtags.
	MoodTags []string `json:"mood_tags" yaml:"mood_tags"`

	// RepresentativeTracks lists well-known songs in engine order.
	RepresentativeTracks []TrackRef `json:"representative_tracks" yaml:"representative_tracks"`

	// Sources lists citations, deduplicated by URI. May be empty.
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Validate checks the structural bounds of an analysis.
func (a AnalysisResult) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("analysis has no artist name")
	}
	if len(a.MoodVariations) > MaxMoodVariations {
		return fmt.Errorf("analysis has %d mood variations, max %d", len(a.MoodVariations), MaxMoodVariations)
	}
	return nil
}

// MoodPrompts returns a fresh copy of the mood prompt texts in order.
func (a AnalysisResult) MoodPrompts() []string {
	out := make([]string, len(a.MoodVariations))
	for i, v := range a.MoodVariations {
		out[i] = v.Prompt
	}
	return out
}

// HistoryEntry is an AnalysisResult captured into the history.
type HistoryEntry struct {
	AnalysisResult `yaml:",inline"`

	ID         string    `json:"id" yaml:"id"`
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`
}
