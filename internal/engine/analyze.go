// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"regexp"
	"strings"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

type analysisReply struct {
	Name                  string           `json:"name"`
	StyleLocalized        string           `json:"style_localized"`
	StyleReference        string           `json:"style_reference"`
	VocalTextureLocalized string           `json:"vocal_texture_localized"`
	VocalTextureReference string           `json:"vocal_texture_reference"`
	VocalDNAPrompt        string           `json:"vocal_dna_prompt"`
	MoodVariations        []moodReply      `json:"mood_variations"`
	MoodTags              []string         `json:"mood_tags"`
	RepresentativeTracks  []types.TrackRef `json:"representative_tracks"`
	Sources               []sourceReply    `json:"sources"`
}

type moodReply struct {
	Mood   string `json:"mood" jsonschema:"description=Short mood name"`
	Prompt string `json:"prompt" jsonschema:"description=Comma-separated English style tags"`
}

type sourceReply struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

var analysisSchema = GenerateSchema[analysisReply]()

// Analyze profiles artistName. A name the model cannot resolve returns
// ErrArtistNotFound.
func (e *Engine) Analyze(ctx context.Context, artistName string) (types.AnalysisResult, error) {
	input, err := render(analysisInputTmpl, struct{ Language, Artist string }{e.language, artistName})
	if err != nil {
		return types.AnalysisResult{}, err
	}
	var out analysisReply
	err = e.complete(ctx, Call{
		Name:         "artist_analysis",
		Instructions: analysisInstructions,
		Input:        input,
		Schema:       analysisSchema,
	}, &out)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	return out.result()
}

// result converts a reply into an AnalysisResult, enforcing the bounds the
// rest of the system relies on.
func (r analysisReply) result() (types.AnalysisResult, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return types.AnalysisResult{}, ErrArtistNotFound
	}

	res := types.AnalysisResult{
		Name: name,
		Style: types.LocalizedText{
			Localized: strings.TrimSpace(r.StyleLocalized),
			Reference: strings.TrimSpace(r.StyleReference),
		},
		VocalTexture: types.LocalizedText{
			Localized: strings.TrimSpace(r.VocalTextureLocalized),
			Reference: strings.TrimSpace(r.VocalTextureReference),
		},
		VocalDNAPrompt: stripName(r.VocalDNAPrompt, name),
		MoodTags:       r.MoodTags,
	}

	for _, m := range r.MoodVariations {
		if len(res.MoodVariations) == types.MaxMoodVariations {
			break
		}
		if strings.TrimSpace(m.Prompt) == "" {
			continue
		}
		res.MoodVariations = append(res.MoodVariations, types.MoodVariation{
			Mood:   strings.TrimSpace(m.Mood),
			Prompt: strings.TrimSpace(m.Prompt),
		})
	}

	for _, t := range r.RepresentativeTracks {
		if strings.TrimSpace(t.Title) != "" {
			res.RepresentativeTracks = append(res.RepresentativeTracks, t)
		}
	}

	seen := make(map[string]bool)
	for _, s := range r.Sources {
		uri := strings.TrimSpace(s.URI)
		if uri == "" || seen[uri] {
			continue
		}
		seen[uri] = true
		res.Sources = append(res.Sources, types.Source{Title: strings.TrimSpace(s.Title), URI: uri})
	}
	return res, nil
}

// stripName drops every comma-separated tag that mentions name as a
// whole word.
func stripName(tags, name string) string {
	mention := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(name) + `($|[^\p{L}\p{N}])`)
	var kept []string
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if t == "" || mention.MatchString(t) {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, ", ")
}
