// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"fmt"
	"text/template"
)

const analysisInstructions = `You are a vocal coach and music producer who writes style prompts for AI music generators such as Suno.

Given an artist name, produce a detailed professional profile:
- name: the artist's canonical name. If you do not recognize the artist, return an empty string for every field and empty arrays.
- style_localized / style_reference: the musical style in at least two or three sentences, first in the display language, then in English.
- vocal_texture_localized / vocal_texture_reference: the voice, timbre and technique, first in the display language, then in English.
- vocal_dna_prompt: a comma-separated list of English tags describing only the timbre and delivery of the voice. Never include the artist's name or song titles.
- mood_variations: between three and six entries. Each has a short mood name and a comma-separated English tag prompt combining genre, mood and vocal texture tags that bring out this artist's voice.
- mood_tags: short mood keywords.
- representative_tracks: well-known songs; locator_url is a public link to the track or an empty string.
- sources: pages that support the profile, or an empty array.

Respond with a single JSON object and nothing else.`

var analysisInputTmpl = template.Must(template.New("analysis").Parse(`Display language: {{.Language}}
Artist: {{.Artist}}
`))

const promptInstructions = `You edit style prompts for AI music generators. A prompt is a comma-separated list of English tags covering genre, mood, instrumentation and vocal texture.

Return the revised prompt only, in the same tag format. Keep the artist's vocal character. Never include the artist's name.

Respond with a single JSON object and nothing else.`

var refineInputTmpl = template.Must(template.New("refine").Parse(`Artist: {{.ArtistName}}
Vocal texture: {{.VocalTextureReference}}
Current prompt: {{.CurrentPromptText}}
{{if .Instruction}}Instruction: {{.Instruction}}
{{else}}Instruction: make the prompt richer and more precise.
{{end}}`))

var tailorInputTmpl = template.Must(template.New("tailor").Parse(`Artist: {{.ArtistName}}
Vocal texture: {{.VocalTextureReference}}
Current prompt: {{.CurrentPromptText}}
Reference track: {{.ReferenceTrackTitle}}
Rewrite the prompt so the result sounds like the reference track while keeping the voice.
`))

const structureInstructions = `You arrange song lyrics. Insert section markers in square brackets, such as [Intro], [Verse 1], [Pre-Chorus], [Chorus], [Bridge] and [Outro], on their own lines before each section.

You must keep every character of the input lyrics exactly as given, in the same order. Do not translate, correct, add or remove any words. Only insert markers and line breaks.

Respond with a single JSON object and nothing else.`

var structureInputTmpl = template.Must(template.New("structure").Parse(`{{with .ArtistContext}}Arrange for the style of {{.Name}}.
Style: {{.StyleSummary}}
Voice: {{.VocalSummary}}

{{end}}Lyrics:
{{.RawLyrics}}
`))

const scoreInstructions = `You transcribe melodies from audio into ABC notation. Include the X, T, M, L, Q and K header fields. Transcribe the main vocal or lead line only, simplified for a lead sheet.

Respond with a single JSON object and nothing else.`

// render executes tmpl with data.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
