// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RefineRequest asks the engine to revise a prompt, optionally following a
// free-text instruction.
type RefineRequest struct {
	ArtistName            string `json:"artist_name"`
	VocalTextureReference string `json:"vocal_texture_reference"`
	CurrentPromptText     string `json:"current_prompt_text"`
	Instruction           string `json:"instruction,omitempty"`
}

// TailorRequest asks the engine to bend a prompt toward one reference track.
type TailorRequest struct {
	ArtistName            string `json:"artist_name"`
	VocalTextureReference string `json:"vocal_texture_reference"`
	CurrentPromptText     string `json:"current_prompt_text"`
	ReferenceTrackTitle   string `json:"reference_track_title"`
}

// ArtistContext is the optional style context for lyric structuring.
type ArtistContext struct {
	Name         string `json:"name"`
	StyleSummary string `json:"style_summary"`
	VocalSummary string `json:"vocal_summary"`
}

// StructureRequest asks the engine to add section markers to raw lyrics.
type StructureRequest struct {
	RawLyrics     string         `json:"raw_lyrics"`
	ArtistContext *ArtistContext `json:"artist_context,omitempty"`
}

// ScoreResult is the engine's transcription of an audio clip into notation.
type ScoreResult struct {
	Notation     string `json:"notation"`
	AnalysisText string `json:"analysis_text"`
}
