// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LyricDraft is the working state of the lyric page. Exactly one exists per
// session; it is not part of the library.
type LyricDraft struct {
	Title string `json:"title" yaml:"title"`

	// ArtistID is a history entry id, or empty for no artist style.
	ArtistID       string `json:"artist_id" yaml:"artist_id"`
	RawText        string `json:"raw_text" yaml:"raw_text"`
	StructuredText string `json:"structured_text" yaml:"structured_text"`
}

// IsZero reports whether the draft holds no content at all.
func (d LyricDraft) IsZero() bool {
	return d == LyricDraft{}
}

// ScoreDraft is the working state of the score page.
type ScoreDraft struct {
	SourceFileName string `json:"source_file_name" yaml:"source_file_name"`

	// NotationText is ABC notation. User edits stay local.
	NotationText string `json:"notation_text" yaml:"notation_text"`
	AnalysisText string `json:"analysis_text" yaml:"analysis_text"`
}
