// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Folder groups saved prompts and lyrics. Folders are flat.
type Folder struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SavedPrompt is a prompt committed to the library.
type SavedPrompt struct {
	ID         string `json:"id" yaml:"id"`
	ArtistName string `json:"artist_name" yaml:"artist_name"`

	// MoodLabel is a mood name or VocalDNALabel.
	MoodLabel  string    `json:"mood_label" yaml:"mood_label"`
	PromptText string    `json:"prompt_text" yaml:"prompt_text"`
	SavedAt    time.Time `json:"saved_at" yaml:"saved_at"`

	// FolderID is a weak reference. Empty or dangling means uncategorized.
	FolderID string `json:"folder_id,omitempty" yaml:"folder_id,omitempty"`
}

// SavedLyric is a structured lyric committed to the library.
type SavedLyric struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`

	// ArtistName is nil when the lyric was structured without an artist.
	ArtistName     *string   `json:"artist_name" yaml:"artist_name"`
	RawText        string    `json:"raw_text" yaml:"raw_text"`
	StructuredText string    `json:"structured_text" yaml:"structured_text"`
	SavedAt        time.Time `json:"saved_at" yaml:"saved_at"`
	FolderID       string    `json:"folder_id,omitempty" yaml:"folder_id,omitempty"`
}
