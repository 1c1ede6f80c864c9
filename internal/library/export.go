// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vocal-architect/pkg/types"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	FormatYAML ExportFormat = "yaml"
	FormatJSON ExportFormat = "json"
)

// Snapshot is the full library as written by Export.
type Snapshot struct {
	Folders []types.Folder      `json:"folders" yaml:"folders"`
	Prompts []types.SavedPrompt `json:"prompts" yaml:"prompts"`
	Lyrics  []types.SavedLyric  `json:"lyrics" yaml:"lyrics"`
}

// Snapshot returns a copy of the library filtered by q.
func (s *Store) Snapshot(q Query) Snapshot {
	snap := Snapshot{
		Prompts: s.Prompts(q),
		Lyrics:  s.Lyrics(q),
	}
	if q.Folder.kind == filterFolder {
		if f, ok := s.Folder(q.Folder.id); ok {
			snap.Folders = []types.Folder{f}
		}
	} else {
		snap.Folders = s.Folders()
	}
	return snap
}

// Export writes the library (or the subset matched by q) to w.
func (s *Store) Export(w io.Writer, q Query, format ExportFormat) error {
	snap := s.Snapshot(q)

	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
