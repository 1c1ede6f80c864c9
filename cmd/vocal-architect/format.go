// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/vocal-architect/internal/library"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shorten(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// printAnalysis writes a result with its current editable prompts.
func printAnalysis(w io.Writer, r types.AnalysisResult, moods []string, dna string) {
	fmt.Fprintf(w, "%s\n%s\n\n", r.Name, strings.Repeat("=", len([]rune(r.Name))))
	fmt.Fprintf(w, "Style:\n  %s\n  %s\n\n", r.Style.Localized, r.Style.Reference)
	fmt.Fprintf(w, "Vocal texture:\n  %s\n  %s\n\n", r.VocalTexture.Localized, r.VocalTexture.Reference)
	if len(r.MoodTags) > 0 {
		tags := make([]string, len(r.MoodTags))
		for i, t := range r.MoodTags {
			tags[i] = "#" + t
		}
		fmt.Fprintf(w, "Tags: %s\n\n", strings.Join(tags, " "))
	}
	fmt.Fprintf(w, "Vocal DNA:\n  %s\n\n", dna)
	fmt.Fprintln(w, "Mood prompts:")
	for i, v := range r.MoodVariations {
		text := v.Prompt
		if i < len(moods) {
			text = moods[i]
		}
		fmt.Fprintf(w, "  [%d] %s\n      %s\n", i, v.Mood, text)
	}
	if len(r.RepresentativeTracks) > 0 {
		fmt.Fprintln(w, "\nRepresentative tracks:")
		for _, t := range r.RepresentativeTracks {
			if t.LocatorURL != "" {
				fmt.Fprintf(w, "  - %s  <%s>\n", t.Title, t.LocatorURL)
			} else {
				fmt.Fprintf(w, "  - %s\n", t.Title)
			}
		}
	}
	if len(r.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range r.Sources {
			fmt.Fprintf(w, "  - %s  <%s>\n", s.Title, s.URI)
		}
	}
}

func printHistory(w io.Writer, entries []types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history.")
		return
	}
	fmt.Fprintf(w, "%-3s  %-36s  %-24s  %s\n", "#", "ID", "Artist", "Captured")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for i, e := range entries {
		fmt.Fprintf(w, "%-3d  %-36s  %-24s  %s\n", i+1, e.ID, shorten(e.Name, 24), e.CapturedAt.Local().Format("2006-01-02 15:04"))
	}
}

func folderName(l *library.Store, id string) string {
	if id == "" {
		return "-"
	}
	if f, ok := l.Folder(id); ok {
		return f.Name
	}
	return "-"
}

func printPrompts(w io.Writer, l *library.Store, ps []types.SavedPrompt) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No saved prompts.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-16s  %-12s  %-12s  %s\n", "ID", "Artist", "Mood", "Folder", "Prompt")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, p := range ps {
		fmt.Fprintf(w, "%-36s  %-16s  %-12s  %-12s  %s\n",
			p.ID, shorten(p.ArtistName, 16), shorten(p.MoodLabel, 12), shorten(folderName(l, p.FolderID), 12), shorten(p.PromptText, 40))
	}
	fmt.Fprintf(w, "\n%d prompts\n", len(ps))
}

func printLyrics(w io.Writer, l *library.Store, ls []types.SavedLyric) {
	if len(ls) == 0 {
		fmt.Fprintln(w, "No saved lyrics.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-20s  %-16s  %-12s  %s\n", "ID", "Title", "Artist", "Folder", "Saved")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, x := range ls {
		artist := "-"
		if x.ArtistName != nil {
			artist = *x.ArtistName
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-16s  %-12s  %s\n",
			x.ID, shorten(x.Title, 20), shorten(artist, 16), shorten(folderName(l, x.FolderID), 12), x.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "\n%d lyrics\n", len(ls))
}

func printFolders(w io.Writer, l *library.Store) {
	counts := l.Counts()
	folders := l.Folders()
	fmt.Fprintf(w, "%-36s  %-20s  %-8s  %7s  %6s\n", "ID", "Name", "Color", "Prompts", "Lyrics")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, f := range folders {
		c := counts[f.ID]
		fmt.Fprintf(w, "%-36s  %-20s  %-8s  %7d  %6d\n", f.ID, shorten(f.Name, 20), f.Color, c.Prompts, c.Lyrics)
	}
	c := counts[""]
	fmt.Fprintf(w, "%-36s  %-20s  %-8s  %7d  %6d\n", "", "(uncategorized)", "", c.Prompts, c.Lyrics)
}
