// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/lyrics"
	"github.com/pdiddy/vocal-architect/internal/session"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "Structure raw lyrics with section markers",
}

var lyricsStructureCmd = &cobra.Command{
	Use:   "structure [file]",
	Short: "Add [Verse]/[Chorus] markers to raw lyrics",
	Long: `Structure reads raw lyrics from a file (or stdin) and asks the model to
insert section markers without changing any of the words. With --artist the
style of an analyzed artist from history guides the arrangement.

The output is checked: if anything other than markers and line breaks
changed, a warning is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLyricsStructure,
}

func runLyricsStructure(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var raw []byte
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading lyrics: %w", err)
	}

	w := lyrics.NewWorkflow(session.NewDrafts(), a.history, a.backend(), a.library)
	w.SetRaw(string(raw))
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		w.SetTitle(title)
	}
	if artist, _ := cmd.Flags().GetString("artist"); artist != "" {
		e, ok := lookupHistory(a.history, artist)
		if !ok {
			return fmt.Errorf("artist %q is not in history: analyze it first", artist)
		}
		w.SelectArtist(e.ID)
	}

	out, err := w.Structure(ctx)
	if err != nil {
		if errors.Is(err, lyrics.ErrEmptyLyrics) {
			return nil
		}
		return err
	}
	fmt.Println(out)
	if !lyrics.Preserves(string(raw), out) {
		fmt.Fprintln(os.Stderr, "warning: structured lyrics differ from the input beyond section markers")
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		folder, _ := cmd.Flags().GetString("folder")
		l, err := w.Save(ctx, folder)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved lyric %s (%s)\n", l.ID, l.Title)
	}
	return nil
}

func init() {
	lyricsStructureCmd.Flags().String("title", "", "title used when saving")
	lyricsStructureCmd.Flags().String("artist", "", "history id or artist name whose style guides structuring")
	lyricsStructureCmd.Flags().Bool("save", false, "save the result to the library")
	lyricsStructureCmd.Flags().String("folder", "", "folder id for --save")

	lyricsCmd.AddCommand(lyricsStructureCmd)
	rootCmd.AddCommand(lyricsCmd)
}
