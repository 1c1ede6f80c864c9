// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/score"
	"github.com/pdiddy/vocal-architect/internal/session"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Transcribe melodies into ABC notation",
}

var scoreTranscribeCmd = &cobra.Command{
	Use:   "transcribe <audio file>",
	Short: "Transcribe an audio clip into ABC notation",
	Long: `Transcribe sends a WAV or MP3 clip to the model and writes the melody as
ABC notation to <name>_transcription.abc in --out-dir. A short musical
analysis is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runScoreTranscribe,
}

func runScoreTranscribe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := audio.Load(args[0])
	if err != nil {
		return err
	}

	w := score.NewWorkflow(session.NewDrafts(), a.backend())
	fmt.Fprintf(os.Stderr, "Transcribing %s...\n", c.Name)
	d, err := w.Transcribe(ctx, c)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n\n", d.AnalysisText)

	outDir, _ := cmd.Flags().GetString("out-dir")
	path, err := w.Export(outDir)
	if err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}

func init() {
	scoreTranscribeCmd.Flags().String("out-dir", ".", "directory for the .abc file")

	scoreCmd.AddCommand(scoreTranscribeCmd)
	rootCmd.AddCommand(scoreCmd)
}
