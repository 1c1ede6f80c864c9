// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <artist name>",
	Short: "Analyze an artist and print style prompts",
	Long: `Analyze asks the model for a profile of the named artist: style, vocal
texture, representative tracks, a vocal DNA prompt and up to six mood
prompts. The result is recorded in history.

Use --save-moods or --save-dna to commit prompts to the library directly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.controller()
	res, err := ctrl.RunAnalysis(ctx, strings.Join(args, " "))
	if err != nil {
		if session.IsValidation(err) {
			return nil
		}
		fmt.Fprintln(os.Stderr, session.UserMessage(err))
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(os.Stdout, res)
	}
	printAnalysis(os.Stdout, res, ctrl.MoodPrompts(), ctrl.VocalDNA())

	folder, _ := cmd.Flags().GetString("folder")
	if saveMoods, _ := cmd.Flags().GetBool("save-moods"); saveMoods {
		for i := range ctrl.MoodPrompts() {
			if _, err := ctrl.SaveMoodPrompt(ctx, i, folder); err != nil {
				return err
			}
		}
		fmt.Printf("\nSaved %d mood prompts.\n", len(res.MoodVariations))
	}
	if saveDNA, _ := cmd.Flags().GetBool("save-dna"); saveDNA {
		if _, err := ctrl.SaveVocalDNA(ctx, folder); err != nil {
			return err
		}
		fmt.Println("Saved vocal DNA prompt.")
	}
	return nil
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the analysis as JSON")
	analyzeCmd.Flags().Bool("save-moods", false, "save every mood prompt to the library")
	analyzeCmd.Flags().Bool("save-dna", false, "save the vocal DNA prompt to the library")
	analyzeCmd.Flags().String("folder", "", "folder id for saved prompts")

	rootCmd.AddCommand(analyzeCmd)
}
