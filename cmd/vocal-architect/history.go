// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/history"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show or remove past analyses",
	Long: `History keeps the ten most recent analyses, newest first, one per
artist name (compared without case).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, a.history.List())
		}
		printHistory(os.Stdout, a.history.List())
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id or artist name>",
	Short: "Print a recorded analysis",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		e, ok := lookupHistory(a.history, strings.Join(args, " "))
		if !ok {
			fmt.Println("Not in history.")
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, e)
		}
		printAnalysis(os.Stdout, e.AnalysisResult, e.MoodPrompts(), e.VocalDNAPrompt)
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an analysis from history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.history.Remove(ctx, args[0])
	},
}

// lookupHistory finds an entry by id, then by artist name.
func lookupHistory(h *history.Store, key string) (types.HistoryEntry, bool) {
	if e, ok := h.Get(key); ok {
		return e, true
	}
	return h.FindByName(key)
}

func init() {
	historyListCmd.Flags().Bool("json", false, "print as JSON")
	historyShowCmd.Flags().Bool("json", false, "print as JSON")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}
