// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/audio"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio file>",
	Short: "Transcribe a short voice memo to text",
	Long: `Transcribe writes down the words in a short clip. For a sung clip the
lyrics are returned. Clips longer than audio.max_clip_seconds are rejected
when their length can be determined.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		text, err := a.transcriber().Transcribe(ctx, c)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}
