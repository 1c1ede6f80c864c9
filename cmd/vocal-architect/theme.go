// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/kv"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the display theme preference",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(kv.ThemeLight), string(kv.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			return a.store.SetTheme(ctx, kv.Theme(args[0]))
		}
		fmt.Println(a.store.Theme(ctx, os.Stderr))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
