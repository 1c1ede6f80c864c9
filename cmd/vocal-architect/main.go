// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vocal-architect CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vocal-architect/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the vocal-architect CLI.
var rootCmd = &cobra.Command{
	Use:   "vocal-architect",
	Short: "Build AI music style prompts from an artist's voice",
	Long: `vocal-architect analyzes a singer with a language model and turns the
result into style prompts for AI music generators: one prompt per mood and a
"vocal DNA" prompt describing the voice alone. Prompts can be refined,
tailored to a reference track and saved into a local library with folders.

Lyric and score helpers structure raw lyrics with section markers and
transcribe a hummed melody into ABC notation.

Run "vocal-architect shell" for an interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vocal-architect.yaml or ~/.config/vocal-architect/vocal-architect.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the local database (default ~/.vocal-architect)")
	rootCmd.PersistentFlags().String("backend", "", "model backend: openai or claude")

	viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("engine.backend", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vocal-architect")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vocal-architect"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("VOCAL_ARCHITECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
