// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage saved prompts, lyrics and folders",
	Long: `Library holds prompts and lyrics saved from analyses and the lyric
page, optionally filed into folders. Deleting a folder keeps its contents
and moves them to uncategorized.`,
}

// --- listing ---

var libraryPromptsCmd = &cobra.Command{
	Use:   "prompts [search text]",
	Short: "List saved prompts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		ps := a.library.Prompts(queryFromFlags(cmd, args))
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, ps)
		}
		printPrompts(os.Stdout, a.library, ps)
		return nil
	},
}

var libraryLyricsCmd = &cobra.Command{
	Use:   "lyrics [search text]",
	Short: "List saved lyrics, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		ls := a.library.Lyrics(queryFromFlags(cmd, args))
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, ls)
		}
		printLyrics(os.Stdout, a.library, ls)
		return nil
	},
}

var libraryShowLyricCmd = &cobra.Command{
	Use:   "show-lyric <id>",
	Short: "Print a saved lyric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		l, ok := a.library.Lyric(args[0])
		if !ok {
			fmt.Println("No such lyric.")
			return nil
		}
		fmt.Printf("%s\n\n%s\n", l.Title, l.StructuredText)
		return nil
	},
}

var libraryFoldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List folders with item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()
		printFolders(os.Stdout, a.library)
		return nil
	},
}

// --- prompts ---

var librarySavePromptCmd = &cobra.Command{
	Use:   "save-prompt",
	Short: "Save a prompt text to the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		artist, _ := cmd.Flags().GetString("artist")
		mood, _ := cmd.Flags().GetString("mood")
		text, _ := cmd.Flags().GetString("text")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("--text is required")
		}
		folder, err := resolveFolder(ctx, cmd, a.library)
		if err != nil {
			return err
		}
		p, err := a.library.SavePrompt(ctx, artist, mood, text, folder)
		if err != nil {
			return err
		}
		fmt.Println(p.ID)
		return nil
	},
}

var libraryUpdatePromptCmd = &cobra.Command{
	Use:   "update-prompt <id>",
	Short: "Edit a saved prompt's text or folder",
	Long: `Update-prompt changes a saved prompt in place. Without --folder or
--clear-folder the folder assignment is left as it is; --clear-folder moves
the prompt to uncategorized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		p, ok := a.library.Prompt(args[0])
		if !ok {
			fmt.Println("No such prompt.")
			return nil
		}
		text := p.PromptText
		if cmd.Flags().Changed("text") {
			text, _ = cmd.Flags().GetString("text")
		}

		_, err = a.library.UpdatePrompt(ctx, p.ID, text, folderUpdateFromFlags(cmd))
		return err
	},
}

var libraryRmPromptCmd = &cobra.Command{
	Use:   "rm-prompt <id>...",
	Short: "Delete saved prompts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		for _, id := range args {
			if err := a.library.DeletePrompt(ctx, id); err != nil {
				return err
			}
		}
		return nil
	},
}

// --- lyrics ---

var libraryMoveLyricCmd = &cobra.Command{
	Use:   "move-lyric <id>",
	Short: "Move a saved lyric to a folder or to uncategorized",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = a.library.MoveLyric(ctx, args[0], folderUpdateFromFlags(cmd))
		return err
	},
}

var libraryRmLyricCmd = &cobra.Command{
	Use:   "rm-lyric <id>...",
	Short: "Delete saved lyrics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		for _, id := range args {
			if err := a.library.DeleteLyric(ctx, id); err != nil {
				return err
			}
		}
		return nil
	},
}

// --- folders ---

var libraryMkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder and print its id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		color, _ := cmd.Flags().GetString("color")
		f, err := a.library.CreateFolder(ctx, strings.Join(args, " "), color)
		if err != nil {
			return err
		}
		fmt.Println(f.ID)
		return nil
	},
}

var libraryRenameFolderCmd = &cobra.Command{
	Use:   "rename-folder <id> <name>",
	Short: "Rename a folder",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = a.library.RenameFolder(ctx, args[0], strings.Join(args[1:], " "))
		return err
	},
}

var libraryRmdirCmd = &cobra.Command{
	Use:   "rmdir <id>",
	Short: "Delete a folder; its items become uncategorized",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.library.DeleteFolder(ctx, args[0])
	},
}

// --- export ---

var libraryExportCmd = &cobra.Command{
	Use:   "export [search text]",
	Short: "Export folders, prompts and lyrics as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		format, _ := cmd.Flags().GetString("format")
		switch library.ExportFormat(format) {
		case library.FormatYAML, library.FormatJSON:
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}

		out := os.Stdout
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return a.library.Export(out, queryFromFlags(cmd, args), library.ExportFormat(format))
	},
}

// --- shared helpers ---

func queryFromFlags(cmd *cobra.Command, args []string) library.Query {
	q := library.Query{Text: strings.Join(args, " ")}
	if uncategorized, _ := cmd.Flags().GetBool("uncategorized"); uncategorized {
		q.Folder = library.Uncategorized
	} else if id, _ := cmd.Flags().GetString("folder"); id != "" {
		q.Folder = library.InFolder(id)
	}
	return q
}

func folderUpdateFromFlags(cmd *cobra.Command) library.FolderUpdate {
	if clearFolder, _ := cmd.Flags().GetBool("clear-folder"); clearFolder {
		return library.ClearFolder
	}
	if cmd.Flags().Changed("folder") {
		id, _ := cmd.Flags().GetString("folder")
		return library.MoveToFolder(id)
	}
	return library.KeepFolder
}

// resolveFolder returns the --folder id, creating a folder first when
// --new-folder is given.
func resolveFolder(ctx context.Context, cmd *cobra.Command, l *library.Store) (string, error) {
	if name, _ := cmd.Flags().GetString("new-folder"); name != "" {
		color, _ := cmd.Flags().GetString("color")
		f, err := l.CreateFolder(ctx, name, color)
		if err != nil {
			return "", err
		}
		return f.ID, nil
	}
	id, _ := cmd.Flags().GetString("folder")
	return id, nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("folder", "", "only items in this folder id")
	cmd.Flags().Bool("uncategorized", false, "only items without a folder")
}

func addFolderUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().String("folder", "", "move to this folder id")
	cmd.Flags().Bool("clear-folder", false, "move to uncategorized")
	cmd.MarkFlagsMutuallyExclusive("folder", "clear-folder")
}

func init() {
	for _, c := range []*cobra.Command{libraryPromptsCmd, libraryLyricsCmd, libraryExportCmd} {
		addQueryFlags(c)
	}
	libraryPromptsCmd.Flags().Bool("json", false, "print as JSON")
	libraryLyricsCmd.Flags().Bool("json", false, "print as JSON")
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	libraryExportCmd.Flags().String("out", "", "write to file instead of stdout")

	librarySavePromptCmd.Flags().String("artist", "", "artist name")
	librarySavePromptCmd.Flags().String("mood", "", "mood label")
	librarySavePromptCmd.Flags().String("text", "", "prompt text")
	librarySavePromptCmd.Flags().String("folder", "", "folder id")
	librarySavePromptCmd.Flags().String("new-folder", "", "create a folder with this name and save into it")
	librarySavePromptCmd.Flags().String("color", "", "color for --new-folder")
	librarySavePromptCmd.MarkFlagsMutuallyExclusive("folder", "new-folder")

	libraryUpdatePromptCmd.Flags().String("text", "", "new prompt text")
	addFolderUpdateFlags(libraryUpdatePromptCmd)
	addFolderUpdateFlags(libraryMoveLyricCmd)

	libraryMkdirCmd.Flags().String("color", "", "folder color")

	libraryCmd.AddCommand(
		libraryPromptsCmd, libraryLyricsCmd, libraryShowLyricCmd, libraryFoldersCmd,
		librarySavePromptCmd, libraryUpdatePromptCmd, libraryRmPromptCmd,
		libraryMoveLyricCmd, libraryRmLyricCmd,
		libraryMkdirCmd, libraryRenameFolderCmd, libraryRmdirCmd,
		libraryExportCmd,
	)
	rootCmd.AddCommand(libraryCmd)
}
