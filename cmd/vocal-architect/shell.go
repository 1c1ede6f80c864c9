// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/history"
	"github.com/pdiddy/vocal-architect/internal/library"
	"github.com/pdiddy/vocal-architect/internal/lyrics"
	"github.com/pdiddy/vocal-architect/internal/score"
	"github.com/pdiddy/vocal-architect/internal/session"
	"github.com/pdiddy/vocal-architect/internal/voice"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Shell keeps one session open: the active analysis with its editable
prompts, plus lyric and score drafts that survive switching pages. Model
calls run in the background so the prompt stays usable; type "help" for
the command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		exportDir, _ := cmd.Flags().GetString("out-dir")
		sh := newShell(ctx, shellDeps{
			ctrl:      a.controller(),
			history:   a.history,
			library:   a.library,
			engine:    a.backend(),
			voice:     a.transcriber(),
			exportDir: exportDir,
		}, os.Stdin, os.Stdout)
		return sh.run()
	},
}

func init() {
	shellCmd.Flags().String("out-dir", ".", "directory for exported .abc files")
	rootCmd.AddCommand(shellCmd)
}

const shellHelp = `Commands:
  analyze <artist>            analyze an artist (runs in background)
  show                        print the active analysis and current prompts
  edit <n|dna> <text>         replace a prompt's text
  refine <n|dna> [request]    ask the model to improve a prompt
  tailor <n|dna> <track>      bend a prompt toward a reference track
  save <n|dna> [folder-id]    save a prompt to the library
  history                     list past analyses
  open <id|artist>            load a past analysis
  forget <id>                 remove a past analysis
  prompts [text]              search saved prompts
  folders                     list folders
  mkdir <name>                create a folder
  transcribe <audio file>     transcribe a short voice memo
  page home|lyrics|score      switch page
  wait                        wait for background calls
  quit

Lyrics page:
  title <text>   artist <id|artist|->   raw   structure   save [folder-id]
  draft   clear

Score page:
  load <audio file>   notation   export [dir]   draft
`

type shellDeps struct {
	ctrl      *session.Controller
	history   *history.Store
	library   *library.Store
	engine    modelEngine
	voice     *voice.Transcriber
	exportDir string
}

// shell is a line-oriented front end over one session.
type shell struct {
	shellDeps
	ctx    context.Context
	drafts *session.Drafts
	in     *bufio.Scanner
	out    *lockedWriter
	wg     sync.WaitGroup

	page       string
	lyricsPage *lyrics.Workflow
	scorePage  *score.Workflow
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func newShell(ctx context.Context, deps shellDeps, in io.Reader, out io.Writer) *shell {
	return &shell{
		shellDeps: deps,
		ctx:       ctx,
		drafts:    session.NewDrafts(),
		in:        bufio.NewScanner(in),
		out:       &lockedWriter{w: out},
		page:      "home",
	}
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *shell) run() error {
	defer s.wg.Wait()
	s.printf("vocal-architect %s. Type \"help\" for commands.\n", version)
	for {
		s.printf("%s> ", s.page)
		if !s.in.Scan() {
			s.printf("\n")
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if verb == "quit" || verb == "exit" {
			return nil
		}
		if err := s.dispatch(verb, rest); err != nil {
			s.report(err)
		}
	}
}

// report prints err unless it is a quiet validation error.
func (s *shell) report(err error) {
	if err == nil || session.IsValidation(err) {
		return
	}
	msg := session.UserMessage(err)
	if msg == err.Error() {
		s.printf("error: %s\n", msg)
		return
	}
	s.printf("error: %s (%v)\n", msg, err)
}

// async runs fn in the background and reports its outcome.
func (s *shell) async(fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.report(fn())
	}()
}

func (s *shell) dispatch(verb, rest string) error {
	switch s.page {
	case "lyrics":
		if handled, err := s.lyricsCommand(verb, rest); handled {
			return err
		}
	case "score":
		if handled, err := s.scoreCommand(verb, rest); handled {
			return err
		}
	}

	switch verb {
	case "help":
		s.printf("%s", shellHelp)
	case "analyze":
		name := rest
		s.async(func() error {
			res, err := s.ctrl.RunAnalysis(s.ctx, name)
			if err == nil {
				s.printf("\nAnalyzed %s: %d mood prompts. Type \"show\".\n", res.Name, len(res.MoodVariations))
			}
			return err
		})
	case "show":
		res, ok := s.ctrl.Active()
		if !ok {
			return session.ErrNoAnalysis
		}
		var b strings.Builder
		printAnalysis(&b, res, s.ctrl.MoodPrompts(), s.ctrl.VocalDNA())
		s.printf("%s", b.String())
	case "edit":
		slot, text, err := parseSlot(rest)
		if err != nil {
			return err
		}
		if slot == session.VocalDNASlot {
			return s.ctrl.SetVocalDNA(text)
		}
		return s.ctrl.SetMoodPromptText(int(slot), text)
	case "refine":
		slot, instruction, err := parseSlot(rest)
		if err != nil {
			return err
		}
		s.async(func() error {
			var text string
			var err error
			if slot == session.VocalDNASlot {
				text, err = s.ctrl.RefineVocalDNA(s.ctx, instruction)
			} else {
				text, err = s.ctrl.RefineMoodPrompt(s.ctx, int(slot), instruction)
			}
			if err == nil {
				s.printf("\n[%s] %s\n", slot, text)
			}
			return err
		})
	case "tailor":
		slot, track, err := parseSlot(rest)
		if err != nil {
			return err
		}
		if strings.TrimSpace(track) == "" {
			return session.ErrEmptyTrack
		}
		s.async(func() error {
			var text string
			var err error
			if slot == session.VocalDNASlot {
				text, err = s.ctrl.TailorVocalDNAToTrack(s.ctx, track)
			} else {
				text, err = s.ctrl.TailorMoodPromptToTrack(s.ctx, int(slot), track)
			}
			if err == nil {
				s.printf("\n[%s] %s\n", slot, text)
			}
			return err
		})
	case "save":
		slot, folder, err := parseSlot(rest)
		if err != nil {
			return err
		}
		if slot == session.VocalDNASlot {
			_, err = s.ctrl.SaveVocalDNA(s.ctx, folder)
		} else {
			_, err = s.ctrl.SaveMoodPrompt(s.ctx, int(slot), folder)
		}
		if err == nil {
			s.printf("Saved.\n")
		}
		return err
	case "history":
		var b strings.Builder
		printHistory(&b, s.history.List())
		s.printf("%s", b.String())
	case "open":
		e, ok := lookupHistory(s.history, rest)
		if !ok {
			s.printf("Not in history.\n")
			return nil
		}
		s.ctrl.Load(e.AnalysisResult)
		s.printf("Loaded %s.\n", e.Name)
	case "forget":
		return s.history.Remove(s.ctx, rest)
	case "prompts":
		var b strings.Builder
		printPrompts(&b, s.library, s.library.Prompts(library.Query{Text: rest}))
		s.printf("%s", b.String())
	case "folders":
		var b strings.Builder
		printFolders(&b, s.library)
		s.printf("%s", b.String())
	case "mkdir":
		f, err := s.library.CreateFolder(s.ctx, rest, "")
		if err != nil {
			return err
		}
		s.printf("%s\n", f.ID)
	case "transcribe":
		c, err := audio.Load(rest)
		if err != nil {
			return err
		}
		s.async(func() error {
			text, err := s.voice.Transcribe(s.ctx, c)
			if err == nil {
				s.printf("\n%s\n", text)
			}
			return err
		})
	case "page":
		return s.switchPage(rest)
	case "wait":
		s.wg.Wait()
	default:
		s.printf("unknown command %q; type \"help\"\n", verb)
	}
	return nil
}

// switchPage drops the current page's workflow. Drafts stay in s.drafts
// and are picked up by the next workflow for that page.
func (s *shell) switchPage(page string) error {
	s.lyricsPage, s.scorePage = nil, nil
	switch page {
	case "home":
	case "lyrics":
		s.lyricsPage = lyrics.NewWorkflow(s.drafts, s.history, s.engine, s.library)
	case "score":
		s.scorePage = score.NewWorkflow(s.drafts, s.engine)
	default:
		return fmt.Errorf("unknown page %q: use home, lyrics or score", page)
	}
	s.page = page
	return nil
}

// readBlock reads lines up to a lone ".".
func (s *shell) readBlock() string {
	s.printf("(end with a line containing only \".\")\n")
	var lines []string
	for s.in.Scan() {
		line := s.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s *shell) lyricsCommand(verb, rest string) (bool, error) {
	w := s.lyricsPage
	switch verb {
	case "title":
		w.SetTitle(rest)
	case "artist":
		if rest == "-" || rest == "" {
			w.SelectArtist("")
			return true, nil
		}
		e, ok := lookupHistory(s.history, rest)
		if !ok {
			return true, fmt.Errorf("artist %q is not in history", rest)
		}
		w.SelectArtist(e.ID)
		s.printf("Style: %s\n", e.Name)
	case "raw":
		w.SetRaw(s.readBlock())
	case "structure":
		s.async(func() error {
			out, err := w.Structure(s.ctx)
			if err != nil {
				return err
			}
			s.printf("\n%s\n", out)
			if !lyrics.Preserves(w.Draft().RawText, out) {
				s.printf("warning: structured lyrics differ from the input beyond section markers\n")
			}
			return nil
		})
	case "save":
		l, err := w.Save(s.ctx, rest)
		if err != nil {
			return true, err
		}
		s.printf("Saved %q.\n", l.Title)
	case "clear":
		w.Clear()
	case "draft":
		d := w.Draft()
		artist := "-"
		if c := w.ArtistContext(); c != nil {
			artist = c.Name
		}
		s.printf("state: %s  saved: %v  title: %q  artist: %s\n", w.State(), w.Saved(), d.Title, artist)
		s.printf("--- raw ---\n%s\n--- structured ---\n%s\n", d.RawText, d.StructuredText)
	default:
		return false, nil
	}
	return true, nil
}

func (s *shell) scoreCommand(verb, rest string) (bool, error) {
	w := s.scorePage
	switch verb {
	case "load":
		c, err := audio.Load(rest)
		if err != nil {
			return true, err
		}
		s.async(func() error {
			d, err := w.Transcribe(s.ctx, c)
			if err == nil {
				s.printf("\n%s\n\n%s\n", d.AnalysisText, d.NotationText)
			}
			return err
		})
	case "notation":
		return true, w.EditNotation(s.readBlock())
	case "export":
		dir := rest
		if dir == "" {
			dir = s.exportDir
		}
		path, err := w.Export(dir)
		if err != nil {
			return true, err
		}
		s.printf("Wrote %s\n", path)
	case "draft":
		d, ok := w.Draft()
		if !ok {
			s.printf("No transcription yet.\n")
			return true, nil
		}
		s.printf("source: %s\n\n%s\n\n%s\n", d.SourceFileName, d.AnalysisText, d.NotationText)
	default:
		return false, nil
	}
	return true, nil
}

// parseSlot splits "<n|dna> rest" into a slot and the remaining text.
func parseSlot(arg string) (session.Slot, string, error) {
	head, rest, _ := strings.Cut(strings.TrimSpace(arg), " ")
	rest = strings.TrimSpace(rest)
	if strings.EqualFold(head, "dna") {
		return session.VocalDNASlot, rest, nil
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0, "", errors.New(`expected a mood prompt number or "dna"`)
	}
	return session.MoodSlot(n), rest, nil
}
