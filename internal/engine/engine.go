// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the boundary to the generative model. An Engine turns
// each domain request (analysis, prompt refinement, lyric structuring,
// audio transcription) into a Call against a Backend and decodes the reply.
// No call is retried; failures are returned to the caller, whose prior
// state is left intact.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

var (
	// ErrArtistNotFound means the model could not resolve the artist name.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrAudioUnsupported means the configured backend cannot take audio.
	ErrAudioUnsupported = errors.New("backend does not support audio input")

	// ErrEmptyResponse means the model returned no usable content.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrNoAPIKey means no credential was configured for the backend.
	ErrNoAPIKey = errors.New("no API key configured")
)

// Call is one request to a model.
type Call struct {
	// Name identifies the response schema, e.g. "artist_analysis".
	Name string

	// Instructions is the system prompt.
	Instructions string

	// Input is the user message.
	Input string

	// Schema is the strict JSON schema of the reply. Nil asks for text.
	Schema map[string]any

	MaxTokens int
}

// Backend sends text calls to a model provider.
type Backend interface {
	Complete(ctx context.Context, call Call) (string, error)
}

// AudioBackend is a Backend that also accepts audio input.
type AudioBackend interface {
	Backend
	CompleteAudio(ctx context.Context, call Call, clip audio.Clip) (string, error)
	Transcribe(ctx context.Context, clip audio.Clip) (string, error)
}

// Options tunes an Engine.
type Options struct {
	// MaxTokens caps each reply. Zero uses DefaultMaxTokens.
	MaxTokens int

	// Language is the display language for localized text. Empty uses
	// DefaultLanguage.
	Language string
}

const (
	DefaultMaxTokens = 4096
	DefaultLanguage  = "Korean"
)

// Engine implements every model-backed operation over one Backend.
type Engine struct {
	backend   Backend
	audio     AudioBackend
	maxTokens int
	language  string
}

// NewEngine returns an engine over b. Audio operations are available when
// b also implements AudioBackend.
func NewEngine(b Backend, opts Options) *Engine {
	e := &Engine{backend: b, maxTokens: opts.MaxTokens, language: opts.Language}
	if e.maxTokens <= 0 {
		e.maxTokens = DefaultMaxTokens
	}
	if e.language == "" {
		e.language = DefaultLanguage
	}
	if ab, ok := b.(AudioBackend); ok {
		e.audio = ab
	}
	return e
}

// SupportsAudio reports whether audio operations are available.
func (e *Engine) SupportsAudio() bool {
	return e.audio != nil
}

// complete runs call and decodes the JSON reply into out.
func (e *Engine) complete(ctx context.Context, call Call, out any) error {
	call.MaxTokens = e.maxTokens
	text, err := e.backend.Complete(ctx, call)
	if err != nil {
		return err
	}
	return decodeReply(call.Name, text, out)
}

func decodeReply(name, text string, out any) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s: %w", name, ErrEmptyResponse)
	}
	if err := DecodeModelJSON(text, out); err != nil {
		return fmt.Errorf("%s: %w (model_output_prefix=%q)", name, err, truncate(text, 200))
	}
	return nil
}

type promptReply struct {
	PromptText string `json:"prompt_text" jsonschema:"description=The revised comma-separated style tag prompt"`
}

var promptSchema = GenerateSchema[promptReply]()

// Refine revises a prompt, optionally following req.Instruction.
func (e *Engine) Refine(ctx context.Context, req types.RefineRequest) (string, error) {
	input, err := render(refineInputTmpl, req)
	if err != nil {
		return "", err
	}
	var out promptReply
	err = e.complete(ctx, Call{
		Name:         "refined_prompt",
		Instructions: promptInstructions,
		Input:        input,
		Schema:       promptSchema,
	}, &out)
	if err != nil {
		return "", err
	}
	return nonEmpty("refined_prompt", out.PromptText)
}

// Tailor bends a prompt toward req.ReferenceTrackTitle.
func (e *Engine) Tailor(ctx context.Context, req types.TailorRequest) (string, error) {
	input, err := render(tailorInputTmpl, req)
	if err != nil {
		return "", err
	}
	var out promptReply
	err = e.complete(ctx, Call{
		Name:         "tailored_prompt",
		Instructions: promptInstructions,
		Input:        input,
		Schema:       promptSchema,
	}, &out)
	if err != nil {
		return "", err
	}
	return nonEmpty("tailored_prompt", out.PromptText)
}

type lyricsReply struct {
	StructuredLyrics string `json:"structured_lyrics" jsonschema:"description=The input lyrics with section markers inserted"`
}

var lyricsSchema = GenerateSchema[lyricsReply]()

// StructureLyrics adds section markers to req.RawLyrics.
func (e *Engine) StructureLyrics(ctx context.Context, req types.StructureRequest) (string, error) {
	input, err := render(structureInputTmpl, req)
	if err != nil {
		return "", err
	}
	var out lyricsReply
	err = e.complete(ctx, Call{
		Name:         "structured_lyrics",
		Instructions: structureInstructions,
		Input:        input,
		Schema:       lyricsSchema,
	}, &out)
	if err != nil {
		return "", err
	}
	return nonEmpty("structured_lyrics", out.StructuredLyrics)
}

type scoreReply struct {
	Notation string `json:"notation" jsonschema:"description=ABC notation of the melody"`
	Analysis string `json:"analysis" jsonschema:"description=Short musical analysis: key, tempo, meter and character"`
}

var scoreSchema = GenerateSchema[scoreReply]()

// TranscribeScore turns a clip into ABC notation plus an analysis.
func (e *Engine) TranscribeScore(ctx context.Context, clip audio.Clip) (types.ScoreResult, error) {
	if e.audio == nil {
		return types.ScoreResult{}, ErrAudioUnsupported
	}
	call := Call{
		Name:         "score_transcription",
		Instructions: scoreInstructions,
		Input:        fmt.Sprintf("Transcribe the melody in %s. Write the analysis in %s.", clip.Name, e.language),
		Schema:       scoreSchema,
		MaxTokens:    e.maxTokens,
	}
	text, err := e.audio.CompleteAudio(ctx, call, clip)
	if err != nil {
		return types.ScoreResult{}, err
	}
	var out scoreReply
	if err := decodeReply(call.Name, text, &out); err != nil {
		return types.ScoreResult{}, err
	}
	if strings.TrimSpace(out.Notation) == "" {
		return types.ScoreResult{}, fmt.Errorf("%s: notation: %w", call.Name, ErrEmptyResponse)
	}
	return types.ScoreResult{
		Notation:     strings.TrimSpace(out.Notation),
		AnalysisText: strings.TrimSpace(out.Analysis),
	}, nil
}

// TranscribeSpeech returns the spoken or sung words in clip. An empty
// transcript is not an error.
func (e *Engine) TranscribeSpeech(ctx context.Context, clip audio.Clip) (string, error) {
	if e.audio == nil {
		return "", ErrAudioUnsupported
	}
	return e.audio.Transcribe(ctx, clip)
}

func nonEmpty(name, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmptyResponse)
	}
	return s, nil
}
