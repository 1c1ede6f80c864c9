// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"time"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/engine"
	"github.com/pdiddy/vocal-architect/internal/history"
	"github.com/pdiddy/vocal-architect/internal/kv"
	"github.com/pdiddy/vocal-architect/internal/library"
	"github.com/pdiddy/vocal-architect/internal/session"
	"github.com/pdiddy/vocal-architect/internal/voice"
	"github.com/pdiddy/vocal-architect/pkg/types"
)

// app holds the stores and engine shared by every command.
type app struct {
	cfg     types.Config
	store   *kv.Store
	history *history.Store
	library *library.Store
	engine  *engine.Engine
	err     error
}

// openApp opens the local database and loads each collection. The engine
// is built eagerly but a missing key is only reported when a command needs
// it.
func openApp(ctx context.Context) (*app, error) {
	cfg := loadConfig()

	st, err := kv.Open(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		store:   st,
		history: history.Open(ctx, st, os.Stderr),
		library: library.Open(ctx, st, os.Stderr),
	}
	a.engine, a.err = engine.New(cfg.Engine, os.Stderr)
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// backend returns the engine, or a stand-in that fails every call with the
// configuration error so that offline commands keep working.
func (a *app) backend() modelEngine {
	if a.err != nil {
		return unavailable{a.err}
	}
	return a.engine
}

// controller returns a session controller wired to the stores.
func (a *app) controller() *session.Controller {
	e := a.backend()
	return session.NewController(session.Config{
		Analyzer: e,
		Refiner:  e,
		History:  a.history,
		Library:  a.library,
		Warn:     os.Stderr,
	})
}

func (a *app) transcriber() *voice.Transcriber {
	return voice.NewTranscriber(a.backend(), time.Duration(a.cfg.Audio.MaxClipSeconds)*time.Second, os.Stderr)
}

// modelEngine is every model-backed operation the CLI uses.
type modelEngine interface {
	Analyze(ctx context.Context, artistName string) (types.AnalysisResult, error)
	Refine(ctx context.Context, req types.RefineRequest) (string, error)
	Tailor(ctx context.Context, req types.TailorRequest) (string, error)
	StructureLyrics(ctx context.Context, req types.StructureRequest) (string, error)
	TranscribeScore(ctx context.Context, clip audio.Clip) (types.ScoreResult, error)
	TranscribeSpeech(ctx context.Context, clip audio.Clip) (string, error)
}

type unavailable struct{ err error }

func (u unavailable) Analyze(context.Context, string) (types.AnalysisResult, error) {
	return types.AnalysisResult{}, u.err
}

func (u unavailable) Refine(context.Context, types.RefineRequest) (string, error) {
	return "", u.err
}

func (u unavailable) Tailor(context.Context, types.TailorRequest) (string, error) {
	return "", u.err
}

func (u unavailable) StructureLyrics(context.Context, types.StructureRequest) (string, error) {
	return "", u.err
}

func (u unavailable) TranscribeScore(context.Context, audio.Clip) (types.ScoreResult, error) {
	return types.ScoreResult{}, u.err
}

func (u unavailable) TranscribeSpeech(context.Context, audio.Clip) (string, error) {
	return "", u.err
}
