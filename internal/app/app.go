package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
	"github.com/specialistvlad/swmmbridge/internal/dispatch"
	"github.com/specialistvlad/swmmbridge/internal/exchange"
	"github.com/specialistvlad/swmmbridge/internal/hcl"
	"github.com/specialistvlad/swmmbridge/internal/swmm"
	"github.com/specialistvlad/swmmbridge/internal/synth"
)

// App is one wired harness instance with its own logger and session.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config

	engine     swmm.API
	loader     config.Loader
	dispatcher *dispatch.Dispatcher
}

// NewApp wires the harness. engine may be nil, in which case the synthetic
// engine is used.
func NewApp(outW io.Writer, cfg *Config, engine swmm.API) *App {
	logger, level := newLogger(cfg.LogLevel, cfg.LogFormat, outW)

	if engine == nil {
		engine = synth.New()
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		modelPath = placeholderModel(logger)
	}

	session := exchange.NewSession(engine, exchange.Paths{
		Input:  modelPath,
		Report: derivedPath(modelPath, ".rpt"),
		Output: derivedPath(modelPath, ".out"),
	})

	loader := hcl.NewLoader()
	return &App{
		outW:       outW,
		logger:     logger,
		cfg:        cfg,
		engine:     engine,
		loader:     loader,
		dispatcher: dispatch.New(loader, cfg.MappingPath, session, level),
	}
}

// Logger exposes the app's logger, primarily for tests.
func (a *App) Logger() *slog.Logger { return a.logger }

// Context returns a background context carrying the app's logger.
func (a *App) Context() context.Context {
	return ctxlog.WithLogger(context.Background(), a.logger)
}

// placeholderModel writes a throwaway .inp file for engine builds that only
// need a path to exist (the synthetic engine ignores the contents).
func placeholderModel(logger *slog.Logger) string {
	f, err := os.CreateTemp("", "swmmbridge-*.inp")
	if err != nil {
		logger.Error("could not create placeholder model file", "error", err)
		return "model.inp"
	}
	f.WriteString("[TITLE]\nswmmbridge synthetic placeholder model\n")
	f.Close()
	logger.Debug("placeholder model created", "path", f.Name())
	return f.Name()
}

func derivedPath(modelPath, ext string) string {
	base := modelPath[:len(modelPath)-len(filepath.Ext(modelPath))]
	return base + ext
}
