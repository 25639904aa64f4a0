// Package app wires the loader, compiler and IR codec into the pipec
// application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/pipec/internal/compiler"
	"github.com/vk/pipec/internal/ctxlog"
	"github.com/vk/pipec/internal/hclloader"
	"github.com/vk/pipec/internal/ir"
	"github.com/vk/pipec/internal/storage"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Compiled documents go to outW (or Config.OutPath); logs go to
// the logger, which writes elsewhere so documents stay parseable.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	fs     storage.FS
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger writing to logW.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	logger := ctxlog.New(appConfig.LogLevel, appConfig.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		fs:     storage.NewLocal(),
	}
}

// Run executes one compile (or check) per the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if appConfig.CheckPath != "" {
		return a.check(ctx, appConfig.CheckPath)
	}
	return a.compile(ctx, appConfig)
}

func (a *App) compile(ctx context.Context, appConfig *Config) error {
	pipeline, err := hclloader.Load(ctx, appConfig.PipelinePath)
	if err != nil {
		return fmt.Errorf("failed to load pipeline definition: %w", err)
	}

	compiled, err := compiler.Compile(ctx, pipeline)
	if err != nil {
		return err
	}

	data, err := ir.Encode(compiled)
	if err != nil {
		return err
	}
	// The emitted document must satisfy the published schema; a violation
	// here is a compiler bug, not a user error.
	if err := ir.ValidateDocument(data); err != nil {
		return fmt.Errorf("compiled document failed schema validation: %w", err)
	}
	if appConfig.Format == "yaml" {
		if data, err = ir.EncodeYAML(compiled); err != nil {
			return err
		}
	}

	if appConfig.OutPath == "" {
		_, err = a.outW.Write(data)
		return err
	}
	return a.write(appConfig.OutPath, data)
}

// check validates an existing IR document without compiling anything.
func (a *App) check(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read IR document: %w", err)
	}
	if err := ir.ValidateDocument(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	pipeline, err := ir.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("IR document is valid.",
		"path", path, "pipeline", pipeline.Info.ID, "nodes", len(pipeline.Nodes))
	return nil
}

func (a *App) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := a.fs.MakeDirs(dir); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := a.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.logger.Info("Wrote compiled pipeline.", "path", path, "bytes", len(data))
	return nil
}
