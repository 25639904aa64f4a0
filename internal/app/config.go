package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PipelinePath points at a .hcl definition file or a directory of them.
	PipelinePath string
	// OutPath is where the compiled IR document is written. Empty means
	// standard output.
	OutPath string
	// Format selects the IR encoding: "json" or "yaml".
	Format string
	// CheckPath, when set, switches the app into check mode: the existing
	// IR document at this path is validated instead of compiling anything.
	CheckPath string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" && cfg.CheckPath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.PipelinePath != "" && cfg.CheckPath != "" {
		return nil, errors.New("PipelinePath and CheckPath are mutually exclusive")
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Format != "json" && cfg.Format != "yaml" {
		return nil, fmt.Errorf("unsupported output format %q", cfg.Format)
	}
	return &cfg, nil
}
