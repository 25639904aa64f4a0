package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipec/internal/ir"
)

const definition = `
pipeline {
  name = "iris"
  root = "workspace/pipelines/iris"
}

node "example-gen" {
  executor { name = "CsvExampleGen" }

  output "examples" {
    type = "Examples"
  }
}

node "trainer" {
  executor { name = "Trainer" }

  input "examples" {
    producer   = "example-gen"
    output_key = "examples"
  }

  output "model" {
    type = "Model"
  }
}
`

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iris.hcl")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o644))
	return path
}

func newTestApp(t *testing.T, cfg Config) (*App, *Config, *bytes.Buffer) {
	t.Helper()
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	return NewApp(&out, os.Stderr, appConfig), appConfig, &out
}

func TestRunCompilesToStdout(t *testing.T) {
	a, cfg, out := newTestApp(t, Config{PipelinePath: writeDefinition(t)})

	require.NoError(t, a.Run(context.Background(), cfg))

	pipeline, err := ir.Decode(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "iris", pipeline.Info.ID)
	require.Len(t, pipeline.Nodes, 2)
	assert.Equal(t, []string{"example-gen"}, pipeline.Nodes[1].Upstream)
}

func TestRunCompilesToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "build", "iris.json")
	a, cfg, out := newTestApp(t, Config{
		PipelinePath: writeDefinition(t),
		OutPath:      outPath,
	})

	require.NoError(t, a.Run(context.Background(), cfg))
	assert.Zero(t, out.Len(), "nothing on stdout when -out is set")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateDocument(data))
}

func TestRunYAMLFormat(t *testing.T) {
	a, cfg, out := newTestApp(t, Config{
		PipelinePath: writeDefinition(t),
		Format:       "yaml",
	})

	require.NoError(t, a.Run(context.Background(), cfg))
	assert.Contains(t, out.String(), "id: iris")
	assert.NotContains(t, out.String(), "{", "yaml output should not be JSON")
}

func TestRunCheckMode(t *testing.T) {
	// Compile once, then re-check the produced document.
	outPath := filepath.Join(t.TempDir(), "iris.json")
	a, cfg, _ := newTestApp(t, Config{
		PipelinePath: writeDefinition(t),
		OutPath:      outPath,
	})
	require.NoError(t, a.Run(context.Background(), cfg))

	checker, checkCfg, _ := newTestApp(t, Config{CheckPath: outPath})
	assert.NoError(t, checker.Run(context.Background(), checkCfg))
}

func TestRunCheckModeRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schemaVersion": 1}`), 0o644))

	a, cfg, _ := newTestApp(t, Config{CheckPath: path})
	assert.Error(t, a.Run(context.Background(), cfg))
}

func TestRunCompileErrorProducesNoOutput(t *testing.T) {
	dir := t.TempDir()
	// trainer consumes from a node declared after it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.hcl"), []byte(`
pipeline {
  name = "bad"
  root = "r"
}

node "trainer" {
  executor { name = "Trainer" }

  input "examples" {
    producer   = "example-gen"
    output_key = "examples"
  }
}

node "example-gen" {
  executor { name = "CsvExampleGen" }

  output "examples" {
    type = "Examples"
  }
}
`), 0o644))

	outPath := filepath.Join(dir, "out.json")
	a, cfg, out := newTestApp(t, Config{PipelinePath: dir, OutPath: outPath})

	require.Error(t, a.Run(context.Background(), cfg))
	assert.Zero(t, out.Len())
	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "no partial document on failure")
}

func TestNewConfigValidation(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{PipelinePath: "p.hcl", CheckPath: "p.json"})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{PipelinePath: "p.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	_, err = NewConfig(Config{PipelinePath: "p.hcl", Format: "toml"})
	assert.Error(t, err)
}
