// Package outputs resolves the storage locations and stable identities of
// a compiled node's output artifacts.
//
// Identity and location deliberately rotate at different rates. An
// artifact's name is derived from the logical output
// (pipeline, run, node, key, index) and is identical across every retry of
// the same node execution, which is what makes re-execution idempotent in
// the metadata catalog. Its URI additionally includes the execution id,
// which is unique per attempt, so every retry writes to a fresh physical
// location and never clobbers a previous attempt's data.
package outputs

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/vk/pipec/internal/ctxlog"
	"github.com/vk/pipec/internal/ir"
	"github.com/vk/pipec/internal/runid"
	"github.com/vk/pipec/internal/storage"
)

const (
	executionDirName       = "execution"
	executorOutputFileName = "executor_output.json"
	statefulWorkingDirName = "stateful_working_dir"
	valueArtifactFileName  = "value"
)

// RuntimeSpec carries the run-scoped identifiers output resolution needs.
type RuntimeSpec struct {
	// PipelineRoot is the directory (or URI prefix) under which all of
	// the pipeline's artifacts live.
	PipelineRoot string
	// PipelineRunID is stable for one run, across all of its nodes and
	// all execution attempts within it.
	PipelineRunID string
}

// NewRuntimeSpec builds a RuntimeSpec, minting a fresh run id when the
// caller does not supply one.
func NewRuntimeSpec(root, pipelineRunID string) RuntimeSpec {
	if pipelineRunID == "" {
		pipelineRunID = runid.New()
	}
	return RuntimeSpec{PipelineRoot: root, PipelineRunID: pipelineRunID}
}

// Artifact is a fully materialized output artifact descriptor.
type Artifact struct {
	URI  string
	Name string
	Type ir.ArtifactType
}

// ArtifactName derives the deterministic, collision-free artifact identity.
// Identical inputs always yield the identical name; distinct
// (node, key, index) tuples never collide within a run.
func ArtifactName(pipelineID, pipelineRunID, nodeID, outputKey string, index int) string {
	return fmt.Sprintf("%s:%s:%s:%s:%d", pipelineID, pipelineRunID, nodeID, outputKey, index)
}

// Resolver resolves output locations for one compiled node within one run.
// It is stateless beyond its constructor-bound scope; call it repeatedly
// with distinct execution ids for retries. Instances for different nodes
// never touch each other's subdirectories.
type Resolver struct {
	fs      storage.FS
	node    *ir.Node
	info    ir.PipelineInfo
	runID   string
	nodeDir string
}

// NewResolver scopes a Resolver to one node and one run.
func NewResolver(fs storage.FS, node *ir.Node, info ir.PipelineInfo, runtime RuntimeSpec) *Resolver {
	return &Resolver{
		fs:      fs,
		node:    node,
		info:    info,
		runID:   runtime.PipelineRunID,
		nodeDir: joinPath(runtime.PipelineRoot, node.Info.ID),
	}
}

// GenerateOutputArtifacts materializes one artifact descriptor per declared
// output key for the given execution attempt. It has no side effects;
// backing storage is created separately by MakeOutputDirs.
func (r *Resolver) GenerateOutputArtifacts(ctx context.Context, executionID int64) map[string][]*Artifact {
	logger := ctxlog.FromContext(ctx)

	artifacts := make(map[string][]*Artifact, len(r.node.Outputs))
	for _, spec := range r.node.Outputs {
		uri := joinPath(r.nodeDir, spec.Key, strconv.FormatInt(executionID, 10))
		if spec.Type.IsValue() {
			// Single-valued artifacts point at a fixed file inside the
			// execution directory, not at the directory itself.
			uri = joinPath(uri, valueArtifactFileName)
		}
		artifact := &Artifact{
			URI:  uri,
			Name: ArtifactName(r.info.ID, r.runID, r.node.Info.ID, spec.Key, 0),
			Type: spec.Type,
		}
		logger.Debug("Resolved output artifact.", "node", r.node.Info.ID, "key", spec.Key, "uri", uri)
		artifacts[spec.Key] = []*Artifact{artifact}
	}
	return artifacts
}

// ExecutorOutputURI returns the fixed-name output-log path for the given
// execution attempt, creating its directory if absent. Safe to call more
// than once per attempt.
func (r *Resolver) ExecutorOutputURI(executionID int64) (string, error) {
	executionDir := joinPath(r.nodeDir, executionDirName, strconv.FormatInt(executionID, 10))
	if err := r.fs.MakeDirs(executionDir); err != nil {
		return "", err
	}
	return joinPath(executionDir, executorOutputFileName), nil
}

// StatefulWorkingDirectory returns a per-run, per-node directory executors
// may use for checkpointing across retries, creating it if absent. Unlike
// artifact URIs, it is keyed by run id, so every execution attempt within
// the run sees the same path.
func (r *Resolver) StatefulWorkingDirectory() (string, error) {
	dir := joinPath(r.nodeDir, r.runID, statefulWorkingDirName)
	if err := r.fs.MakeDirs(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// joinPath joins path elements while preserving a URI scheme prefix in the
// first element; path.Join alone would collapse the double slash in
// prefixes like s3://.
func joinPath(elem ...string) string {
	if i := strings.Index(elem[0], "://"); i >= 0 {
		prefix := elem[0][:i+3]
		rest := append([]string{elem[0][i+3:]}, elem[1:]...)
		return prefix + path.Join(rest...)
	}
	return path.Join(elem...)
}
