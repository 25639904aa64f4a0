// Package compiler lowers an authored pipeline graph into the IR consumed
// by execution engines.
//
// The authored node list is taken as a valid topological order: a channel
// binding may only reference a producer that appears earlier in the list.
// The compiler enforces exactly that (which also excludes cycles); it does
// not reorder nodes, and the compiled node list preserves authored order so
// IR documents compare deterministically.
package compiler

import (
	"context"

	"github.com/vk/pipec/internal/authoring"
	"github.com/vk/pipec/internal/ctxlog"
	"github.com/vk/pipec/internal/ir"
)

// Compile translates an authored pipeline into a compiled pipeline. On
// failure it returns a *Error naming the offending node and violation, and
// no partial IR.
func Compile(ctx context.Context, p *authoring.Pipeline) (*ir.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	if p == nil {
		return nil, errf("", "nil pipeline")
	}
	if p.Name == "" {
		return nil, errf("", "pipeline name is required")
	}
	if p.Root == "" {
		return nil, errf("", "pipeline root is required")
	}
	logger.Debug("Compile: starting.", "pipeline", p.Name, "node_count", len(p.Nodes))

	compiled := &ir.Pipeline{
		SchemaVersion:  ir.SchemaVersion,
		Info:           ir.PipelineInfo{ID: p.Name},
		Root:           p.Root,
		EnableCache:    p.EnableCache,
		BackendArgs:    append([]string(nil), p.BackendArgs...),
		PlatformConfig: p.PlatformConfig,
		Nodes:          make([]*ir.Node, 0, len(p.Nodes)),
	}

	// producers tracks the output channels of every node compiled so far,
	// in declaration order. A binding that misses here is a forward
	// reference (or a cycle), which the contract forbids.
	producers := make(map[string]map[string]ir.ArtifactType, len(p.Nodes))

	for _, node := range p.Nodes {
		if err := authoring.ValidateID(node.ID); err != nil {
			return nil, errf(node.ID, "%v", err)
		}
		if _, dup := producers[node.ID]; dup {
			return nil, errf(node.ID, "duplicate node id")
		}

		compiledNode, err := compileNode(node, producers)
		if err != nil {
			return nil, err
		}
		compiled.Nodes = append(compiled.Nodes, compiledNode)

		outputs := make(map[string]ir.ArtifactType, len(compiledNode.Outputs))
		for _, out := range compiledNode.Outputs {
			outputs[out.Key] = out.Type
		}
		producers[node.ID] = outputs
		logger.Debug("Compile: node lowered.", "node", node.ID, "kind", compiledNode.Kind)
	}

	logger.Info("Compile: pipeline compiled.", "pipeline", p.Name, "node_count", len(compiled.Nodes))
	return compiled, nil
}
