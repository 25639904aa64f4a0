// Package hclloader parses HCL pipeline definition files into the
// authoring model consumed by the compiler.
package hclloader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/pipec/internal/authoring"
	"github.com/vk/pipec/internal/ctxlog"
	"github.com/vk/pipec/internal/fsutil"
)

// Load reads the pipeline definition at path, which may be a single .hcl
// file or a directory of them, and returns the authored pipeline. Node
// blocks keep their source order; across files, files contribute nodes in
// sorted filename order.
func Load(ctx context.Context, path string) (*authoring.Pipeline, error) {
	files, err := fsutil.FindPipelineFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pipeline definition files under %q", path)
	}
	ctxlog.FromContext(ctx).Debug("Loading pipeline definition", "path", path, "files", len(files))

	parser := hclparse.NewParser()
	var pipeline *authoring.Pipeline
	var nodes []*authoring.Node
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}
		pipeline, nodes, err = loadFile(f.Body, pipeline, nodes)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	if pipeline == nil {
		return nil, fmt.Errorf("no pipeline block found under %q", path)
	}
	pipeline.Nodes = nodes
	ctxlog.FromContext(ctx).Debug("Loaded pipeline definition",
		"pipeline", pipeline.Name, "nodes", len(pipeline.Nodes))
	return pipeline, nil
}

// LoadBytes parses a single in-memory definition, for callers that already
// hold the source. filename is used in diagnostics only.
func LoadBytes(ctx context.Context, filename string, src []byte) (*authoring.Pipeline, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", filename, diags)
	}
	pipeline, nodes, err := loadFile(f.Body, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	if pipeline == nil {
		return nil, fmt.Errorf("no pipeline block in %s", filename)
	}
	pipeline.Nodes = nodes
	return pipeline, nil
}

// loadFile folds one file's blocks into the accumulated pipeline and node
// list. The top-level body is walked block by block rather than decoded
// into per-type slices so that node, resolver and importer blocks keep
// their relative order.
func loadFile(body hcl.Body, pipeline *authoring.Pipeline, nodes []*authoring.Node) (*authoring.Pipeline, []*authoring.Node, error) {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, nil, diags
	}

	for _, block := range content.Blocks {
		if block.Type == "pipeline" {
			if pipeline != nil {
				return nil, nil, fmt.Errorf("%s: duplicate pipeline block", block.DefRange)
			}
			var pb pipelineBlock
			if diags := gohcl.DecodeBody(block.Body, nil, &pb); diags.HasErrors() {
				return nil, nil, diags
			}
			p, err := translatePipeline(&pb)
			if err != nil {
				return nil, nil, err
			}
			pipeline = p
			continue
		}

		id := block.Labels[0]
		if err := authoring.ValidateID(id); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", block.DefRange, err)
		}
		node, err := decodeNodeBlock(block)
		if err != nil {
			return nil, nil, fmt.Errorf("%s %q: %w", block.Type, id, err)
		}
		nodes = append(nodes, node)
	}
	return pipeline, nodes, nil
}

func decodeNodeBlock(block *hcl.Block) (*authoring.Node, error) {
	id := block.Labels[0]
	switch block.Type {
	case "node":
		var nb nodeBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &nb); diags.HasErrors() {
			return nil, diags
		}
		return translateNode(id, &nb)
	case "resolver":
		var rb resolverBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &rb); diags.HasErrors() {
			return nil, diags
		}
		return translateResolver(id, &rb)
	case "importer":
		var ib importerBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &ib); diags.HasErrors() {
			return nil, diags
		}
		return translateImporter(id, &ib)
	}
	return nil, fmt.Errorf("unexpected block type %q", block.Type)
}
