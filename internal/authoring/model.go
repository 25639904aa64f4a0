// Package authoring holds the in-memory pipeline definition handed to the
// compiler. The authored graph is built once by the caller and is read-only
// input to compilation; the compiler never mutates it.
package authoring

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pipec/internal/ir"
)

// NodeKind tags the three authored node variants.
type NodeKind string

const (
	// KindExecution is an ordinary node bound to an executor.
	KindExecution NodeKind = "execution"
	// KindResolver selects among previously produced artifacts.
	KindResolver NodeKind = "resolver"
	// KindImporter registers an externally produced artifact.
	KindImporter NodeKind = "importer"
)

// Pipeline is an authored pipeline: an ordered node list plus
// pipeline-level attributes. Node order is significant; it must be a valid
// topological order of the channel bindings.
type Pipeline struct {
	Name        string
	Root        string
	EnableCache bool
	// BackendArgs are passed through to the execution backend untouched.
	BackendArgs []string
	// PlatformConfig is an opaque structured payload copied verbatim into
	// the IR.
	PlatformConfig json.RawMessage
	Nodes          []*Node
}

// Node is one authored pipeline node.
type Node struct {
	ID   string
	Kind NodeKind

	// Inputs bind this node's input keys to producer outputs or external
	// sources, in declaration order.
	Inputs []Channel
	// Outputs declare this node's output channels, in declaration order.
	Outputs []OutputSpec
	// Params maps execution-property names to values: a supported scalar
	// literal, a cty.Value, a *RuntimeParameter or a
	// *placeholder.Placeholder.
	Params map[string]any

	// Executor is required for KindExecution nodes.
	Executor *ExecutorSpec
	// Resolver is required for KindResolver nodes.
	Resolver *ResolverSpec
	// Importer is required for KindImporter nodes.
	Importer *ImporterSpec

	PlatformConfig json.RawMessage
}

// Channel binds one input key. Either Producer+OutputKey or External is
// set.
type Channel struct {
	Key       string
	Producer  string
	OutputKey string
	External  string
	// Type may be left zero for producer-bound channels; the compiler
	// fills it from the producer's output spec.
	Type ir.ArtifactType
}

// OutputSpec declares one output channel.
type OutputSpec struct {
	Key  string
	Type ir.ArtifactType
}

// ExecutorSpec names the executor bound to an execution node.
type ExecutorSpec struct {
	Name string
	Args []string
}

// ResolverSpec configures a resolver node's selection strategy.
type ResolverSpec struct {
	Strategy string
	// Config is an optional strategy configuration object; cty.NilVal
	// means none.
	Config cty.Value
}

// ImporterSpec configures an importer node.
type ImporterSpec struct {
	SourceURI        string
	Type             ir.ArtifactType
	Properties       map[string]cty.Value
	CustomProperties map[string]cty.Value
	Reimport         bool
	// OutputKey defaults to "result" when empty.
	OutputKey string
}

// RuntimeParameter defers an execution-property value to run submission
// time.
type RuntimeParameter struct {
	Name string
	Type ir.ValueKind
	// Default is optional; cty.NilVal means none.
	Default cty.Value
}

// idPattern is the path-safe node id grammar. Node ids become directory
// names under the pipeline root, so separators and traversal names are
// rejected.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-][a-zA-Z0-9_.-]*$`)

// ValidateID checks that id is usable as a node identity and storage path
// segment.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("node id cannot be empty")
	}
	if id == "-" || !idPattern.MatchString(id) {
		return fmt.Errorf("invalid node id %q", id)
	}
	return nil
}
