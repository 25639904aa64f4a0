package ir

import "encoding/json"

// SchemaVersion identifies the IR document layout produced by this package.
// Decode rejects documents from a different version rather than guessing.
const SchemaVersion = 1

// NodeKind distinguishes the three compiled node variants.
type NodeKind string

const (
	// KindExecution is an ordinary executor-bound node.
	KindExecution NodeKind = "execution"
	// KindResolver selects among previously produced artifacts via a
	// named resolution strategy instead of executing new logic.
	KindResolver NodeKind = "resolver"
	// KindImporter registers an externally produced artifact into the
	// pipeline's artifact space.
	KindImporter NodeKind = "importer"
)

// Pipeline is the single top-level IR message.
type Pipeline struct {
	SchemaVersion  int             `json:"schemaVersion"`
	Info           PipelineInfo    `json:"info"`
	Root           string          `json:"root"`
	EnableCache    bool            `json:"enableCache,omitempty"`
	BackendArgs    []string        `json:"backendArgs,omitempty"`
	PlatformConfig json.RawMessage `json:"platformConfig,omitempty"`
	Nodes          []*Node         `json:"nodes"`
}

// PipelineInfo carries pipeline identity.
type PipelineInfo struct {
	ID string `json:"id"`
}

// NodeInfo carries node identity.
type NodeInfo struct {
	ID string `json:"id"`
	// TypeName names the component type of the node, when known. It is
	// informational; scheduling keys off ID only.
	TypeName string `json:"typeName,omitempty"`
}

// Node is one compiled pipeline node. Exactly one of Executor, Resolver or
// Importer is set, matching Kind.
type Node struct {
	Kind       NodeKind      `json:"kind"`
	Info       NodeInfo      `json:"info"`
	Inputs     []*InputSpec  `json:"inputs,omitempty"`
	Outputs    []*OutputSpec `json:"outputs,omitempty"`
	Parameters []*Parameter  `json:"parameters,omitempty"`
	// Upstream lists the ids of producer nodes this node consumes from,
	// sorted and deduplicated. It is the dependency edge set used by the
	// execution engine's scheduler.
	Upstream       []string        `json:"upstream,omitempty"`
	Executor       *ExecutorSpec   `json:"executor,omitempty"`
	Resolver       *ResolverSpec   `json:"resolver,omitempty"`
	Importer       *ImporterSpec   `json:"importer,omitempty"`
	PlatformConfig json.RawMessage `json:"platformConfig,omitempty"`
}

// OutputSpec returns the node's output spec for key, or nil.
func (n *Node) OutputSpec(key string) *OutputSpec {
	for _, out := range n.Outputs {
		if out.Key == key {
			return out
		}
	}
	return nil
}

// InputSpec binds one input key of a node to its source: either a producer
// node's output channel (Producer + OutputKey) or an external URI.
type InputSpec struct {
	Key       string       `json:"key"`
	Producer  string       `json:"producer,omitempty"`
	OutputKey string       `json:"outputKey,omitempty"`
	External  string       `json:"external,omitempty"`
	Type      ArtifactType `json:"type"`
}

// OutputSpec declares one output channel of a node.
type OutputSpec struct {
	Key  string       `json:"key"`
	Type ArtifactType `json:"type"`
}

// ValueKind classifies single-valued ("primitive") artifact payloads. The
// zero value means the artifact payload is a directory, not a single file.
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueInt    ValueKind = "int"
	ValueFloat  ValueKind = "float"
	ValueBool   ValueKind = "bool"
)

// ArtifactType describes the artifact flowing through a channel.
type ArtifactType struct {
	Name      string    `json:"name"`
	ValueKind ValueKind `json:"valueKind,omitempty"`
}

// IsValue reports whether artifacts of this type carry a single value file
// rather than a directory payload.
func (t ArtifactType) IsValue() bool {
	return t.ValueKind != ""
}

// Parameter is one resolved execution property. Node parameter lists are
// sorted by key so IR documents compare deterministically.
type Parameter struct {
	Key   string `json:"key"`
	Value *Value `json:"value"`
}

// ExecutorSpec names the executor binary or class bound to an execution
// node, plus any static arguments.
type ExecutorSpec struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// ResolverSpec configures a resolver node.
type ResolverSpec struct {
	Strategy string   `json:"strategy"`
	Config   *Literal `json:"config,omitempty"`
}

// ImporterSpec configures an importer node.
type ImporterSpec struct {
	SourceURI        string             `json:"sourceUri"`
	Type             ArtifactType       `json:"type"`
	Properties       map[string]Literal `json:"properties,omitempty"`
	CustomProperties map[string]Literal `json:"customProperties,omitempty"`
	Reimport         bool               `json:"reimport,omitempty"`
	// OutputKey is the channel key downstream bindings use to consume the
	// imported artifact.
	OutputKey string `json:"outputKey"`
}
