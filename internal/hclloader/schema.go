package hclloader

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// rootSchema lists the top-level blocks of a pipeline definition file.
// Block order in the file is the authored node order, so files are walked
// block by block instead of being decoded into per-type slices.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "pipeline"},
		{Type: "node", LabelNames: []string{"id"}},
		{Type: "resolver", LabelNames: []string{"id"}},
		{Type: "importer", LabelNames: []string{"id"}},
	},
}

// platformBlock captures an opaque platform configuration payload.
type platformBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// pipelineBlock is the single `pipeline` block.
type pipelineBlock struct {
	Name        string         `hcl:"name"`
	Root        string         `hcl:"root"`
	EnableCache bool           `hcl:"enable_cache,optional"`
	BackendArgs []string       `hcl:"backend_args,optional"`
	Platform    *platformBlock `hcl:"platform,block"`
}

// nodeBlock is a `node "<id>"` block: an ordinary executor-bound node.
type nodeBlock struct {
	Executor *executorBlock `hcl:"executor,block"`
	Inputs   []*inputBlock  `hcl:"input,block"`
	Outputs  []*outputBlock `hcl:"output,block"`
	Params   []*paramBlock  `hcl:"param,block"`
	Platform *platformBlock `hcl:"platform,block"`
}

type executorBlock struct {
	Name string   `hcl:"name"`
	Args []string `hcl:"args,optional"`
}

type inputBlock struct {
	Key       string `hcl:"key,label"`
	Producer  string `hcl:"producer,optional"`
	OutputKey string `hcl:"output_key,optional"`
	External  string `hcl:"external,optional"`
	Type      string `hcl:"type,optional"`
	ValueKind string `hcl:"value_kind,optional"`
}

type outputBlock struct {
	Key       string `hcl:"key,label"`
	Type      string `hcl:"type"`
	ValueKind string `hcl:"value_kind,optional"`
}

type paramBlock struct {
	Key              string             `hcl:"key,label"`
	Value            *cty.Value         `hcl:"value,optional"`
	RuntimeParameter *runtimeParamBlock `hcl:"runtime_parameter,block"`
}

type runtimeParamBlock struct {
	Name    string     `hcl:"name,optional"`
	Type    string     `hcl:"type"`
	Default *cty.Value `hcl:"default,optional"`
}

// resolverBlock is a `resolver "<id>"` block.
type resolverBlock struct {
	Strategy string         `hcl:"strategy"`
	Config   *cty.Value     `hcl:"config,optional"`
	Outputs  []*outputBlock `hcl:"output,block"`
	Platform *platformBlock `hcl:"platform,block"`
}

// importerBlock is an `importer "<id>"` block.
type importerBlock struct {
	SourceURI        string         `hcl:"source_uri"`
	Type             string         `hcl:"type"`
	ValueKind        string         `hcl:"value_kind,optional"`
	Properties       *cty.Value     `hcl:"properties,optional"`
	CustomProperties *cty.Value     `hcl:"custom_properties,optional"`
	Reimport         bool           `hcl:"reimport,optional"`
	OutputKey        string         `hcl:"output_key,optional"`
	Platform         *platformBlock `hcl:"platform,block"`
}
