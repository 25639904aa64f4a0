package hclloader

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/pipec/internal/authoring"
	"github.com/vk/pipec/internal/ir"
)

func translatePipeline(pb *pipelineBlock) (*authoring.Pipeline, error) {
	platform, err := translatePlatform(pb.Platform)
	if err != nil {
		return nil, fmt.Errorf("pipeline platform config: %w", err)
	}
	return &authoring.Pipeline{
		Name:           pb.Name,
		Root:           pb.Root,
		EnableCache:    pb.EnableCache,
		BackendArgs:    pb.BackendArgs,
		PlatformConfig: platform,
	}, nil
}

func translateNode(id string, nb *nodeBlock) (*authoring.Node, error) {
	node := &authoring.Node{
		ID:   id,
		Kind: authoring.KindExecution,
	}
	if nb.Executor != nil {
		node.Executor = &authoring.ExecutorSpec{
			Name: nb.Executor.Name,
			Args: nb.Executor.Args,
		}
	}

	for _, in := range nb.Inputs {
		typ, err := translateType(in.Type, in.ValueKind)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Key, err)
		}
		node.Inputs = append(node.Inputs, authoring.Channel{
			Key:       in.Key,
			Producer:  in.Producer,
			OutputKey: in.OutputKey,
			External:  in.External,
			Type:      typ,
		})
	}

	outputs, err := translateOutputs(nb.Outputs)
	if err != nil {
		return nil, err
	}
	node.Outputs = outputs

	if len(nb.Params) > 0 {
		node.Params = make(map[string]any, len(nb.Params))
		for _, pb := range nb.Params {
			value, err := translateParam(pb)
			if err != nil {
				return nil, fmt.Errorf("param %q: %w", pb.Key, err)
			}
			if _, ok := node.Params[pb.Key]; ok {
				return nil, fmt.Errorf("param %q declared twice", pb.Key)
			}
			node.Params[pb.Key] = value
		}
	}

	node.PlatformConfig, err = translatePlatform(nb.Platform)
	if err != nil {
		return nil, fmt.Errorf("platform config: %w", err)
	}
	return node, nil
}

func translateResolver(id string, rb *resolverBlock) (*authoring.Node, error) {
	outputs, err := translateOutputs(rb.Outputs)
	if err != nil {
		return nil, err
	}
	config := cty.NilVal
	if rb.Config != nil {
		config = *rb.Config
	}
	platform, err := translatePlatform(rb.Platform)
	if err != nil {
		return nil, fmt.Errorf("platform config: %w", err)
	}
	return &authoring.Node{
		ID:      id,
		Kind:    authoring.KindResolver,
		Outputs: outputs,
		Resolver: &authoring.ResolverSpec{
			Strategy: rb.Strategy,
			Config:   config,
		},
		PlatformConfig: platform,
	}, nil
}

func translateImporter(id string, ib *importerBlock) (*authoring.Node, error) {
	typ, err := translateType(ib.Type, ib.ValueKind)
	if err != nil {
		return nil, err
	}
	props, err := translatePropertyMap("properties", ib.Properties)
	if err != nil {
		return nil, err
	}
	custom, err := translatePropertyMap("custom_properties", ib.CustomProperties)
	if err != nil {
		return nil, err
	}
	platform, err := translatePlatform(ib.Platform)
	if err != nil {
		return nil, fmt.Errorf("platform config: %w", err)
	}
	return &authoring.Node{
		ID:   id,
		Kind: authoring.KindImporter,
		Importer: &authoring.ImporterSpec{
			SourceURI:        ib.SourceURI,
			Type:             typ,
			Properties:       props,
			CustomProperties: custom,
			Reimport:         ib.Reimport,
			OutputKey:        ib.OutputKey,
		},
		PlatformConfig: platform,
	}, nil
}

func translateOutputs(blocks []*outputBlock) ([]authoring.OutputSpec, error) {
	var outputs []authoring.OutputSpec
	for _, out := range blocks {
		typ, err := translateType(out.Type, out.ValueKind)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", out.Key, err)
		}
		outputs = append(outputs, authoring.OutputSpec{Key: out.Key, Type: typ})
	}
	return outputs, nil
}

func translateParam(pb *paramBlock) (any, error) {
	switch {
	case pb.Value != nil && pb.RuntimeParameter != nil:
		return nil, fmt.Errorf("value and runtime_parameter are mutually exclusive")
	case pb.Value != nil:
		return *pb.Value, nil
	case pb.RuntimeParameter != nil:
		kind, err := translateValueKind(pb.RuntimeParameter.Type)
		if err != nil {
			return nil, err
		}
		if kind == "" {
			return nil, fmt.Errorf("runtime_parameter type cannot be empty")
		}
		def := cty.NilVal
		if pb.RuntimeParameter.Default != nil {
			def = *pb.RuntimeParameter.Default
		}
		return &authoring.RuntimeParameter{
			Name:    pb.RuntimeParameter.Name,
			Type:    kind,
			Default: def,
		}, nil
	default:
		return nil, fmt.Errorf("either value or runtime_parameter is required")
	}
}

func translatePropertyMap(what string, v *cty.Value) (map[string]cty.Value, error) {
	if v == nil {
		return nil, nil
	}
	t := v.Type()
	if !t.IsObjectType() && !t.IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", what, t.FriendlyName())
	}
	if v.LengthInt() == 0 {
		return nil, nil
	}
	return v.AsValueMap(), nil
}

func translateType(name, valueKind string) (ir.ArtifactType, error) {
	kind, err := translateValueKind(valueKind)
	if err != nil {
		return ir.ArtifactType{}, err
	}
	return ir.ArtifactType{Name: name, ValueKind: kind}, nil
}

func translateValueKind(s string) (ir.ValueKind, error) {
	switch ir.ValueKind(s) {
	case "", ir.ValueString, ir.ValueInt, ir.ValueFloat, ir.ValueBool:
		return ir.ValueKind(s), nil
	}
	return "", fmt.Errorf("unknown value_kind %q", s)
}

// translatePlatform serializes a free-form platform block to JSON. The
// payload is opaque to the compiler; it only needs to survive the trip into
// the IR byte-for-byte as structured data.
func translatePlatform(pb *platformBlock) (json.RawMessage, error) {
	if pb == nil {
		return nil, nil
	}
	attrs, diags := pb.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		values[name] = v
	}
	obj := cty.ObjectVal(values)
	data, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
