package compiler

import (
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pipec/internal/authoring"
	"github.com/vk/pipec/internal/ir"
	"github.com/vk/pipec/internal/placeholder"
)

// defaultImporterOutputKey is the channel key downstream bindings use when
// an importer does not name one.
const defaultImporterOutputKey = "result"

func compileNode(node *authoring.Node, producers map[string]map[string]ir.ArtifactType) (*ir.Node, error) {
	switch node.Kind {
	case authoring.KindExecution:
		return compileExecutionNode(node, producers)
	case authoring.KindResolver:
		return compileResolverNode(node, producers)
	case authoring.KindImporter:
		return compileImporterNode(node)
	default:
		return nil, errf(node.ID, "unknown node kind %q", node.Kind)
	}
}

func compileExecutionNode(node *authoring.Node, producers map[string]map[string]ir.ArtifactType) (*ir.Node, error) {
	if node.Executor == nil || node.Executor.Name == "" {
		return nil, errf(node.ID, "execution node requires an executor spec")
	}

	inputs, upstream, err := compileInputs(node, producers)
	if err != nil {
		return nil, err
	}
	outputs, err := compileOutputs(node)
	if err != nil {
		return nil, err
	}
	params, err := compileParams(node)
	if err != nil {
		return nil, err
	}

	return &ir.Node{
		Kind:       ir.KindExecution,
		Info:       ir.NodeInfo{ID: node.ID, TypeName: node.Executor.Name},
		Inputs:     inputs,
		Outputs:    outputs,
		Parameters: params,
		Upstream:   upstream,
		Executor: &ir.ExecutorSpec{
			Name: node.Executor.Name,
			Args: append([]string(nil), node.Executor.Args...),
		},
		PlatformConfig: node.PlatformConfig,
	}, nil
}

func compileResolverNode(node *authoring.Node, producers map[string]map[string]ir.ArtifactType) (*ir.Node, error) {
	if node.Resolver == nil || node.Resolver.Strategy == "" {
		return nil, errf(node.ID, "resolver node requires a resolution strategy")
	}
	if node.Executor != nil {
		return nil, errf(node.ID, "resolver node cannot carry an executor spec")
	}

	inputs, upstream, err := compileInputs(node, producers)
	if err != nil {
		return nil, err
	}
	outputs, err := compileOutputs(node)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, errf(node.ID, "resolver node must declare at least one output")
	}
	params, err := compileParams(node)
	if err != nil {
		return nil, err
	}

	spec := &ir.ResolverSpec{Strategy: node.Resolver.Strategy}
	if node.Resolver.Config != cty.NilVal {
		lit := ir.NewLiteral(node.Resolver.Config)
		spec.Config = &lit
	}

	return &ir.Node{
		Kind:           ir.KindResolver,
		Info:           ir.NodeInfo{ID: node.ID},
		Inputs:         inputs,
		Outputs:        outputs,
		Parameters:     params,
		Upstream:       upstream,
		Resolver:       spec,
		PlatformConfig: node.PlatformConfig,
	}, nil
}

func compileImporterNode(node *authoring.Node) (*ir.Node, error) {
	if node.Importer == nil || node.Importer.SourceURI == "" {
		return nil, errf(node.ID, "importer node requires a source URI")
	}
	if node.Importer.Type.Name == "" {
		return nil, errf(node.ID, "importer node requires an artifact type")
	}
	if len(node.Inputs) > 0 {
		return nil, errf(node.ID, "importer node cannot declare inputs")
	}
	if len(node.Outputs) > 0 {
		return nil, errf(node.ID, "importer node output is implied by its artifact type")
	}
	if node.Executor != nil {
		return nil, errf(node.ID, "importer node cannot carry an executor spec")
	}

	outputKey := node.Importer.OutputKey
	if outputKey == "" {
		outputKey = defaultImporterOutputKey
	}

	spec := &ir.ImporterSpec{
		SourceURI:        node.Importer.SourceURI,
		Type:             node.Importer.Type,
		Properties:       lowerPropertyMap(node.Importer.Properties),
		CustomProperties: lowerPropertyMap(node.Importer.CustomProperties),
		Reimport:         node.Importer.Reimport,
		OutputKey:        outputKey,
	}

	return &ir.Node{
		Kind: ir.KindImporter,
		Info: ir.NodeInfo{ID: node.ID},
		Outputs: []*ir.OutputSpec{
			{Key: outputKey, Type: node.Importer.Type},
		},
		Importer:       spec,
		PlatformConfig: node.PlatformConfig,
	}, nil
}

// compileInputs lowers channel bindings into input specs and derives the
// upstream dependency edge set.
func compileInputs(node *authoring.Node, producers map[string]map[string]ir.ArtifactType) ([]*ir.InputSpec, []string, error) {
	if len(node.Inputs) == 0 {
		return nil, nil, nil
	}

	inputs := make([]*ir.InputSpec, 0, len(node.Inputs))
	upstreamSet := make(map[string]struct{})
	seenKeys := make(map[string]struct{}, len(node.Inputs))

	for _, ch := range node.Inputs {
		if ch.Key == "" {
			return nil, nil, errf(node.ID, "input channel with empty key")
		}
		if _, dup := seenKeys[ch.Key]; dup {
			return nil, nil, errf(node.ID, "duplicate input key %q", ch.Key)
		}
		seenKeys[ch.Key] = struct{}{}

		if ch.External != "" {
			if ch.Producer != "" {
				return nil, nil, errf(node.ID, "input %q binds both a producer and an external source", ch.Key)
			}
			inputs = append(inputs, &ir.InputSpec{Key: ch.Key, External: ch.External, Type: ch.Type})
			continue
		}
		if ch.Producer == "" {
			return nil, nil, errf(node.ID, "input %q binds neither a producer nor an external source", ch.Key)
		}

		prodOutputs, ok := producers[ch.Producer]
		if !ok {
			return nil, nil, errf(node.ID, "input %q references producer %q, which is not declared earlier in the pipeline", ch.Key, ch.Producer)
		}
		typ, ok := prodOutputs[ch.OutputKey]
		if !ok {
			return nil, nil, errf(node.ID, "input %q references output %q, which producer %q does not declare", ch.Key, ch.OutputKey, ch.Producer)
		}
		if ch.Type.Name != "" && ch.Type != typ {
			return nil, nil, errf(node.ID, "input %q declares type %q but producer %q emits %q", ch.Key, ch.Type.Name, ch.Producer, typ.Name)
		}

		inputs = append(inputs, &ir.InputSpec{
			Key:       ch.Key,
			Producer:  ch.Producer,
			OutputKey: ch.OutputKey,
			Type:      typ,
		})
		upstreamSet[ch.Producer] = struct{}{}
	}

	upstream := make([]string, 0, len(upstreamSet))
	for id := range upstreamSet {
		upstream = append(upstream, id)
	}
	sort.Strings(upstream)
	if len(upstream) == 0 {
		upstream = nil
	}
	return inputs, upstream, nil
}

func compileOutputs(node *authoring.Node) ([]*ir.OutputSpec, error) {
	if len(node.Outputs) == 0 {
		return nil, nil
	}
	outputs := make([]*ir.OutputSpec, 0, len(node.Outputs))
	seen := make(map[string]struct{}, len(node.Outputs))
	for _, out := range node.Outputs {
		if out.Key == "" {
			return nil, errf(node.ID, "output spec with empty key")
		}
		if _, dup := seen[out.Key]; dup {
			return nil, errf(node.ID, "duplicate output key %q", out.Key)
		}
		seen[out.Key] = struct{}{}
		if out.Type.Name == "" {
			return nil, errf(node.ID, "output %q has no artifact type", out.Key)
		}
		outputs = append(outputs, &ir.OutputSpec{Key: out.Key, Type: out.Type})
	}
	return outputs, nil
}

// compileParams lowers execution properties into typed IR values, sorted by
// key for deterministic IR comparison.
func compileParams(node *authoring.Node) ([]*ir.Parameter, error) {
	if len(node.Params) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(node.Params))
	for key := range node.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	params := make([]*ir.Parameter, 0, len(keys))
	for _, key := range keys {
		value, err := lowerValue(node.ID, key, node.Params[key])
		if err != nil {
			return nil, err
		}
		params = append(params, &ir.Parameter{Key: key, Value: value})
	}
	return params, nil
}

// lowerValue translates one execution-property value into its IR form.
func lowerValue(nodeID, key string, raw any) (*ir.Value, error) {
	switch v := raw.(type) {
	case *placeholder.Placeholder:
		if v == nil {
			return nil, errf(nodeID, "execution property %q is a nil placeholder", key)
		}
		return &ir.Value{Placeholder: v.Encode()}, nil

	case *authoring.RuntimeParameter:
		if v == nil {
			return nil, errf(nodeID, "execution property %q is a nil runtime parameter", key)
		}
		name := v.Name
		if name == "" {
			name = key
		}
		if v.Type == "" {
			return nil, errf(nodeID, "runtime parameter %q has no type", name)
		}
		rp := &ir.RuntimeParameter{Name: name, Type: v.Type}
		if v.Default != cty.NilVal {
			lit := ir.NewLiteral(v.Default)
			rp.Default = &lit
		}
		return &ir.Value{RuntimeParameter: rp}, nil

	case cty.Value:
		if v == cty.NilVal {
			return nil, errf(nodeID, "execution property %q has a nil value", key)
		}
		lit := ir.NewLiteral(v)
		return &ir.Value{Literal: &lit}, nil

	case string:
		lit := ir.StringLiteral(v)
		return &ir.Value{Literal: &lit}, nil
	case bool:
		lit := ir.NewLiteral(cty.BoolVal(v))
		return &ir.Value{Literal: &lit}, nil
	case int:
		lit := ir.NewLiteral(cty.NumberIntVal(int64(v)))
		return &ir.Value{Literal: &lit}, nil
	case int64:
		lit := ir.NewLiteral(cty.NumberIntVal(v))
		return &ir.Value{Literal: &lit}, nil
	case float64:
		lit := ir.NewLiteral(cty.NumberFloatVal(v))
		return &ir.Value{Literal: &lit}, nil

	default:
		return nil, errf(nodeID, "execution property %q has unsupported type %T", key, raw)
	}
}

func lowerPropertyMap(props map[string]cty.Value) map[string]ir.Literal {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]ir.Literal, len(props))
	for key, val := range props {
		out[key] = ir.NewLiteral(val)
	}
	return out
}
