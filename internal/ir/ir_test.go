package ir

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// literalComparer lets go-cmp diff structures containing Literal values.
var literalComparer = cmp.Comparer(func(a, b Literal) bool {
	return a.Equal(b)
})

// rawJSONComparer compares raw platform config blobs by JSON value, since
// re-encoding may change whitespace but never content.
var rawJSONComparer = cmp.Comparer(func(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	var x, y any
	if err := json.Unmarshal(a, &x); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &y); err != nil {
		return false
	}
	return cmp.Equal(x, y)
})

func testPipeline() *Pipeline {
	return &Pipeline{
		Info:        PipelineInfo{ID: "iris"},
		Root:        "workspace/pipelines/iris",
		EnableCache: true,
		BackendArgs: []string{"--runner=local"},
		Nodes: []*Node{
			{
				Kind: KindExecution,
				Info: NodeInfo{ID: "example-gen", TypeName: "CsvExampleGen"},
				Inputs: []*InputSpec{
					{Key: "data", External: "workspace/data_path", Type: ArtifactType{Name: "ExternalPath"}},
				},
				Outputs: []*OutputSpec{
					{Key: "examples", Type: ArtifactType{Name: "Examples"}},
				},
				Executor: &ExecutorSpec{Name: "CsvExampleGen"},
			},
			{
				Kind: KindExecution,
				Info: NodeInfo{ID: "trainer", TypeName: "Trainer"},
				Inputs: []*InputSpec{
					{Key: "examples", Producer: "example-gen", OutputKey: "examples", Type: ArtifactType{Name: "Examples"}},
				},
				Outputs: []*OutputSpec{
					{Key: "model", Type: ArtifactType{Name: "Model"}},
					{Key: "accuracy", Type: ArtifactType{Name: "Metric", ValueKind: ValueFloat}},
				},
				Parameters: []*Parameter{
					{Key: "module_file", Value: &Value{RuntimeParameter: &RuntimeParameter{
						Name: "module_file",
						Type: ValueString,
						Default: literalPtr(cty.StringVal("iris_utils.go")),
					}}},
					{Key: "num_steps", Value: &Value{Literal: literalPtr(cty.NumberIntVal(2000))}},
				},
				Upstream: []string{"example-gen"},
				Executor: &ExecutorSpec{Name: "Trainer", Args: []string{"--generic"}},
				PlatformConfig: json.RawMessage(`{"num_workers":4}`),
			},
			{
				Kind:     KindResolver,
				Info:     NodeInfo{ID: "latest-model"},
				Outputs:  []*OutputSpec{{Key: "model", Type: ArtifactType{Name: "Model"}}},
				Resolver: &ResolverSpec{Strategy: "latest_blessed_model"},
			},
			{
				Kind: KindImporter,
				Info: NodeInfo{ID: "my-importer"},
				Outputs: []*OutputSpec{
					{Key: "result", Type: ArtifactType{Name: "Examples"}},
				},
				Importer: &ImporterSpec{
					SourceURI: "m/y/u/r/i",
					Type:      ArtifactType{Name: "Examples"},
					Properties: map[string]Literal{
						"split_names": StringLiteral("['train', 'eval']"),
					},
					CustomProperties: map[string]Literal{
						"int_custom_property": NewLiteral(cty.NumberIntVal(42)),
					},
					OutputKey: "result",
				},
			},
		},
	}
}

func literalPtr(v cty.Value) *Literal {
	l := NewLiteral(v)
	return &l
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := testPipeline()

	data, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	want := testPipeline()
	want.SchemaVersion = SchemaVersion
	if diff := cmp.Diff(want, decoded, literalComparer, rawJSONComparer); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := Encode(testPipeline())
	require.NoError(t, err)
	b, err := Encode(testPipeline())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	_, err := Decode([]byte(`{"schemaVersion": 99, "info": {"id": "p"}, "root": "r", "nodes": []}`))
	assert.ErrorContains(t, err, "unsupported IR schema version 99")
}

func TestLiteralRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		val  cty.Value
	}{
		{"string", cty.StringVal("hello")},
		{"int", cty.NumberIntVal(42)},
		{"float", cty.NumberFloatVal(0.75)},
		{"bool", cty.True},
		{"list", cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})},
		{"object", cty.ObjectVal(map[string]cty.Value{
			"num_layers": cty.NumberIntVal(3),
			"activation": cty.StringVal("relu"),
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(NewLiteral(tc.val))
			require.NoError(t, err)

			var got Literal
			require.NoError(t, json.Unmarshal(data, &got))
			assert.True(t, got.Value().RawEquals(tc.val), "got %#v, want %#v", got.Value(), tc.val)
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	out, err := EncodeYAML(testPipeline())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "schemaVersion: 1")
	assert.Contains(t, text, "id: iris")
	assert.Contains(t, text, "kind: importer")
	// YAML and JSON renderings must agree on field names.
	assert.Contains(t, text, "outputKey: result")
}

func TestValidateDocument(t *testing.T) {
	t.Run("accepts encoded pipeline", func(t *testing.T) {
		data, err := Encode(testPipeline())
		require.NoError(t, err)
		assert.NoError(t, ValidateDocument(data))
	})

	t.Run("rejects missing executor on execution node", func(t *testing.T) {
		doc := []byte(`{
			"schemaVersion": 1,
			"info": {"id": "p"},
			"root": "r",
			"nodes": [{"kind": "execution", "info": {"id": "a"}}]
		}`)
		assert.Error(t, ValidateDocument(doc))
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		doc := []byte(`{"schemaVersion": 1, "info": {"id": "p"}, "root": "r", "nodes": [], "bogus": true}`)
		assert.Error(t, ValidateDocument(doc))
	})

	t.Run("rejects non-JSON input", func(t *testing.T) {
		assert.Error(t, ValidateDocument([]byte("not json")))
	})
}
