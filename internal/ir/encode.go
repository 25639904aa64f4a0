package ir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode renders the pipeline as canonical, indented JSON. The document
// always carries the current schema version.
func Encode(p *Pipeline) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot encode nil pipeline")
	}
	doc := *p
	doc.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding pipeline %q: %w", p.Info.ID, err)
	}
	return append(data, '\n'), nil
}

// Decode parses a canonical JSON IR document. Documents from a different
// schema version are rejected.
func Decode(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding pipeline document: %w", err)
	}
	if p.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported IR schema version %d (want %d)", p.SchemaVersion, SchemaVersion)
	}
	return &p, nil
}

// EncodeYAML renders the pipeline as YAML for human review. The YAML form
// is derived from the canonical JSON document, so field names and order are
// identical in both encodings.
func EncodeYAML(p *Pipeline) ([]byte, error) {
	data, err := Encode(p)
	if err != nil {
		return nil, err
	}
	// Decoding the JSON into a yaml.Node keeps document order; decoding
	// into a Go map would randomize it.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("re-reading pipeline document: %w", err)
	}
	// JSON parses as flow-style YAML; clear the styles so the encoder
	// emits ordinary block YAML.
	clearStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encoding pipeline YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}
