package ir

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed pipeline.schema.json
var pipelineSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("pipeline.schema.json", pipelineSchemaJSON)
	})
	return schema, schemaErr
}

// ValidateDocument checks a raw IR document against the embedded pipeline
// schema. It reports structural violations only; referential consistency
// between nodes is the compiler's concern.
func ValidateDocument(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling embedded pipeline schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing pipeline document: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("pipeline document is not valid IR: %w", err)
	}
	return nil
}
