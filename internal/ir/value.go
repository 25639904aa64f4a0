package ir

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Literal is a typed literal value. It wraps a cty.Value and serializes as
// a {type, value} pair so the authored type survives the wire.
type Literal struct {
	val cty.Value
}

// NewLiteral wraps a cty.Value as an IR literal.
func NewLiteral(v cty.Value) Literal {
	return Literal{val: v}
}

// StringLiteral is a convenience constructor for the common string case.
func StringLiteral(s string) Literal {
	return Literal{val: cty.StringVal(s)}
}

// Value returns the wrapped cty.Value.
func (l Literal) Value() cty.Value {
	return l.val
}

// Equal compares two literals by cty raw equality.
func (l Literal) Equal(other Literal) bool {
	return l.val.RawEquals(other.val)
}

type literalJSON struct {
	Type  json.RawMessage `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (l Literal) MarshalJSON() ([]byte, error) {
	if l.val == cty.NilVal {
		return nil, fmt.Errorf("cannot encode nil literal")
	}
	ty, err := ctyjson.MarshalType(l.val.Type())
	if err != nil {
		return nil, fmt.Errorf("encoding literal type: %w", err)
	}
	v, err := ctyjson.Marshal(l.val, l.val.Type())
	if err != nil {
		return nil, fmt.Errorf("encoding literal value: %w", err)
	}
	return json.Marshal(literalJSON{Type: ty, Value: v})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Literal) UnmarshalJSON(data []byte) error {
	var raw literalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding literal: %w", err)
	}
	ty, err := ctyjson.UnmarshalType(raw.Type)
	if err != nil {
		return fmt.Errorf("decoding literal type: %w", err)
	}
	v, err := ctyjson.Unmarshal(raw.Value, ty)
	if err != nil {
		return fmt.Errorf("decoding literal value: %w", err)
	}
	l.val = v
	return nil
}

// Value is the lowered form of an execution-property value: exactly one of
// the three fields is set.
type Value struct {
	// Literal is a concrete value known at compile time.
	Literal *Literal `json:"literal,omitempty"`
	// RuntimeParameter defers the value to run submission time.
	RuntimeParameter *RuntimeParameter `json:"runtimeParameter,omitempty"`
	// Placeholder defers the value to execution time.
	Placeholder *Expression `json:"placeholder,omitempty"`
}

// RuntimeParameter is a named, typed value supplied when a run is launched
// rather than when the pipeline is compiled.
type RuntimeParameter struct {
	Name    string    `json:"name"`
	Type    ValueKind `json:"type"`
	Default *Literal  `json:"default,omitempty"`
}
