// Package placeholder builds deferred-value expressions for IR fields whose
// values only exist at execution time: artifact URIs, artifact values and
// execution properties.
//
// A Placeholder is a mutable builder with fluent chaining: every method
// appends an operator to the handle's operator list and returns the same
// handle. Ownership is strictly local to the authoring call site; sharing
// one handle across goroutines is not supported. Encode is side-effect free
// and may be called repeatedly.
//
// Operator combinations are not validated at build time. Asking for the
// value of a non-primitive artifact, or a field path on an artifact
// placeholder, produces a well-formed expression that fails only when the
// execution engine resolves it against real artifacts.
package placeholder

import "github.com/vk/pipec/internal/ir"

// Placeholder is a handle bound to one leaf reference, accumulating
// operators to apply on top of it.
type Placeholder struct {
	kind ir.PlaceholderKind
	key  string
	ops  []operator
}

// Input returns a placeholder referencing the input artifact at key.
func Input(key string) *Placeholder {
	return &Placeholder{kind: ir.InputArtifact, key: key}
}

// Output returns a placeholder referencing the output artifact at key.
func Output(key string) *Placeholder {
	return &Placeholder{kind: ir.OutputArtifact, key: key}
}

// ExecProperty returns a placeholder referencing the execution property at
// key.
func ExecProperty(key string) *Placeholder {
	return &Placeholder{kind: ir.ExecProperty, key: key}
}

// AtIndex selects one artifact when multiple artifacts share the key.
func (p *Placeholder) AtIndex(i int) *Placeholder {
	p.ops = append(p.ops, indexOp{index: i})
	return p
}

// URI extracts the artifact's URI. Meaningful on artifact placeholders only.
func (p *Placeholder) URI() *Placeholder {
	p.ops = append(p.ops, artifactURIOp{})
	return p
}

// URIForSplit extracts the URI of one named split of the artifact.
func (p *Placeholder) URIForSplit(split string) *Placeholder {
	p.ops = append(p.ops, artifactURIOp{split: split})
	return p
}

// Value extracts the value of a primitive artifact.
func (p *Placeholder) Value() *Placeholder {
	p.ops = append(p.ops, artifactValueOp{})
	return p
}

// Field projects a field path into a structured execution property.
// Consecutive Field calls accumulate into one dotted path rather than
// nesting operators: ExecProperty("cfg").Field("num_layers").Field("count")
// projects "num_layers.count".
func (p *Placeholder) Field(name string) *Placeholder {
	if n := len(p.ops); n > 0 {
		if fp, ok := p.ops[n-1].(*protoFieldPathOp); ok {
			fp.path += "." + name
			return p
		}
	}
	p.ops = append(p.ops, &protoFieldPathOp{path: name})
	return p
}

// Concat appends another placeholder's rendered form to this one's.
func (p *Placeholder) Concat(other *Placeholder) *Placeholder {
	p.ops = append(p.ops, concatOp{other: other})
	return p
}

// ConcatText appends a literal string to this placeholder's rendered form.
func (p *Placeholder) ConcatText(text string) *Placeholder {
	p.ops = append(p.ops, concatOp{text: &text})
	return p
}

// Encode renders the expression tree, applying operators in attachment
// order from the leaf outward. It does not modify the placeholder, so
// repeated calls yield structurally identical trees.
func (p *Placeholder) Encode() *ir.Expression {
	expr := &ir.Expression{
		Placeholder: &ir.PlaceholderRef{Kind: p.kind, Key: p.key},
	}
	for _, op := range p.ops {
		expr = op.encode(expr)
	}
	return expr
}

// operator wraps a sub-expression in one IR operator node.
type operator interface {
	encode(sub *ir.Expression) *ir.Expression
}

type artifactURIOp struct {
	split string
}

func (o artifactURIOp) encode(sub *ir.Expression) *ir.Expression {
	return &ir.Expression{Operator: &ir.Operator{
		ArtifactURI: &ir.ArtifactURIOp{Expr: sub, Split: o.split},
	}}
}

type artifactValueOp struct{}

func (o artifactValueOp) encode(sub *ir.Expression) *ir.Expression {
	return &ir.Expression{Operator: &ir.Operator{
		ArtifactValue: &ir.ArtifactValueOp{Expr: sub},
	}}
}

type indexOp struct {
	index int
}

func (o indexOp) encode(sub *ir.Expression) *ir.Expression {
	return &ir.Expression{Operator: &ir.Operator{
		Index: &ir.IndexOp{Expr: sub, Index: o.index},
	}}
}

type protoFieldPathOp struct {
	path string
}

func (o *protoFieldPathOp) encode(sub *ir.Expression) *ir.Expression {
	return &ir.Expression{Operator: &ir.Operator{
		ProtoFieldPath: &ir.ProtoFieldPathOp{Expr: sub, Path: o.path},
	}}
}

type concatOp struct {
	other *Placeholder
	text  *string
}

func (o concatOp) encode(sub *ir.Expression) *ir.Expression {
	var operand *ir.Expression
	if o.other != nil {
		operand = o.other.Encode()
	} else {
		lit := ir.StringLiteral(*o.text)
		operand = &ir.Expression{Literal: &lit}
	}

	// Extend an existing concat instead of nesting, so chained
	// concatenations stay one flat operand list. The sub-expression is
	// freshly built by this Encode call, so mutating it is safe.
	if sub.Operator != nil && sub.Operator.Concat != nil {
		sub.Operator.Concat.Exprs = append(sub.Operator.Concat.Exprs, operand)
		return sub
	}
	return &ir.Expression{Operator: &ir.Operator{
		Concat: &ir.ConcatOp{Exprs: []*ir.Expression{sub, operand}},
	}}
}
