package ir

// PlaceholderKind identifies what a placeholder expression leaf refers to.
type PlaceholderKind string

const (
	InputArtifact  PlaceholderKind = "INPUT_ARTIFACT"
	OutputArtifact PlaceholderKind = "OUTPUT_ARTIFACT"
	ExecProperty   PlaceholderKind = "EXEC_PROPERTY"
)

// Expression is one node of a placeholder expression tree. Exactly one of
// the three fields is set: a placeholder leaf, a literal operand, or an
// operator wrapping sub-expressions. The execution engine resolves the tree
// from the leaves outward against the node's real inputs, outputs and
// execution properties.
type Expression struct {
	Placeholder *PlaceholderRef `json:"placeholder,omitempty"`
	Literal     *Literal        `json:"literal,omitempty"`
	Operator    *Operator       `json:"operator,omitempty"`
}

// PlaceholderRef is a leaf referencing one input artifact, output artifact
// or execution property by key.
type PlaceholderRef struct {
	Kind PlaceholderKind `json:"kind"`
	Key  string          `json:"key"`
}

// Operator holds exactly one of the operator variants.
type Operator struct {
	ArtifactURI    *ArtifactURIOp    `json:"artifactUri,omitempty"`
	ArtifactValue  *ArtifactValueOp  `json:"artifactValue,omitempty"`
	Index          *IndexOp          `json:"index,omitempty"`
	Concat         *ConcatOp         `json:"concat,omitempty"`
	ProtoFieldPath *ProtoFieldPathOp `json:"protoFieldPath,omitempty"`
}

// ArtifactURIOp extracts the URI of an artifact sub-expression, optionally
// narrowed to a named split.
type ArtifactURIOp struct {
	Expr  *Expression `json:"expr"`
	Split string      `json:"split,omitempty"`
}

// ArtifactValueOp extracts the value of a primitive artifact sub-expression.
type ArtifactValueOp struct {
	Expr *Expression `json:"expr"`
}

// IndexOp selects one artifact from a multi-artifact sub-expression.
type IndexOp struct {
	Expr  *Expression `json:"expr"`
	Index int         `json:"index"`
}

// ConcatOp joins the rendered forms of its operands. Concat trees are kept
// flat: builders extend an existing operand list instead of nesting.
type ConcatOp struct {
	Exprs []*Expression `json:"exprs"`
}

// ProtoFieldPathOp projects a dotted field path into a structured execution
// property. Repeated projections accumulate into a single dotted path.
type ProtoFieldPathOp struct {
	Expr *Expression `json:"expr"`
	Path string      `json:"path"`
}
