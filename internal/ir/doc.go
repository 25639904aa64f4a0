// Package ir defines the compiled pipeline representation exchanged with
// execution engines.
//
// The IR is a plain, strongly-typed message graph: one Pipeline holding an
// ordered list of Nodes, each with channel specs, lowered execution
// parameters and an executor, resolver or importer spec. Canonical JSON is
// the wire encoding; field names and nesting are part of the compatibility
// surface and round-trip losslessly through Encode/Decode. A YAML rendering
// of the same document is available for human review, and an embedded JSON
// Schema backs structural validation of untrusted documents.
//
// Values in the IR are cty-backed so that execution properties keep their
// authored types (string, number, bool, lists, objects) on the wire instead
// of degrading to strings.
package ir
