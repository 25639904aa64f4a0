package compiler

import "fmt"

// Error is a compilation failure: the authored graph is malformed or
// inconsistent. Compilation is all-or-nothing, so an Error always means no
// IR was produced.
type Error struct {
	// NodeID names the offending node; empty for pipeline-level problems.
	NodeID string
	// Reason describes the specific structural violation.
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("pipeline compilation failed: %s", e.Reason)
	}
	return fmt.Sprintf("compiling node %q: %s", e.NodeID, e.Reason)
}

func errf(nodeID, format string, args ...any) *Error {
	return &Error{NodeID: nodeID, Reason: fmt.Sprintf(format, args...)}
}
