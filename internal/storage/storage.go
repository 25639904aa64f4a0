// Package storage defines the narrow filesystem abstraction consumed by
// output resolution. Artifact URIs are only ever touched through this
// interface, never through raw os calls in the callers.
package storage

import "io"

// FS is the contract between output resolution and the backing store.
// Implementations must surface the failing operation and path in returned
// errors (os-backed implementations get this from *os.PathError).
type FS interface {
	// MakeDirs creates the directory at path along with any missing
	// parents. It succeeds if the directory already exists.
	MakeDirs(path string) error

	// Create opens a writable handle at path, truncating any existing
	// file. The parent directory must already exist.
	Create(path string) (io.WriteCloser, error)

	// IsDir reports whether path currently denotes a directory. A path
	// that does not exist is not a directory.
	IsDir(path string) bool

	// RemoveTree removes path and everything below it.
	RemoveTree(path string) error

	// Remove removes the single file at path.
	Remove(path string) error
}
