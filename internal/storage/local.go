package storage

import (
	"io"
	"os"
)

// Local implements FS on top of the local filesystem.
type Local struct{}

// NewLocal creates a local filesystem implementation of FS.
func NewLocal() *Local {
	return &Local{}
}

// MakeDirs implements FS.
func (l *Local) MakeDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Create implements FS.
func (l *Local) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// IsDir implements FS.
func (l *Local) IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RemoveTree implements FS.
func (l *Local) RemoveTree(path string) error {
	return os.RemoveAll(path)
}

// Remove implements FS.
func (l *Local) Remove(path string) error {
	return os.Remove(path)
}
