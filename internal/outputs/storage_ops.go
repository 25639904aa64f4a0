package outputs

import (
	"fmt"
	"path"

	"github.com/vk/pipec/internal/storage"
)

// MakeOutputDirs creates the backing storage for every resolved output
// artifact: an empty placeholder file for value artifacts (the storage
// layer does not materialize empty files implicitly) and a directory for
// everything else. On failure, storage created so far is left in place;
// cleanup is the caller's responsibility.
func MakeOutputDirs(fs storage.FS, artifacts map[string][]*Artifact) error {
	for _, list := range artifacts {
		for _, artifact := range list {
			if artifact.Type.IsValue() {
				if err := fs.MakeDirs(path.Dir(artifact.URI)); err != nil {
					return err
				}
				w, err := fs.Create(artifact.URI)
				if err != nil {
					return err
				}
				if err := w.Close(); err != nil {
					return fmt.Errorf("closing value artifact %s: %w", artifact.URI, err)
				}
			} else {
				if err := fs.MakeDirs(artifact.URI); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RemoveOutputDirs removes the backing storage of every resolved output
// artifact, branching on whether the URI currently denotes a directory or
// a file.
func RemoveOutputDirs(fs storage.FS, artifacts map[string][]*Artifact) error {
	for _, list := range artifacts {
		for _, artifact := range list {
			var err error
			if fs.IsDir(artifact.URI) {
				err = fs.RemoveTree(artifact.URI)
			} else {
				err = fs.Remove(artifact.URI)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
