// Package runid mints pipeline run identifiers.
package runid

import "github.com/google/uuid"

// New returns a fresh run id. Run ids only need to be stable for the
// lifetime of one run and unique across runs; a random UUID satisfies
// both.
func New() string {
	return uuid.NewString()
}
