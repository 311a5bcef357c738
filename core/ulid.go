// ABOUTME: ULID generation helper using crypto/rand entropy.
// ABOUTME: Centralizes ID creation so specs and work items share one source.
package core

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID using crypto/rand entropy.
func NewULID() ulid.ULID {
	return ulid.MustNew(ulid.Now(), rand.Reader)
}
