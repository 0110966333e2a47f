package identity

import (
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// ContactEntry is one (canonical number, display name) pair from the local
// contact directory.
type ContactEntry struct {
	Number values.CanonicalNumber `json:"number"`
	Name   string                 `json:"name"`
}
