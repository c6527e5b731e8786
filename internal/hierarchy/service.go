// Package hierarchy implements the ownership-scoped store operations for the
// project → collection → folder → prompt tree. Every operation takes the
// caller's owner id and resolves records through owner-scoped store reads, so
// an entity belonging to someone else is indistinguishable from a missing one.
package hierarchy

import (
	"fmt"

	"github.com/college-predictor/prompt-manager-be/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// ValidationError reports a malformed or inconsistent request field, e.g. a
// parent folder from a different collection.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
