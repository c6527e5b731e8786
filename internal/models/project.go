package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is the root of an owner's prompt hierarchy. Names are unique per
// owner (enforced by a unique index on (owner_id, name)).
type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
