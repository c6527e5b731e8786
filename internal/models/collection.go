package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection groups folders and prompts inside a project. The owner id is
// denormalized from the project so every read can be ownership-checked without
// resolving the parent chain.
type Collection struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	ProjectID   uuid.UUID  `json:"project_id" db:"project_id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
