package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node in a collection's folder tree. ParentFolderID is nil for
// roots; a non-nil parent always belongs to the same collection. Subfolder and
// prompt ids are kept on the folder itself so a subtree can be walked without
// extra queries.
type Folder struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	CollectionID   uuid.UUID   `json:"collection_id" db:"collection_id"`
	ProjectID      uuid.UUID   `json:"project_id" db:"project_id"`
	ParentFolderID *uuid.UUID  `json:"parent_folder_id,omitempty" db:"parent_folder_id"`
	OwnerID        string      `json:"owner_id" db:"owner_id"`
	SubfolderIDs   []uuid.UUID `json:"subfolder_ids" db:"subfolder_ids"`
	PromptIDs      []uuid.UUID `json:"prompt_ids" db:"prompt_ids"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}
