// Package store defines the persistence handle the core services are
// constructed with. Implementations live in store/postgres (production) and
// store/memory (tests). Every read and delete is scoped by owner id; an owner
// mismatch surfaces as ErrNotFound so callers cannot probe for other owners'
// entities.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

var (
	// ErrNotFound covers both a missing record and an owner mismatch.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a name-uniqueness rule is violated,
	// either by the pre-check or by the backing unique index.
	ErrDuplicateName = errors.New("name already exists")
)

// Store bundles the per-entity stores into the single handle passed to
// services.
type Store struct {
	Projects    ProjectStore
	Collections CollectionStore
	Folders     FolderStore
	Prompts     PromptStore
	History     HistoryStore
	Models      ModelStore
}

type ProjectStore interface {
	Insert(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Project, error)
	GetByName(ctx context.Context, ownerID, name string) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

type CollectionStore interface {
	Insert(ctx context.Context, c *models.Collection) error
	Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Collection, error)
	GetByName(ctx context.Context, projectID uuid.UUID, name string) (*models.Collection, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, ownerID string) ([]models.Collection, error)
	Update(ctx context.Context, c *models.Collection) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

type FolderStore interface {
	Insert(ctx context.Context, f *models.Folder) error
	Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Folder, error)
	ListRoots(ctx context.Context, collectionID uuid.UUID, ownerID string) ([]models.Folder, error)
	ListByCollection(ctx context.Context, collectionID uuid.UUID, ownerID string) ([]models.Folder, error)
	Update(ctx context.Context, f *models.Folder) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

type PromptStore interface {
	Insert(ctx context.Context, p *models.Prompt) error
	Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Prompt, error)
	GetByTitle(ctx context.Context, projectID uuid.UUID, title, ownerID string) (*models.Prompt, error)
	ListByCollection(ctx context.Context, collectionID uuid.UUID, ownerID string) ([]models.Prompt, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, ownerID string) ([]models.Prompt, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Prompt, error)
	Update(ctx context.Context, p *models.Prompt) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

type HistoryStore interface {
	Insert(ctx context.Context, e *models.HistoryEntry) error
	// ListByPrompt returns entries newest-first.
	ListByPrompt(ctx context.Context, promptID uuid.UUID) ([]models.HistoryEntry, error)
	// DeleteByPrompt removes every entry for the prompt and reports how many
	// rows went away.
	DeleteByPrompt(ctx context.Context, promptID uuid.UUID) (int, error)
}

type ModelStore interface {
	Upsert(ctx context.Context, m *models.LLMModel) error
	GetByName(ctx context.Context, name string) (*models.LLMModel, error)
	List(ctx context.Context, activeOnly bool) ([]models.LLMModel, error)
	ListByProvider(ctx context.Context, provider models.Provider) ([]models.LLMModel, error)
}
