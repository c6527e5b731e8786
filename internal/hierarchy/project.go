package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProjectPatch applies only the fields that are set; nil fields keep their
// stored values.
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *Service) CreateProject(ctx context.Context, ownerID string, in CreateProjectInput) (*models.Project, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	// Pre-check so the caller gets DuplicateName instead of a raw constraint
	// error; the unique index still closes the race window.
	if _, err := s.store.Projects.GetByName(ctx, ownerID, in.Name); err == nil {
		return nil, store.ErrDuplicateName
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check project name: %w", err)
	}

	p := &models.Project{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Projects.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, ownerID string, id uuid.UUID) (*models.Project, error) {
	return s.store.Projects.Get(ctx, id, ownerID)
}

func (s *Service) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	return s.store.Projects.ListByOwner(ctx, ownerID)
}

func (s *Service) UpdateProject(ctx context.Context, ownerID string, id uuid.UUID, patch ProjectPatch) (*models.Project, error) {
	p, err := s.store.Projects.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != p.Name {
		if *patch.Name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		if existing, err := s.store.Projects.GetByName(ctx, ownerID, *patch.Name); err == nil && existing.ID != id {
			return nil, store.ErrDuplicateName
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check project name: %w", err)
		}
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}

	if err := s.store.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
