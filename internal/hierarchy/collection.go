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

type CreateCollectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CollectionPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *Service) CreateCollection(ctx context.Context, ownerID string, projectID uuid.UUID, in CreateCollectionInput) (*models.Collection, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	// Parent must exist and belong to the caller; the owner id stored on the
	// collection is denormalized from this check.
	if _, err := s.store.Projects.Get(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	if _, err := s.store.Collections.GetByName(ctx, projectID, in.Name); err == nil {
		return nil, store.ErrDuplicateName
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check collection name: %w", err)
	}

	c := &models.Collection{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		ProjectID:   projectID,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Collections.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCollection(ctx context.Context, ownerID string, id uuid.UUID) (*models.Collection, error) {
	return s.store.Collections.Get(ctx, id, ownerID)
}

func (s *Service) ListCollections(ctx context.Context, ownerID string, projectID uuid.UUID) ([]models.Collection, error) {
	if _, err := s.store.Projects.Get(ctx, projectID, ownerID); err != nil {
		return nil, err
	}
	return s.store.Collections.ListByProject(ctx, projectID, ownerID)
}

func (s *Service) UpdateCollection(ctx context.Context, ownerID string, id uuid.UUID, patch CollectionPatch) (*models.Collection, error) {
	c, err := s.store.Collections.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != c.Name {
		if *patch.Name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		if existing, err := s.store.Collections.GetByName(ctx, c.ProjectID, *patch.Name); err == nil && existing.ID != id {
			return nil, store.ErrDuplicateName
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check collection name: %w", err)
		}
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}

	now := time.Now().UTC()
	c.UpdatedAt = &now

	if err := s.store.Collections.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
