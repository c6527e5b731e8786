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

type CreatePromptInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Body        models.MessageMap    `json:"body"`
	Config      *models.TuningParams `json:"config,omitempty"`
	ModelName   string               `json:"model_name,omitempty"`
	FolderID    *uuid.UUID           `json:"folder_id,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
}

func (s *Service) CreatePrompt(ctx context.Context, ownerID string, collectionID uuid.UUID, in CreatePromptInput) (*models.Prompt, error) {
	if in.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(in.Body) == 0 {
		return nil, &ValidationError{Field: "body", Reason: "must contain at least one role"}
	}

	coll, err := s.store.Collections.Get(ctx, collectionID, ownerID)
	if err != nil {
		return nil, err
	}

	var folder *models.Folder
	if in.FolderID != nil {
		folder, err = s.store.Folders.Get(ctx, *in.FolderID, ownerID)
		if err != nil {
			return nil, &ValidationError{Field: "folder_id", Reason: "folder does not exist"}
		}
		if folder.CollectionID != collectionID {
			return nil, &ValidationError{Field: "folder_id", Reason: "folder belongs to a different collection"}
		}
	}

	// Title is unique per project so compile-by-name resolves unambiguously.
	if _, err := s.store.Prompts.GetByTitle(ctx, coll.ProjectID, in.Title, ownerID); err == nil {
		return nil, store.ErrDuplicateName
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check prompt title: %w", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	p := &models.Prompt{
		ID:           uuid.New(),
		Title:        in.Title,
		Description:  in.Description,
		Body:         in.Body.Clone(),
		Config:       in.Config.Clone(),
		ModelName:    in.ModelName,
		ProjectID:    coll.ProjectID,
		CollectionID: collectionID,
		FolderID:     in.FolderID,
		OwnerID:      ownerID,
		Tags:         tags,
		CreatedAt:    time.Now().UTC(),
		HistoryIDs:   []uuid.UUID{},
	}
	if err := s.store.Prompts.Insert(ctx, p); err != nil {
		return nil, err
	}

	if folder != nil {
		folder.PromptIDs = append(folder.PromptIDs, p.ID)
		now := time.Now().UTC()
		folder.UpdatedAt = &now
		if err := s.store.Folders.Update(ctx, folder); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (s *Service) GetPrompt(ctx context.Context, ownerID string, id uuid.UUID) (*models.Prompt, error) {
	return s.store.Prompts.Get(ctx, id, ownerID)
}

func (s *Service) ListCollectionPrompts(ctx context.Context, ownerID string, collectionID uuid.UUID) ([]models.Prompt, error) {
	if _, err := s.store.Collections.Get(ctx, collectionID, ownerID); err != nil {
		return nil, err
	}
	return s.store.Prompts.ListByCollection(ctx, collectionID, ownerID)
}

func (s *Service) ListOwnerPrompts(ctx context.Context, ownerID string) ([]models.Prompt, error) {
	return s.store.Prompts.ListByOwner(ctx, ownerID)
}
