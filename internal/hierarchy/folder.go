package hierarchy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

type CreateFolderInput struct {
	Name           string     `json:"name"`
	ParentFolderID *uuid.UUID `json:"parent_folder_id,omitempty"`
}

type FolderPatch struct {
	Name *string `json:"name,omitempty"`
}

func (s *Service) CreateFolder(ctx context.Context, ownerID string, collectionID uuid.UUID, in CreateFolderInput) (*models.Folder, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	coll, err := s.store.Collections.Get(ctx, collectionID, ownerID)
	if err != nil {
		return nil, err
	}

	var parent *models.Folder
	if in.ParentFolderID != nil {
		parent, err = s.store.Folders.Get(ctx, *in.ParentFolderID, ownerID)
		if err != nil {
			return nil, &ValidationError{Field: "parent_folder_id", Reason: "parent folder does not exist"}
		}
		if parent.CollectionID != collectionID {
			return nil, &ValidationError{Field: "parent_folder_id", Reason: "parent folder belongs to a different collection"}
		}
	}

	f := &models.Folder{
		ID:             uuid.New(),
		Name:           in.Name,
		CollectionID:   collectionID,
		ProjectID:      coll.ProjectID,
		ParentFolderID: in.ParentFolderID,
		OwnerID:        ownerID,
		SubfolderIDs:   []uuid.UUID{},
		PromptIDs:      []uuid.UUID{},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Folders.Insert(ctx, f); err != nil {
		return nil, err
	}

	if parent != nil {
		parent.SubfolderIDs = append(parent.SubfolderIDs, f.ID)
		now := time.Now().UTC()
		parent.UpdatedAt = &now
		if err := s.store.Folders.Update(ctx, parent); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (s *Service) GetFolder(ctx context.Context, ownerID string, id uuid.UUID) (*models.Folder, error) {
	return s.store.Folders.Get(ctx, id, ownerID)
}

func (s *Service) ListRootFolders(ctx context.Context, ownerID string, collectionID uuid.UUID) ([]models.Folder, error) {
	if _, err := s.store.Collections.Get(ctx, collectionID, ownerID); err != nil {
		return nil, err
	}
	return s.store.Folders.ListRoots(ctx, collectionID, ownerID)
}

func (s *Service) UpdateFolder(ctx context.Context, ownerID string, id uuid.UUID, patch FolderPatch) (*models.Folder, error) {
	f, err := s.store.Folders.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		f.Name = *patch.Name
	}

	now := time.Now().UTC()
	f.UpdatedAt = &now

	if err := s.store.Folders.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
