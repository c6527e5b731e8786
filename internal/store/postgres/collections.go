package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

type collectionStore struct {
	db *pgxpool.Pool
}

const collectionCols = `id, name, description, project_id, owner_id, created_at, updated_at`

func (s *collectionStore) Insert(ctx context.Context, c *models.Collection) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO collections (id, name, description, project_id, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, c.ProjectID, c.OwnerID, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert collection: %w", mapErr(err))
	}
	return nil
}

func (s *collectionStore) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Collection, error) {
	var c models.Collection
	err := s.db.QueryRow(ctx,
		`SELECT `+collectionCols+` FROM collections WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *collectionStore) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*models.Collection, error) {
	var c models.Collection
	err := s.db.QueryRow(ctx,
		`SELECT `+collectionCols+` FROM collections
		 WHERE project_id = $1 AND lower(name) = lower($2)`,
		projectID, name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *collectionStore) ListByProject(ctx context.Context, projectID uuid.UUID, ownerID string) ([]models.Collection, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+collectionCols+` FROM collections
		 WHERE project_id = $1 AND owner_id = $2 ORDER BY created_at DESC`,
		projectID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (s *collectionStore) Update(ctx context.Context, c *models.Collection) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE collections SET name = $1, description = $2, updated_at = $3
		 WHERE id = $4 AND owner_id = $5`,
		c.Name, c.Description, c.UpdatedAt, c.ID, c.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update collection: %w", mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *collectionStore) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM collections WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
