package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

type projectStore struct {
	db *pgxpool.Pool
}

func (s *projectStore) Insert(ctx context.Context, p *models.Project) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO projects (id, name, description, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Description, p.OwnerID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", mapErr(err))
	}
	return nil
}

func (s *projectStore) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, owner_id, created_at
		 FROM projects WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *projectStore) GetByName(ctx context.Context, ownerID, name string) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, owner_id, created_at
		 FROM projects WHERE owner_id = $1 AND lower(name) = lower($2)`,
		ownerID, name,
	).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *projectStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, owner_id, created_at
		 FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *projectStore) Update(ctx context.Context, p *models.Project) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2
		 WHERE id = $3 AND owner_id = $4`,
		p.Name, p.Description, p.ID, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
