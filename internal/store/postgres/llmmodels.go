package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

type modelStore struct {
	db *pgxpool.Pool
}

func (s *modelStore) Upsert(ctx context.Context, m *models.LLMModel) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO llm_models (id, provider, name, description, allowed_roles, params, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
		   provider = EXCLUDED.provider,
		   description = EXCLUDED.description,
		   allowed_roles = EXCLUDED.allowed_roles,
		   params = EXCLUDED.params,
		   active = EXCLUDED.active`,
		m.ID, m.Provider, m.Name, m.Description, m.AllowedRoles, m.Params, m.Active, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert llm model: %w", err)
	}
	return nil
}

func (s *modelStore) GetByName(ctx context.Context, name string) (*models.LLMModel, error) {
	var m models.LLMModel
	err := s.db.QueryRow(ctx,
		`SELECT id, provider, name, description, allowed_roles, params, active, created_at
		 FROM llm_models WHERE name = $1`,
		name,
	).Scan(&m.ID, &m.Provider, &m.Name, &m.Description, &m.AllowedRoles, &m.Params, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (s *modelStore) List(ctx context.Context, activeOnly bool) ([]models.LLMModel, error) {
	sql := `SELECT id, provider, name, description, allowed_roles, params, active, created_at
	        FROM llm_models ORDER BY name`
	if activeOnly {
		sql = `SELECT id, provider, name, description, allowed_roles, params, active, created_at
		       FROM llm_models WHERE active ORDER BY name`
	}
	return s.query(ctx, sql)
}

func (s *modelStore) ListByProvider(ctx context.Context, provider models.Provider) ([]models.LLMModel, error) {
	return s.query(ctx,
		`SELECT id, provider, name, description, allowed_roles, params, active, created_at
		 FROM llm_models WHERE provider = $1 ORDER BY name`,
		provider,
	)
}

func (s *modelStore) query(ctx context.Context, sql string, args ...any) ([]models.LLMModel, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list llm models: %w", err)
	}
	defer rows.Close()

	var out []models.LLMModel
	for rows.Next() {
		var m models.LLMModel
		if err := rows.Scan(&m.ID, &m.Provider, &m.Name, &m.Description, &m.AllowedRoles, &m.Params, &m.Active, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan llm model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
