package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

type promptStore struct {
	db *pgxpool.Pool
}

const promptCols = `id, title, description, body, config, model_name, project_id,
	collection_id, folder_id, owner_id, tags, created_at, updated_at, history_ids`

func scanPrompt(row pgx.Row) (*models.Prompt, error) {
	var p models.Prompt
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Body, &p.Config, &p.ModelName,
		&p.ProjectID, &p.CollectionID, &p.FolderID, &p.OwnerID, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt, &p.HistoryIDs)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *promptStore) Insert(ctx context.Context, p *models.Prompt) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO prompts (id, title, description, body, config, model_name,
		                      project_id, collection_id, folder_id, owner_id, tags,
		                      created_at, history_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Title, p.Description, p.Body, p.Config, p.ModelName,
		p.ProjectID, p.CollectionID, p.FolderID, p.OwnerID, p.Tags,
		p.CreatedAt, p.HistoryIDs,
	)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", mapErr(err))
	}
	return nil
}

func (s *promptStore) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Prompt, error) {
	p, err := scanPrompt(s.db.QueryRow(ctx,
		`SELECT `+promptCols+` FROM prompts WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *promptStore) GetByTitle(ctx context.Context, projectID uuid.UUID, title, ownerID string) (*models.Prompt, error) {
	p, err := scanPrompt(s.db.QueryRow(ctx,
		`SELECT `+promptCols+` FROM prompts
		 WHERE project_id = $1 AND lower(title) = lower($2) AND owner_id = $3`,
		projectID, title, ownerID,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *promptStore) ListByCollection(ctx context.Context, collectionID uuid.UUID, ownerID string) ([]models.Prompt, error) {
	return s.query(ctx,
		`SELECT `+promptCols+` FROM prompts
		 WHERE collection_id = $1 AND owner_id = $2 ORDER BY created_at DESC`,
		collectionID, ownerID,
	)
}

func (s *promptStore) ListByProject(ctx context.Context, projectID uuid.UUID, ownerID string) ([]models.Prompt, error) {
	return s.query(ctx,
		`SELECT `+promptCols+` FROM prompts
		 WHERE project_id = $1 AND owner_id = $2 ORDER BY created_at DESC`,
		projectID, ownerID,
	)
}

func (s *promptStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Prompt, error) {
	return s.query(ctx,
		`SELECT `+promptCols+` FROM prompts WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
}

func (s *promptStore) query(ctx context.Context, sql string, args ...any) ([]models.Prompt, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, *p)
	}
	return prompts, rows.Err()
}

func (s *promptStore) Update(ctx context.Context, p *models.Prompt) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE prompts SET title = $1, description = $2, body = $3, config = $4,
		        model_name = $5, folder_id = $6, tags = $7, updated_at = $8, history_ids = $9
		 WHERE id = $10 AND owner_id = $11`,
		p.Title, p.Description, p.Body, p.Config, p.ModelName, p.FolderID,
		p.Tags, p.UpdatedAt, p.HistoryIDs, p.ID, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update prompt: %w", mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *promptStore) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM prompts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

type historyStore struct {
	db *pgxpool.Pool
}

func (s *historyStore) Insert(ctx context.Context, e *models.HistoryEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO prompt_history (id, prompt_id, ts, body, config, change_message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.PromptID, e.Timestamp, e.Body, e.Config, e.ChangeMessage,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (s *historyStore) ListByPrompt(ctx context.Context, promptID uuid.UUID) ([]models.HistoryEntry, error) {
	// seq breaks ties between entries written in the same clock tick.
	rows, err := s.db.Query(ctx,
		`SELECT id, prompt_id, ts, body, config, change_message
		 FROM prompt_history WHERE prompt_id = $1 ORDER BY seq DESC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.PromptID, &e.Timestamp, &e.Body, &e.Config, &e.ChangeMessage); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *historyStore) DeleteByPrompt(ctx context.Context, promptID uuid.UUID) (int, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM prompt_history WHERE prompt_id = $1`, promptID)
	if err != nil {
		return 0, fmt.Errorf("delete history: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
