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

type folderStore struct {
	db *pgxpool.Pool
}

const folderCols = `id, name, collection_id, project_id, parent_folder_id, owner_id,
	subfolder_ids, prompt_ids, created_at, updated_at`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(&f.ID, &f.Name, &f.CollectionID, &f.ProjectID, &f.ParentFolderID,
		&f.OwnerID, &f.SubfolderIDs, &f.PromptIDs, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *folderStore) Insert(ctx context.Context, f *models.Folder) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO folders (id, name, collection_id, project_id, parent_folder_id,
		                      owner_id, subfolder_ids, prompt_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.Name, f.CollectionID, f.ProjectID, f.ParentFolderID,
		f.OwnerID, f.SubfolderIDs, f.PromptIDs, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert folder: %w", mapErr(err))
	}
	return nil
}

func (s *folderStore) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Folder, error) {
	f, err := scanFolder(s.db.QueryRow(ctx,
		`SELECT `+folderCols+` FROM folders WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (s *folderStore) ListRoots(ctx context.Context, collectionID uuid.UUID, ownerID string) ([]models.Folder, error) {
	return s.query(ctx,
		`SELECT `+folderCols+` FROM folders
		 WHERE collection_id = $1 AND owner_id = $2 AND parent_folder_id IS NULL
		 ORDER BY created_at DESC`,
		collectionID, ownerID,
	)
}

func (s *folderStore) ListByCollection(ctx context.Context, collectionID uuid.UUID, ownerID string) ([]models.Folder, error) {
	return s.query(ctx,
		`SELECT `+folderCols+` FROM folders
		 WHERE collection_id = $1 AND owner_id = $2 ORDER BY created_at DESC`,
		collectionID, ownerID,
	)
}

func (s *folderStore) query(ctx context.Context, sql string, args ...any) ([]models.Folder, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

func (s *folderStore) Update(ctx context.Context, f *models.Folder) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE folders SET name = $1, subfolder_ids = $2, prompt_ids = $3, updated_at = $4
		 WHERE id = $5 AND owner_id = $6`,
		f.Name, f.SubfolderIDs, f.PromptIDs, f.UpdatedAt, f.ID, f.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *folderStore) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM folders WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
