// Package postgres implements the store interfaces on a pgx connection pool.
// Name uniqueness is backed by unique indexes (see migrations/001_init.sql);
// unique-violation errors are mapped to store.ErrDuplicateName so the racy
// check-then-insert window still yields the right caller-facing error.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/college-predictor/prompt-manager-be/internal/store"
)

// New wires every entity store onto the shared pool.
func New(db *pgxpool.Pool) *store.Store {
	return &store.Store{
		Projects:    &projectStore{db: db},
		Collections: &collectionStore{db: db},
		Folders:     &folderStore{db: db},
		Prompts:     &promptStore{db: db},
		History:     &historyStore{db: db},
		Models:      &modelStore{db: db},
	}
}

const uniqueViolation = "23505"

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicateName
	}
	return err
}
