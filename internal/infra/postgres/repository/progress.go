package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/english-course-bot/internal/infra/postgres"
	"github.com/aliskhannn/english-course-bot/internal/repository"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS progress_documents (
		key        TEXT PRIMARY KEY,
		document   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// ProgressRepository stores the progress document as a JSONB row under a fixed key.
type ProgressRepository struct {
	db  postgres.DBTX
	key string
}

// NewProgressRepository creates a ProgressRepository for the document stored under key.
func NewProgressRepository(db postgres.DBTX, key string) *ProgressRepository {
	return &ProgressRepository{db: db, key: key}
}

// EnsureSchema creates the documents table if it does not exist.
func EnsureSchema(ctx context.Context, tr *postgres.Transactor) error {
	return tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}

// Load returns the stored document or repository.ErrDocumentNotFound.
func (r *ProgressRepository) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT document FROM progress_documents WHERE key = $1`

	var doc []byte
	err := r.db.QueryRow(ctx, query, r.key).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load progress document: %w", err)
	}

	return doc, nil
}

// Save creates or replaces the document.
func (r *ProgressRepository) Save(ctx context.Context, doc []byte) error {
	query := `
		INSERT INTO progress_documents (key, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, r.key, string(doc)); err != nil {
		return fmt.Errorf("save progress document: %w", err)
	}

	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (r *ProgressRepository) Delete(ctx context.Context) error {
	query := `DELETE FROM progress_documents WHERE key = $1`

	if _, err := r.db.Exec(ctx, query, r.key); err != nil {
		return fmt.Errorf("delete progress document: %w", err)
	}

	return nil
}
