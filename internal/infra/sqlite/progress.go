// Package sqlite stores the progress document in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/aliskhannn/english-course-bot/internal/repository"
)

// Open connects to the database file at path, creating its directory and
// the documents table when missing.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS progress_documents (
			key        TEXT PRIMARY KEY,
			document   TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create progress_documents table: %w", err)
	}

	return db, nil
}

// ProgressRepository stores the progress document as a row under a fixed key.
type ProgressRepository struct {
	db  *sqlx.DB
	key string
}

// NewProgressRepository creates a ProgressRepository for the document stored under key.
func NewProgressRepository(db *sqlx.DB, key string) *ProgressRepository {
	return &ProgressRepository{db: db, key: key}
}

// Load returns the stored document or repository.ErrDocumentNotFound.
func (r *ProgressRepository) Load(ctx context.Context) ([]byte, error) {
	var doc string
	err := r.db.GetContext(ctx, &doc, `SELECT document FROM progress_documents WHERE key = ?`, r.key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load progress document: %w", err)
	}
	return []byte(doc), nil
}

// Save creates or replaces the document.
func (r *ProgressRepository) Save(ctx context.Context, doc []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO progress_documents (key, document, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, r.key, string(doc))
	if err != nil {
		return fmt.Errorf("save progress document: %w", err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (r *ProgressRepository) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress_documents WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("delete progress document: %w", err)
	}
	return nil
}
