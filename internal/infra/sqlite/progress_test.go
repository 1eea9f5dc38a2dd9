package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aliskhannn/english-course-bot/internal/repository"
)

func newTestRepository(t *testing.T, key string) *ProgressRepository {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "progress.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewProgressRepository(db, key)
}

func TestProgressRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t, "english_learning_progress")

	if _, err := r.Load(ctx); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Fatalf("Load on empty db: err = %v, want ErrDocumentNotFound", err)
	}

	if err := r.Save(ctx, []byte(`{"currentMonth":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := r.Save(ctx, []byte(`{"currentMonth":2}`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	got, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"currentMonth":2}` {
		t.Errorf("Load = %s, want the latest document", got)
	}

	if err := r.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Load(ctx); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("Load after Delete: err = %v, want ErrDocumentNotFound", err)
	}
	if err := r.Delete(ctx); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestProgressRepository_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	a := NewProgressRepository(db, "a")
	b := NewProgressRepository(db, "b")

	if err := a.Save(ctx, []byte(`{"a":true}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Errorf("b.Load: err = %v, want ErrDocumentNotFound", err)
	}
}
