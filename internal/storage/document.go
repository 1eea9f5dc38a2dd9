package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/aliskhannn/english-course-bot/internal/repository"
)

// DocumentStorage keeps the progress document in memory. It backs the
// "memory" storage driver and tests.
type DocumentStorage struct {
	mu  sync.RWMutex
	doc []byte
}

// NewDocumentStorage creates an empty DocumentStorage.
func NewDocumentStorage() *DocumentStorage {
	return &DocumentStorage{}
}

// Load returns a copy of the stored document.
func (s *DocumentStorage) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, repository.ErrDocumentNotFound
	}
	return slices.Clone(s.doc), nil
}

// Save replaces the stored document.
func (s *DocumentStorage) Save(_ context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = slices.Clone(doc)
	return nil
}

// Delete removes the stored document.
func (s *DocumentStorage) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	return nil
}
