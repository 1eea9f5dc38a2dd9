// Package redis stores the progress document as a plain Redis string.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/english-course-bot/internal/repository"
)

// NewClient connects to the server described by url and verifies it answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// ProgressRepository keeps the progress document under a single key.
type ProgressRepository struct {
	rdb redis.Cmdable
	key string
}

// NewProgressRepository creates a ProgressRepository for key.
func NewProgressRepository(rdb redis.Cmdable, key string) *ProgressRepository {
	return &ProgressRepository{rdb: rdb, key: key}
}

// Load returns the stored document or repository.ErrDocumentNotFound.
func (r *ProgressRepository) Load(ctx context.Context) ([]byte, error) {
	doc, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load progress document: %w", err)
	}
	return doc, nil
}

// Save replaces the document. The key never expires.
func (r *ProgressRepository) Save(ctx context.Context, doc []byte) error {
	if err := r.rdb.Set(ctx, r.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("save progress document: %w", err)
	}
	return nil
}

// Delete removes the document.
func (r *ProgressRepository) Delete(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("delete progress document: %w", err)
	}
	return nil
}
