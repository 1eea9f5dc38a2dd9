package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/observe"
	"github.com/aliskhannn/english-course-bot/internal/repository"
)

// ProgressStore owns the learner's progress. Every mutation is applied to a
// copy, saved, and only then made visible to readers.
type ProgressStore struct {
	repo    ProgressRepository
	gating  *GatingEngine
	scores  *ScoreAggregator
	metrics *observe.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	progress *entities.UserProgress // nil until first access
}

// NewProgressStore creates a ProgressStore. The document is loaded lazily.
func NewProgressStore(
	repo ProgressRepository,
	gating *GatingEngine,
	scores *ScoreAggregator,
	metrics *observe.Metrics,
	logger *zap.Logger,
) *ProgressStore {
	return &ProgressStore{
		repo:    repo,
		gating:  gating,
		scores:  scores,
		metrics: metrics,
		logger:  logger,
	}
}

// Snapshot returns a copy of the current progress.
func (s *ProgressStore) Snapshot(ctx context.Context) (*entities.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.progress.Clone(), nil
}

// IsDayAccessible reports whether (month, day) is reachable.
func (s *ProgressStore) IsDayAccessible(ctx context.Context, month, day int) (bool, error) {
	p, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return s.gating.IsDayAccessible(p, month, day), nil
}

// IsExamActionable reports whether the month exam can be taken now.
func (s *ProgressStore) IsExamActionable(ctx context.Context, month int) (bool, error) {
	p, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return s.gating.IsExamActionable(p, month), nil
}

// CompleteDay records the scores of a learning day and advances the cursor.
func (s *ProgressStore) CompleteDay(ctx context.Context, month, day int, scores entities.DayScores) error {
	err := s.mutate(ctx, "complete_day", func(p *entities.UserProgress) (bool, error) {
		return true, s.scores.CompleteDay(p, month, day, scores)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordDayCompleted(ctx, month)
	s.logger.Info("day completed", zap.Int("month", month), zap.Int("day", day))
	return nil
}

// CompleteExam records an exam result and unlocks the next month on a pass.
func (s *ProgressStore) CompleteExam(ctx context.Context, month, score int) (ExamOutcome, error) {
	var out ExamOutcome
	err := s.mutate(ctx, "complete_exam", func(p *entities.UserProgress) (bool, error) {
		var err error
		out, err = s.gating.CompleteExam(p, month, score)
		return true, err
	})
	if err != nil {
		return ExamOutcome{}, err
	}

	s.metrics.RecordExam(ctx, month, out.Passed)
	s.logger.Info("exam completed",
		zap.Int("month", month),
		zap.Int("score", score),
		zap.Bool("passed", out.Passed),
		zap.Int("unlocked_month", out.UnlockedMonth),
	)
	return out, nil
}

// UnlockWithCode unlocks month when code is its admin secret. A wrong code
// returns false and leaves both memory and storage untouched.
func (s *ProgressStore) UnlockWithCode(ctx context.Context, month int, code string) (bool, error) {
	var ok bool
	err := s.mutate(ctx, "unlock_with_code", func(p *entities.UserProgress) (bool, error) {
		ok = s.gating.UnlockWithCode(p, month, code)
		return ok, nil
	})
	if err != nil {
		return false, err
	}

	s.metrics.RecordUnlockAttempt(ctx, month, ok)
	if ok {
		s.logger.Info("month unlocked with code", zap.Int("month", month))
	}
	return ok, nil
}

// AddWeakness records id in a weakness category.
func (s *ProgressStore) AddWeakness(ctx context.Context, category entities.WeaknessCategory, id string) error {
	return s.mutate(ctx, "add_weakness", func(p *entities.UserProgress) (bool, error) {
		return s.scores.AddWeakness(p, category, id)
	})
}

// RemoveWeakness deletes id from a weakness category.
func (s *ProgressStore) RemoveWeakness(ctx context.Context, category entities.WeaknessCategory, id string) error {
	return s.mutate(ctx, "remove_weakness", func(p *entities.UserProgress) (bool, error) {
		return s.scores.RemoveWeakness(p, category, id)
	})
}

// UpdateWeaknesses applies a batch of weakness changes with a single save.
// Ids in add are inserted and ids in remove are deleted, per category.
func (s *ProgressStore) UpdateWeaknesses(ctx context.Context, add, remove map[entities.WeaknessCategory][]string) error {
	return s.mutate(ctx, "update_weaknesses", func(p *entities.UserProgress) (bool, error) {
		changed := false
		for _, c := range entities.WeaknessCategories {
			for _, id := range remove[c] {
				ok, err := s.scores.RemoveWeakness(p, c, id)
				if err != nil {
					return false, err
				}
				changed = changed || ok
			}
			for _, id := range add[c] {
				ok, err := s.scores.AddWeakness(p, c, id)
				if err != nil {
					return false, err
				}
				changed = changed || ok
			}
		}
		return changed, nil
	})
}

// Reset erases the stored document and restores the defaults.
func (s *ProgressStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	s.progress = entities.NewUserProgress()

	s.logger.Info("progress reset")
	return nil
}

// mutate runs fn on a copy of the progress. If fn reports a change, the copy
// is saved and swapped in; on any error the current state is kept.
func (s *ProgressStore) mutate(ctx context.Context, op string, fn func(p *entities.UserProgress) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	next := s.progress.Clone()
	changed, err := fn(next)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.save(ctx, next); err != nil {
		s.logger.Error("failed to save progress", zap.String("op", op), zap.Error(err))
		return err
	}

	s.progress = next
	return nil
}

// load reads the stored document once. s.mu must be held.
func (s *ProgressStore) load(ctx context.Context) error {
	if s.progress != nil {
		return nil
	}

	data, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			s.progress = entities.NewUserProgress()
			return nil
		}
		return fmt.Errorf("load progress: %w", err)
	}

	p, err := DecodeProgress(data)
	if err != nil {
		s.logger.Warn("discarding unreadable progress document", zap.Error(err))
	}
	s.progress = p
	return nil
}

func (s *ProgressStore) save(ctx context.Context, p *entities.UserProgress) error {
	data, err := EncodeProgress(p)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.repo.Save(ctx, data)
	s.metrics.ProgressSaveDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.metrics.ProgressSaveErrors.Add(ctx, 1)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
