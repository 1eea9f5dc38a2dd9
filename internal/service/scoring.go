package service

import (
	"fmt"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// ScoreAggregator folds lesson results into the stored day records.
type ScoreAggregator struct{}

// NewScoreAggregator creates a ScoreAggregator.
func NewScoreAggregator() *ScoreAggregator {
	return &ScoreAggregator{}
}

// CompleteDay upserts the day record, merges the provided sub-scores and
// marks the day completed. When the day belongs to the current month the
// cursor moves to the next day, or to the exam phase after day 25.
// The total score is recomputed from scratch.
func (a *ScoreAggregator) CompleteDay(p *entities.UserProgress, month, day int, scores entities.DayScores) error {
	m := p.Month(month)
	if m == nil {
		return fmt.Errorf("complete day: %w", ErrInvalidMonth)
	}
	if !entities.IsLearningDay(day) {
		return fmt.Errorf("complete day: %w", ErrInvalidDay)
	}

	var invalid bool
	scores.Each(func(v int) {
		if v < 0 || v > entities.SubScoreMax {
			invalid = true
		}
	})
	if invalid {
		return fmt.Errorf("complete day: %w", ErrInvalidScore)
	}

	d := m.Days[day-1]
	if d == nil {
		d = &entities.DayProgress{}
		m.Days[day-1] = d
	}
	scores.MergeInto(d)
	d.Completed = true

	// day 25 leads to the first exam slot
	p.AdvanceDay(month, day+1)

	p.RecalculateTotal()
	return nil
}

// AddWeakness records id in the category. Adding an existing id is a no-op.
func (a *ScoreAggregator) AddWeakness(p *entities.UserProgress, category entities.WeaknessCategory, id string) (bool, error) {
	if !category.Valid() {
		return false, fmt.Errorf("add weakness %q: %w", category, ErrUnknownCategory)
	}
	return p.Weaknesses.Add(category, id), nil
}

// RemoveWeakness deletes id from the category. Removing a missing id is a no-op.
func (a *ScoreAggregator) RemoveWeakness(p *entities.UserProgress, category entities.WeaknessCategory, id string) (bool, error) {
	if !category.Valid() {
		return false, fmt.Errorf("remove weakness %q: %w", category, ErrUnknownCategory)
	}
	return p.Weaknesses.Remove(category, id), nil
}
