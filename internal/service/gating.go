package service

import (
	"crypto/subtle"
	"fmt"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// UnlockCodeSource provides the static secret bound to each month.
type UnlockCodeSource interface {
	UnlockCode(month int) (string, error)
}

// ExamOutcome describes what a recorded exam changed.
type ExamOutcome struct {
	Month         int
	Score         int
	Passed        bool
	UnlockedMonth int // 0 when no month was unlocked
}

// GatingEngine decides which days and exams are reachable and computes
// unlock transitions. It never persists anything itself.
type GatingEngine struct {
	codes UnlockCodeSource
}

// NewGatingEngine creates a GatingEngine that checks admin codes against codes.
func NewGatingEngine(codes UnlockCodeSource) *GatingEngine {
	return &GatingEngine{codes: codes}
}

// IsDayAccessible reports whether (month, day) is reachable: the month must be
// unlocked and the day must not be past the cursor. Days 26-30 are exam slots
// and follow the same rule.
func (g *GatingEngine) IsDayAccessible(p *entities.UserProgress, month, day int) bool {
	m := p.Month(month)
	if m == nil || !m.Unlocked || !entities.IsValidDay(day) {
		return false
	}
	if month < p.CurrentMonth {
		return true
	}
	return month == p.CurrentMonth && day <= p.CurrentDay
}

// IsExamActionable reports whether the exam of month can be taken now: the
// first exam slot is accessible, every learning day is completed and the exam
// has not been taken yet.
func (g *GatingEngine) IsExamActionable(p *entities.UserProgress, month int) bool {
	if !g.IsDayAccessible(p, month, entities.FirstExamDay) {
		return false
	}
	m := p.Month(month)
	return m.AllLearningDaysCompleted() && !m.ExamCompleted
}

// CompleteExam records an exam result. A passing score unlocks the next month
// and moves the cursor to its first day; a failing one changes nothing else.
// A repeated call overwrites the previous exam record.
func (g *GatingEngine) CompleteExam(p *entities.UserProgress, month, score int) (ExamOutcome, error) {
	m := p.Month(month)
	if m == nil {
		return ExamOutcome{}, fmt.Errorf("complete exam: %w", ErrInvalidMonth)
	}
	if score < 0 || score > entities.ExamMaxScore {
		return ExamOutcome{}, fmt.Errorf("complete exam: %w", ErrInvalidScore)
	}

	m.ExamScore = score
	m.ExamCompleted = true

	out := ExamOutcome{Month: month, Score: score, Passed: score >= entities.ExamPassScore}
	if out.Passed && month < entities.MonthCount {
		p.Months[month].Unlocked = true // month+1
		p.AdvanceMonth(month + 1)
		out.UnlockedMonth = month + 1
	}
	p.RecalculateTotal()

	return out, nil
}

// UnlockWithCode unlocks month when code matches its secret. It never moves
// the cursor and does not count as a passed exam.
func (g *GatingEngine) UnlockWithCode(p *entities.UserProgress, month int, code string) bool {
	m := p.Month(month)
	if m == nil {
		return false
	}

	secret, err := g.codes.UnlockCode(month)
	if err != nil || secret == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(code)) != 1 {
		return false
	}

	m.Unlocked = true
	return true
}
