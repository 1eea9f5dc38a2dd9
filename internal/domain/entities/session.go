package entities

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrSessionFinished  = errors.New("session already finished")
	ErrInvalidOption    = errors.New("invalid option index")
	ErrNotPronunciation = errors.New("current question does not expect speech")
	ErrExpectsSpeech    = errors.New("current question expects speech")
)

// SessionKind tells lessons and exams apart.
type SessionKind string

const (
	SessionLesson SessionKind = "lesson"
	SessionExam   SessionKind = "exam"
)

// Answer is the learner's answer to one question of a session.
type Answer struct {
	Question   Question
	UserAnswer string
	IsCorrect  bool
	Skipped    bool
	Confidence *float64
}

// Session is a lesson or exam in progress.
// It tracks the questions, current position and recorded answers.
type Session struct {
	ID          string
	Kind        SessionKind
	Month       int
	Day         int // learning day for lessons, 0 for exams
	Questions   []Question
	Current     int // index of the next unanswered question
	Answers     []Answer
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewSession creates a session positioned at its first question.
func NewSession(id string, kind SessionKind, month, day int, questions []Question) *Session {
	return &Session{
		ID:        id,
		Kind:      kind,
		Month:     month,
		Day:       day,
		Questions: questions,
		Answers:   make([]Answer, 0, len(questions)),
		StartedAt: time.Now(),
	}
}

// CurrentQuestion returns the question awaiting an answer or nil when all are answered.
func (s *Session) CurrentQuestion() *Question {
	if s.Done() {
		return nil
	}
	return &s.Questions[s.Current]
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.Current >= len(s.Questions)
}

// AnswerChoice answers the current multiple-choice question.
func (s *Session) AnswerChoice(index int) (Answer, error) {
	q := s.CurrentQuestion()
	if q == nil {
		return Answer{}, ErrSessionFinished
	}
	if q.IsPronunciation() {
		return Answer{}, ErrExpectsSpeech
	}
	if index < 0 || index >= len(q.Options) {
		return Answer{}, ErrInvalidOption
	}

	userAnswer := q.Options[index]
	isCorrect := strings.EqualFold(
		strings.TrimSpace(userAnswer),
		strings.TrimSpace(q.CorrectAnswer),
	)

	a := Answer{Question: *q, UserAnswer: userAnswer, IsCorrect: isCorrect}
	s.record(a)
	return a, nil
}

// AnswerSpoken answers the current pronunciation question with a matched utterance.
func (s *Session) AnswerSpoken(res SpeechResult) (Answer, error) {
	q := s.CurrentQuestion()
	if q == nil {
		return Answer{}, ErrSessionFinished
	}
	if !q.IsPronunciation() {
		return Answer{}, ErrNotPronunciation
	}

	a := Answer{
		Question:   *q,
		UserAnswer: res.Transcript,
		IsCorrect:  res.IsCorrect,
		Confidence: res.Confidence,
	}
	s.record(a)
	return a, nil
}

// Skip records a non-passing answer for the current question.
func (s *Session) Skip() (Answer, error) {
	q := s.CurrentQuestion()
	if q == nil {
		return Answer{}, ErrSessionFinished
	}

	a := Answer{Question: *q, Skipped: true}
	s.record(a)
	return a, nil
}

// CorrectCount returns the number of correct answers so far.
func (s *Session) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// CategoryScore returns round(correct/total*100) for a lesson sub-score.
// A category without questions scores 50.
func (s *Session) CategoryScore(c ScoreCategory) int {
	total, correct := 0, 0
	for _, q := range s.Questions {
		if q.Category == c {
			total++
		}
	}
	for _, a := range s.Answers {
		if a.Question.Category == c && a.IsCorrect {
			correct++
		}
	}
	if total == 0 {
		return 50
	}
	return int(math.Round(float64(correct) / float64(total) * SubScoreMax))
}

// DayScores converts a finished lesson into day sub-scores.
func (s *Session) DayScores() DayScores {
	return DayScores{
		Vocabulary:    Score(s.CategoryScore(CategoryVocabulary)),
		Sentence:      Score(s.CategoryScore(CategorySentence)),
		Exercise:      Score(s.CategoryScore(CategoryExercise)),
		Pronunciation: Score(s.CategoryScore(CategoryPronunciation)),
	}
}

// ExamScore returns round(correct/total*20).
func (s *Session) ExamScore() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectCount()) / float64(len(s.Questions)) * ExamMaxScore))
}

// Complete marks the session as completed.
func (s *Session) Complete() {
	now := time.Now()
	s.CompletedAt = &now
}

func (s *Session) record(a Answer) {
	s.Answers = append(s.Answers, a)
	s.Current++
}
