package service

import (
	"context"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// ProgressRepository persists the single progress document.
// Load returns repository.ErrDocumentNotFound when nothing was saved yet.
type ProgressRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Delete(ctx context.Context) error
}

// CurriculumProvider gives read-only access to the course content.
type CurriculumProvider interface {
	Month(number int) (*entities.Month, error)
	Day(month, day int) (*entities.DayContent, error)
	UnlockCode(month int) (string, error)
}

// Recognizer captures one utterance of the learner.
// Recognize returns ErrNoSpeech, ErrNotAllowed or ErrRecognition on failure.
type Recognizer interface {
	IsSupported() bool
	Recognize(ctx context.Context, expected string) (entities.Transcript, error)
}

// SessionStorage keeps lessons and exams in progress per chat.
type SessionStorage interface {
	Store(chatID int64, s *entities.Session)
	Get(chatID int64) (*entities.Session, bool)
	Update(chatID int64, fn func(s *entities.Session) error) error
	Delete(chatID int64)
}

// ReminderNotifier sends study reminders to the learner.
type ReminderNotifier interface {
	SendReminder(chatID int64, payload entities.ReminderPayload) error
}
