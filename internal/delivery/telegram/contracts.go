package telegram

import (
	"context"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/service"
	"github.com/aliskhannn/english-course-bot/internal/storage"
)

type ProgressService interface {
	Snapshot(ctx context.Context) (*entities.UserProgress, error)
	IsDayAccessible(ctx context.Context, month, day int) (bool, error)
	IsExamActionable(ctx context.Context, month int) (bool, error)
	UnlockWithCode(ctx context.Context, month int, code string) (bool, error)
	Reset(ctx context.Context) error
}

type StudyService interface {
	StartLesson(ctx context.Context, chatID int64, month, day int) (*entities.Session, error)
	StartExam(ctx context.Context, chatID int64, month int) (*entities.Session, error)
	Session(chatID int64) (*entities.Session, bool)
	AnswerChoice(chatID int64, index int) (entities.Answer, error)
	AnswerSpoken(ctx context.Context, chatID int64) (entities.Answer, error)
	Skip(chatID int64) (entities.Answer, error)
	Finish(ctx context.Context, chatID int64) (*service.StudyResult, error)
	Cancel(ctx context.Context, chatID int64)
}

type CurriculumService interface {
	Month(number int) (*entities.Month, error)
	Months() []*entities.Month
}

type ReminderStorage interface {
	Store(chatID int64, messageID int)
	Get(chatID int64) (storage.ReminderMessage, bool)
	Delete(chatID int64)
}
