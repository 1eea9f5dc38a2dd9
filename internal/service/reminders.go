package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// ReminderService periodically nudges the learner to continue the course.
type ReminderService struct {
	progress   *ProgressStore
	curriculum CurriculumProvider
	notifier   ReminderNotifier
	chatID     int64
	schedule   string
	logger     *zap.Logger
}

// NewReminderService creates a new reminder service for one chat.
// An empty schedule disables reminders.
func NewReminderService(
	progress *ProgressStore,
	curriculum CurriculumProvider,
	chatID int64,
	schedule string,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		progress:   progress,
		curriculum: curriculum,
		chatID:     chatID,
		schedule:   schedule,
		logger:     logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the scheduler until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	if s.chatID == 0 {
		s.logger.Info("reminders disabled: no owner chat configured")
		<-ctx.Done()
		return nil
	}
	if s.schedule == "" {
		s.logger.Info("reminders disabled: no schedule configured")
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		if err := s.SendReminder(ctx); err != nil {
			s.logger.Error("failed to send reminder", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add reminder job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendReminder sends one reminder with the learner's current position.
func (s *ReminderService) SendReminder(ctx context.Context) error {
	if s.notifier == nil {
		return fmt.Errorf("notifier not initialized")
	}

	payload, err := s.BuildPayload(ctx)
	if err != nil {
		return err
	}

	if err := s.notifier.SendReminder(s.chatID, payload); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("reminder sent",
		zap.Int64("chat_id", s.chatID),
		zap.Int("month", payload.Month),
		zap.Int("day", payload.Day),
		zap.Bool("exam_pending", payload.ExamPending),
	)
	return nil
}

// BuildPayload describes where the learner currently is.
func (s *ReminderService) BuildPayload(ctx context.Context) (entities.ReminderPayload, error) {
	p, err := s.progress.Snapshot(ctx)
	if err != nil {
		return entities.ReminderPayload{}, fmt.Errorf("get progress: %w", err)
	}

	m := p.Month(p.CurrentMonth)
	payload := entities.ReminderPayload{
		Month:         p.CurrentMonth,
		Day:           p.CurrentDay,
		CompletedDays: m.CompletedDays(),
		TotalScore:    p.TotalScore,
	}

	if payload.ExamPending, err = s.progress.IsExamActionable(ctx, p.CurrentMonth); err != nil {
		return entities.ReminderPayload{}, fmt.Errorf("check exam: %w", err)
	}

	if content, err := s.curriculum.Month(p.CurrentMonth); err == nil {
		payload.MonthTitle = content.Title
	}

	return payload, nil
}
