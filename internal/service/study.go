package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/observe"
)

// StudyResult summarizes a finished lesson or exam.
type StudyResult struct {
	Kind    entities.SessionKind
	Month   int
	Day     int
	Correct int
	Total   int

	// DayScores is set for lessons.
	DayScores entities.DayScores

	// Exam is set for exams.
	Exam ExamOutcome
}

// StudyService runs lessons and exams: it builds the questions, records
// answers and hands the results over to the progress store.
type StudyService struct {
	progress   *ProgressStore
	curriculum CurriculumProvider
	builder    *QuestionBuilder
	sessions   SessionStorage
	listener   *SpeechListener
	metrics    *observe.Metrics
	logger     *zap.Logger
}

// NewStudyService creates a new study service.
func NewStudyService(
	progress *ProgressStore,
	curriculum CurriculumProvider,
	builder *QuestionBuilder,
	sessions SessionStorage,
	listener *SpeechListener,
	metrics *observe.Metrics,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		progress:   progress,
		curriculum: curriculum,
		builder:    builder,
		sessions:   sessions,
		listener:   listener,
		metrics:    metrics,
		logger:     logger,
	}
}

// StartLesson starts the lesson of a learning day, replacing any session
// the chat had.
func (s *StudyService) StartLesson(ctx context.Context, chatID int64, month, day int) (*entities.Session, error) {
	if !entities.IsValidMonth(month) {
		return nil, ErrInvalidMonth
	}
	if !entities.IsLearningDay(day) {
		return nil, ErrInvalidDay
	}

	ok, err := s.progress.IsDayAccessible(ctx, month, day)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDayLocked
	}

	content, err := s.curriculum.Day(month, day)
	if err != nil {
		return nil, fmt.Errorf("get day content: %w", err)
	}

	questions := s.builder.LessonQuestions(content)
	session := entities.NewSession(uuid.NewString(), entities.SessionLesson, month, day, questions)
	s.begin(ctx, chatID, session)

	return session, nil
}

// StartExam starts the exam of a month.
func (s *StudyService) StartExam(ctx context.Context, chatID int64, month int) (*entities.Session, error) {
	if !entities.IsValidMonth(month) {
		return nil, ErrInvalidMonth
	}

	ok, err := s.progress.IsExamActionable(ctx, month)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrExamNotActionable
	}

	content, err := s.curriculum.Month(month)
	if err != nil {
		return nil, fmt.Errorf("get month content: %w", err)
	}

	questions := s.builder.ExamQuestions(content)
	session := entities.NewSession(uuid.NewString(), entities.SessionExam, month, 0, questions)
	s.begin(ctx, chatID, session)

	return session, nil
}

// Session returns the session of a chat.
func (s *StudyService) Session(chatID int64) (*entities.Session, bool) {
	return s.sessions.Get(chatID)
}

// AnswerChoice answers the current multiple-choice question.
func (s *StudyService) AnswerChoice(chatID int64, index int) (entities.Answer, error) {
	return s.answer(chatID, func(session *entities.Session) (entities.Answer, error) {
		return session.AnswerChoice(index)
	})
}

// Skip records a non-passing answer for the current question. An
// outstanding listen for it is aborted.
func (s *StudyService) Skip(chatID int64) (entities.Answer, error) {
	s.listener.Abort()
	return s.answer(chatID, func(session *entities.Session) (entities.Answer, error) {
		return session.Skip()
	})
}

// AnswerSpoken listens for the learner's utterance and answers the current
// pronunciation question with it. Without a usable recognizer the question
// is skipped. On a listen failure the question stays open so it can be retried.
func (s *StudyService) AnswerSpoken(ctx context.Context, chatID int64) (entities.Answer, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.Answer{}, ErrNoActiveSession
	}

	var (
		position int
		expected string
	)
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		q := session.CurrentQuestion()
		if q == nil {
			return entities.ErrSessionFinished
		}
		if !q.IsPronunciation() {
			return entities.ErrNotPronunciation
		}
		position, expected = session.Current, q.CorrectAnswer
		return nil
	})
	if err != nil {
		return entities.Answer{}, err
	}

	if !s.listener.Supported() {
		return s.Skip(chatID)
	}

	res, err := s.listener.Listen(ctx, expected)
	if err != nil {
		return entities.Answer{}, err
	}

	return s.answer(chatID, func(current *entities.Session) (entities.Answer, error) {
		if current != session || current.Current != position {
			return entities.Answer{}, ErrQuestionChanged
		}
		return current.AnswerSpoken(res)
	})
}

// Finish closes a session whose questions are all answered and records the
// result: lessons complete the day and update weaknesses, exams go to the
// gating rules.
func (s *StudyService) Finish(ctx context.Context, chatID int64) (*StudyResult, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	err := s.sessions.Update(chatID, func(current *entities.Session) error {
		switch {
		case current != session || current.CompletedAt != nil:
			return entities.ErrSessionFinished
		case !current.Done():
			return ErrSessionNotFinished
		}
		current.Complete()
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.record(ctx, session)
	if err != nil {
		// leave the session open so finishing can be retried
		if rbErr := s.sessions.Update(chatID, func(current *entities.Session) error {
			if current != session {
				return entities.ErrSessionFinished
			}
			current.CompletedAt = nil
			return nil
		}); rbErr != nil {
			s.logger.Warn("failed to reopen session after finish error",
				zap.Int64("chat_id", chatID),
				zap.Error(rbErr),
			)
		}
		return nil, err
	}

	s.end(ctx, chatID, session)

	s.logger.Info("session finished",
		zap.String("session_id", session.ID),
		zap.String("kind", string(session.Kind)),
		zap.Int("month", session.Month),
		zap.Int("day", session.Day),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
	)

	return result, nil
}

// record hands a finished session over to the progress store.
func (s *StudyService) record(ctx context.Context, session *entities.Session) (*StudyResult, error) {
	result := &StudyResult{
		Kind:    session.Kind,
		Month:   session.Month,
		Day:     session.Day,
		Correct: session.CorrectCount(),
		Total:   len(session.Questions),
	}

	switch session.Kind {
	case entities.SessionLesson:
		result.DayScores = session.DayScores()
		if err := s.progress.CompleteDay(ctx, session.Month, session.Day, result.DayScores); err != nil {
			return nil, fmt.Errorf("complete day: %w", err)
		}
		add, remove := weaknessChanges(session.Answers)
		if err := s.progress.UpdateWeaknesses(ctx, add, remove); err != nil {
			return nil, fmt.Errorf("update weaknesses: %w", err)
		}

	case entities.SessionExam:
		outcome, err := s.progress.CompleteExam(ctx, session.Month, session.ExamScore())
		if err != nil {
			return nil, fmt.Errorf("complete exam: %w", err)
		}
		result.Exam = outcome

	default:
		return nil, ErrSessionKind
	}

	return result, nil
}

// Cancel drops the session of a chat without recording anything.
func (s *StudyService) Cancel(ctx context.Context, chatID int64) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return
	}
	s.listener.Abort()
	s.end(ctx, chatID, session)
}

func (s *StudyService) answer(chatID int64, fn func(*entities.Session) (entities.Answer, error)) (entities.Answer, error) {
	var a entities.Answer
	if _, ok := s.sessions.Get(chatID); !ok {
		return a, ErrNoActiveSession
	}
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		var err error
		a, err = fn(session)
		return err
	})
	return a, err
}

func (s *StudyService) begin(ctx context.Context, chatID int64, session *entities.Session) {
	if prev, ok := s.sessions.Get(chatID); ok {
		s.end(ctx, chatID, prev)
	}
	s.sessions.Store(chatID, session)
	s.metrics.SessionStarted(ctx, string(session.Kind))

	s.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("kind", string(session.Kind)),
		zap.Int("month", session.Month),
		zap.Int("day", session.Day),
		zap.Int("questions", len(session.Questions)),
	)
}

func (s *StudyService) end(ctx context.Context, chatID int64, session *entities.Session) {
	s.sessions.Delete(chatID)
	s.metrics.SessionEnded(ctx, string(session.Kind))
}

// weaknessChanges collects item ids to add to (wrong answers) and remove
// from (correct answers) the weakness sets. An item answered both ways
// ends up by its last answer.
func weaknessChanges(answers []entities.Answer) (add, remove map[entities.WeaknessCategory][]string) {
	type key struct {
		category entities.WeaknessCategory
		id       string
	}
	last := make(map[key]bool)
	var order []key
	for _, a := range answers {
		k := key{a.Question.Weakness, a.Question.ItemID}
		if k.id == "" {
			continue
		}
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = a.IsCorrect
	}

	add = make(map[entities.WeaknessCategory][]string)
	remove = make(map[entities.WeaknessCategory][]string)
	for _, k := range order {
		if last[k] {
			remove[k.category] = append(remove[k.category], k.id)
		} else {
			add[k.category] = append(add[k.category], k.id)
		}
	}
	return add, remove
}

// IsRetryable reports whether a failed listen may simply be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoSpeech) ||
		errors.Is(err, ErrRecognition) ||
		errors.Is(err, ErrListenAborted)
}
