package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/repository"
	"github.com/aliskhannn/english-course-bot/internal/service"
)

// handleStart greets the learner and shows the overview.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.send(newMessage(chatID, welcomeMessage())); err != nil {
			return err
		}
		return h.handleProgress(0)(ctx, chatID)
	}
}

// handleProgress shows the course overview. A non-zero messageID edits that message.
func (h *Handler) handleProgress(messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.progressService.Snapshot(ctx)
		if err != nil {
			return err
		}

		text := formatOverview(p, h.months())
		kb := buildOverviewKeyboard(p)

		if messageID != 0 {
			edit := newEdit(chatID, messageID, text)
			edit.ReplyMarkup = &kb
			return h.send(edit)
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

// handleMonth parses /month arguments.
func (h *Handler) handleMonth(args string, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		month, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUseMonth))
		}
		return h.showMonth(month, messageID)(ctx, chatID)
	}
}

// showMonth shows the days of a month.
func (h *Handler) showMonth(month, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !entities.IsValidMonth(month) {
			return h.send(newPlainMessage(chatID, msgInvalidMonth))
		}

		content, err := h.curriculum.Month(month)
		if err != nil {
			return err
		}

		p, err := h.progressService.Snapshot(ctx)
		if err != nil {
			return err
		}

		examActionable, err := h.progressService.IsExamActionable(ctx, month)
		if err != nil {
			return err
		}

		text := formatMonth(p, content)

		var kb *tgbotapi.InlineKeyboardMarkup
		if p.Month(month).Unlocked {
			k := buildMonthKeyboard(p, month, examActionable)
			kb = &k
		}

		if messageID != 0 {
			edit := newEdit(chatID, messageID, text)
			edit.ReplyMarkup = kb
			return h.send(edit)
		}

		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		return h.send(msg)
	}
}

// handleLesson parses /lesson arguments.
func (h *Handler) handleLesson(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) != 2 {
			return h.send(newPlainMessage(chatID, msgUseLesson))
		}

		month, err1 := strconv.Atoi(fields[0])
		day, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return h.send(newPlainMessage(chatID, msgUseLesson))
		}

		return h.startLesson(month, day)(ctx, chatID)
	}
}

// startLesson opens a lesson and sends its first question.
func (h *Handler) startLesson(month, day int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := h.studyService.StartLesson(ctx, chatID, month, day); err != nil {
			return h.replyStudyError(chatID, err)
		}
		return h.sendQuestion(chatID)
	}
}

// handleExam parses /exam arguments.
func (h *Handler) handleExam(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		month, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUseExam))
		}
		return h.startExam(month)(ctx, chatID)
	}
}

// startExam opens a month exam and sends its first question.
func (h *Handler) startExam(month int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := h.studyService.StartExam(ctx, chatID, month); err != nil {
			return h.replyStudyError(chatID, err)
		}
		return h.sendQuestion(chatID)
	}
}

// handleUnlock unlocks a month with its admin code.
func (h *Handler) handleUnlock(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) != 2 {
			return h.send(newPlainMessage(chatID, msgUseUnlock))
		}

		month, err := strconv.Atoi(fields[0])
		if err != nil || !entities.IsValidMonth(month) {
			return h.send(newPlainMessage(chatID, msgInvalidMonth))
		}

		ok, err := h.progressService.UnlockWithCode(ctx, month, fields[1])
		if err != nil {
			return err
		}
		if !ok {
			return h.send(newPlainMessage(chatID, msgWrongCode))
		}

		return h.send(newPlainMessage(chatID, fmt.Sprintf("🔓 Month %d is unlocked.", month)))
	}
}

// handleWeaknesses lists the items the learner struggled with.
func (h *Handler) handleWeaknesses() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.progressService.Snapshot(ctx)
		if err != nil {
			return err
		}

		items := h.itemIndex()
		lookup := func(id string) string {
			if s, ok := items[id]; ok {
				return s
			}
			return id
		}

		return h.send(newMessage(chatID, formatWeaknesses(p.Weaknesses, lookup)))
	}
}

// handleSkip skips the current task.
func (h *Handler) handleSkip() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		a, err := h.studyService.Skip(chatID)
		if err != nil {
			return h.replyStudyError(chatID, err)
		}
		return h.afterAnswer(ctx, chatID, a)
	}
}

// handleReset asks for confirmation before erasing progress.
func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// sendQuestion sends the current question of the chat's session.
func (h *Handler) sendQuestion(chatID int64) error {
	session, ok := h.studyService.Session(chatID)
	if !ok {
		return h.send(newPlainMessage(chatID, msgNoSession))
	}

	q := session.CurrentQuestion()
	if q == nil {
		return nil
	}

	supported := h.recognizer.IsSupported()
	msg := newMessage(chatID, formatQuestion(session, q, supported))
	msg.ReplyMarkup = buildQuestionKeyboard(q, supported)
	return h.send(msg)
}

// afterAnswer reports the verdict and moves on to the next question or the result.
func (h *Handler) afterAnswer(ctx context.Context, chatID int64, a entities.Answer) error {
	if err := h.send(newMessage(chatID, formatAnswerFeedback(a))); err != nil {
		return err
	}

	session, ok := h.studyService.Session(chatID)
	if !ok {
		return nil
	}
	if !session.Done() {
		return h.sendQuestion(chatID)
	}

	return h.finish(ctx, chatID)
}

// finish records the session and shows the result.
func (h *Handler) finish(ctx context.Context, chatID int64) error {
	res, err := h.studyService.Finish(ctx, chatID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionFinished) {
			return nil
		}
		return err
	}

	p, err := h.progressService.Snapshot(ctx)
	if err != nil {
		return err
	}

	msg := newMessage(chatID, formatResult(res))
	msg.ReplyMarkup = buildResultKeyboard(p)
	return h.send(msg)
}

// listen waits for the dictated answer to the current pronunciation task.
// It runs outside the update loop because the transcript arrives as a later update.
func (h *Handler) listen(ctx context.Context, chatID int64) {
	a, err := h.studyService.AnswerSpoken(ctx, chatID)
	if err != nil {
		var text string
		switch {
		case errors.Is(err, service.ErrListenAborted):
			h.logger.Debug("listen aborted", zap.Int64("chat_id", chatID))
			return
		case errors.Is(err, service.ErrNoSpeech):
			text = msgNoSpeech
		case errors.Is(err, service.ErrNotAllowed):
			text = msgNotAllowed
		case errors.Is(err, service.ErrRecognition):
			text = msgRecognitionFailed
		default:
			_ = h.withErrorHandling(func(context.Context, int64) error {
				return h.replyStudyError(chatID, err)
			})(ctx, chatID)
			return
		}

		msg := newPlainMessage(chatID, text)
		msg.ReplyMarkup = buildSkipKeyboard()
		if service.IsRetryable(err) {
			msg.ReplyMarkup = buildRetryKeyboard()
		}
		_ = h.send(msg)
		return
	}

	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		return h.afterAnswer(ctx, chatID, a)
	})(ctx, chatID)
}

// replyStudyError answers with a message for expected study errors and
// returns unexpected ones.
func (h *Handler) replyStudyError(chatID int64, err error) error {
	var text string
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		text = msgInvalidMonth
	case errors.Is(err, service.ErrInvalidDay):
		text = msgInvalidDay
	case errors.Is(err, service.ErrDayLocked):
		text = msgDayLocked
	case errors.Is(err, service.ErrExamNotActionable):
		text = msgExamNotActionable
	case errors.Is(err, repository.ErrContentUnavailable):
		text = msgContentUnavailable
	case errors.Is(err, service.ErrNoActiveSession), errors.Is(err, entities.ErrSessionFinished):
		text = msgNoSession
	case errors.Is(err, service.ErrQuestionChanged),
		errors.Is(err, entities.ErrExpectsSpeech),
		errors.Is(err, entities.ErrNotPronunciation),
		errors.Is(err, entities.ErrInvalidOption):
		text = msgQuestionAnswered
	default:
		return err
	}
	return h.send(newPlainMessage(chatID, text))
}

// months returns the curriculum months in order.
func (h *Handler) months() []*entities.Month {
	return h.curriculum.Months()
}

// itemIndex maps word and sentence ids to a readable description.
func (h *Handler) itemIndex() map[string]string {
	items := make(map[string]string)
	for _, m := range h.months() {
		if m == nil {
			continue
		}
		for _, w := range m.AllWords() {
			items[w.ID] = w.English + " — " + w.Translation
		}
		for _, s := range m.AllSentences() {
			items[s.ID] = s.English
		}
	}
	return items
}
