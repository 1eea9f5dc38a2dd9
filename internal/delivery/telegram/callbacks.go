package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionAnswer:
		index, ok := data.intParam(0)
		if !ok {
			break
		}
		fn = h.handleAnswerCallback(messageID, index)

	case actionMonth:
		month, ok := data.intParam(0)
		if !ok {
			break
		}
		fn = h.showMonth(month, messageID)

	case actionLesson:
		month, ok1 := data.intParam(0)
		day, ok2 := data.intParam(1)
		if !ok1 || !ok2 {
			break
		}
		fn = h.startLesson(month, day)

	case actionExam:
		month, ok := data.intParam(0)
		if !ok {
			break
		}
		fn = h.startExam(month)

	case actionSkip:
		h.clearKeyboard(chatID, messageID)
		fn = h.handleSkip()

	case actionListen:
		h.clearKeyboard(chatID, messageID)
		h.answerCallback(cb.ID, "")
		release := h.recognizer.Prepare()
		_ = h.send(newPlainMessage(chatID, msgListening))
		go func() {
			defer release()
			h.listen(ctx, chatID)
		}()
		return

	case actionProgress:
		fn = h.handleProgress(messageID)

	case actionReset:
		if len(data.Params) == 0 {
			break
		}
		fn = h.handleResetCallback(messageID, data.Params[0])
	}

	if fn == nil {
		h.logger.Warn("invalid callback data", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)

	// Remove the user's "clock".
	h.answerCallback(cb.ID, "")
}

// handleAnswerCallback answers a multiple-choice question and replaces its
// keyboard with the verdict.
func (h *Handler) handleAnswerCallback(messageID, index int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		a, err := h.studyService.AnswerChoice(chatID, index)
		if err != nil {
			return h.replyStudyError(chatID, err)
		}

		edit := newEdit(chatID, messageID, bold(a.Question.Question)+"\n\n"+formatAnswerFeedback(a))
		if err := h.send(edit); err != nil {
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
}

func (h *Handler) handleResetCallback(messageID int, choice string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if choice != resetConfirm {
			return h.send(tgbotapi.NewEditMessageText(chatID, messageID, msgResetCancelled))
		}

		h.studyService.Cancel(ctx, chatID)
		if err := h.progressService.Reset(ctx); err != nil {
			return err
		}

		return h.send(tgbotapi.NewEditMessageText(chatID, messageID, msgResetDone))
	}
}

// clearKeyboard removes the inline keyboard of a question once it is acted on.
func (h *Handler) clearKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to clear keyboard", zap.Error(err))
	}
}
