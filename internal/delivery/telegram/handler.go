package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	ownerID         int64
	progressService ProgressService
	studyService    StudyService
	curriculum      CurriculumService
	recognizer      *ChatRecognizer
	reminderStorage ReminderStorage
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	ownerID int64,
	progressService ProgressService,
	studyService StudyService,
	curriculum CurriculumService,
	recognizer *ChatRecognizer,
	reminderStorage ReminderStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		ownerID:         ownerID,
		progressService: progressService,
		studyService:    studyService,
		curriculum:      curriculum,
		recognizer:      recognizer,
		reminderStorage: reminderStorage,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		if !h.isOwner(update.CallbackQuery.From) {
			h.answerCallback(update.CallbackQuery.ID, msgNotOwner)
			return
		}
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if !h.isOwner(update.Message.From) {
		_ = h.send(newPlainMessage(chatID, msgNotOwner))
		return
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
		return
	}

	// Plain text while listening is the dictated transcript.
	if text := strings.TrimSpace(update.Message.Text); text != "" && h.recognizer.Deliver(text) {
		return
	}

	_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
}

func (h *Handler) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	args := m.CommandArguments()

	var fn HandlerFunc
	switch m.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = func(_ context.Context, chatID int64) error {
			return h.send(newMessage(chatID, welcomeMessage()))
		}
	case "progress":
		fn = h.handleProgress(0)
	case "month":
		fn = h.handleMonth(args, 0)
	case "lesson":
		fn = h.handleLesson(args)
	case "exam":
		fn = h.handleExam(args)
	case "unlock":
		fn = h.handleUnlock(args)
	case "weak":
		fn = h.handleWeaknesses()
	case "skip":
		fn = h.handleSkip()
	case "reset":
		fn = h.handleReset()
	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) isOwner(u *tgbotapi.User) bool {
	return h.ownerID == 0 || (u != nil && u.ID == h.ownerID)
}

func (h *Handler) sendError(chatID int64, err string) {
	_ = h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendMessage sends c and returns the id of the sent message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (int, error) {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return 0, err
	}
	return msg.MessageID, nil
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
