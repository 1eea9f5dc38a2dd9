package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// SendReminder sends a study reminder, replacing the previous one so the
// chat holds at most one.
func (h *Handler) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	if prev, ok := h.reminderStorage.Get(chatID); ok {
		del := tgbotapi.NewDeleteMessage(chatID, prev.MessageID)
		if _, err := h.bot.Request(del); err != nil {
			h.logger.Debug("failed to delete previous reminder",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", prev.MessageID),
				zap.Error(err),
			)
		}
		h.reminderStorage.Delete(chatID)
	}

	msg := newMessage(chatID, buildReminderNotification(payload))
	msg.ReplyMarkup = buildReminderKeyboard(payload)

	id, err := h.sendMessage(msg)
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	h.reminderStorage.Store(chatID, id)
	return nil
}
