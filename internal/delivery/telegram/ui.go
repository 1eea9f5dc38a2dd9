package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// buildOverviewKeyboard builds one button per unlocked month.
func buildOverviewKeyboard(p *entities.UserProgress) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for i := range p.Months {
		if !p.Months[i].Unlocked {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Month %d", i+1),
			buildMonthCallback(i+1),
		))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{row}
	if next := nextLessonCallback(p); next != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Continue", next),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// nextLessonCallback points at the day under the cursor or at the pending exam.
func nextLessonCallback(p *entities.UserProgress) string {
	m := p.Month(p.CurrentMonth)
	switch {
	case entities.IsLearningDay(p.CurrentDay):
		return buildLessonCallback(p.CurrentMonth, p.CurrentDay)
	case m.AllLearningDaysCompleted() && !m.ExamCompleted:
		return buildExamCallback(p.CurrentMonth)
	default:
		return ""
	}
}

// buildMonthKeyboard builds a grid of the month's days plus the exam button.
// Locked days are shown but lead back to the month view.
func buildMonthKeyboard(p *entities.UserProgress, month int, examActionable bool) tgbotapi.InlineKeyboardMarkup {
	m := p.Month(month)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for day := 1; day <= entities.LearningDays; day++ {
		label := strconv.Itoa(day)
		data := buildLessonCallback(month, day)

		d := m.Day(day)
		switch {
		case d != nil && d.Completed:
			label = "✅ " + label
		case month > p.CurrentMonth || (month == p.CurrentMonth && day > p.CurrentDay):
			label = "🔒 " + label
			data = buildMonthCallback(month)
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		if len(row) == daysPerRow {
			rows = append(rows, row)
			row = nil
		}
	}

	if examActionable {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Take the exam", buildExamCallback(month)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back", buildProgressCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds the answer buttons of a question.
func buildQuestionKeyboard(q *entities.Question, speechSupported bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if q.IsPronunciation() {
		if speechSupported {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🎤 Speak", buildListenCallback()),
			))
		}
	} else {
		for i, option := range q.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(option, buildAnswerCallback(i)),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", buildSkipCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildRetryKeyboard is shown after a failed listen.
func buildRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎤 Try again", buildListenCallback()),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", buildSkipCallback()),
		),
	)
}

// buildSkipKeyboard is shown when listening cannot simply be retried.
func buildSkipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", buildSkipCallback()),
		),
	)
}

// buildResultKeyboard builds keyboard for the results screen.
func buildResultKeyboard(p *entities.UserProgress) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if next := nextLessonCallback(p); next != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Next", next),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildReminderKeyboard builds keyboard for reminder messages.
func buildReminderKeyboard(payload entities.ReminderPayload) tgbotapi.InlineKeyboardMarkup {
	data := buildLessonCallback(payload.Month, payload.Day)
	if payload.ExamPending {
		data = buildExamCallback(payload.Month)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Start", data),
			tgbotapi.NewInlineKeyboardButtonData("📊 Progress", buildProgressCallback()),
		),
	)
}

// buildResetKeyboard builds the reset confirmation keyboard.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}
