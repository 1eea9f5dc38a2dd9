// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/service"
)

// Error messages.
const (
	msgNotOwner            = "This bot is private."
	msgUseMonth            = "Use: /month N, where N is 1-5."
	msgUseLesson           = "Use: /lesson M D, for example /lesson 1 3."
	msgUseExam             = "Use: /exam M, for example /exam 1."
	msgUseUnlock           = "Use: /unlock M CODE."
	msgInvalidMonth        = "Month must be a number from 1 to 5."
	msgInvalidDay          = "Day must be a number from 1 to 25."
	msgDayLocked           = "🔒 This day is locked. Finish the previous days first."
	msgExamNotActionable   = "🔒 The exam opens after all 25 days of the month are completed, and it can be taken once."
	msgContentUnavailable  = "Content for this day is not available yet."
	msgNoSession           = "There is no lesson or exam in progress. Open /progress to pick one."
	msgQuestionAnswered    = "This question was already answered."
	msgWrongCode           = "❌ Wrong code."
	msgResetCancelled      = "Reset cancelled."
	msgResetDone           = "Progress has been reset. Month 1 day 1 is waiting for you."
	msgResetConfirm        = "⚠️ This erases all progress, scores and weaknesses. Continue?"
	msgListening           = "🎤 Listening... Dictate the phrase and send the recognized text as a message."
	msgSpeechUnavailable   = "Speech check is not available, the task will be skipped."
	msgNoSpeech            = "I did not catch anything. Try again or skip."
	msgNotAllowed          = "Speech capture is not allowed. Skip the task to continue."
	msgRecognitionFailed   = "Recognition failed. Try again or skip."
	msgUnknownCommand      = "Unknown command.\n\n/progress — course overview\n/month N — days of a month\n/lesson M D — open a lesson\n/exam M — take a month exam\n/weak — review weaknesses"
	msgInternalError       = "Something went wrong. Try again later."
)

const (
	progressBarLength = 20
	daysPerRow        = 5
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeMessage builds the /start message.
func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("English in 5 months"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Every month has 25 learning days and an exam. " +
		"A day teaches new words and sentences, then checks them with exercises and pronunciation. " +
		"Score at least 14 of 20 on the exam to unlock the next month."))
	sb.WriteString("\n\n")
	sb.WriteString(md("/progress — course overview\n/month N — days of a month\n/lesson M D — open a lesson\n" +
		"/exam M — take a month exam\n/weak — review weaknesses\n/unlock M CODE — unlock a month with a code\n" +
		"/skip — skip the current task\n/reset — start over"))

	return sb.String()
}

// buildProgressBar renders current/total as a bar of the given length.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return strings.Repeat("░", length)
	}
	filled := current * length / total
	if filled > length {
		filled = length
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", length-filled)
}

// formatOverview renders the course overview.
func formatOverview(p *entities.UserProgress, months []*entities.Month) string {
	var sb strings.Builder

	sb.WriteString(bold("📊 Your progress"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("📍 Month %d, day %d", p.CurrentMonth, p.CurrentDay)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("⭐ Total score: %d", p.TotalScore)))
	sb.WriteString("\n\n")

	for i := range p.Months {
		n := i + 1
		m := &p.Months[i]

		title := ""
		if i < len(months) && months[i] != nil {
			title = months[i].Title
		}

		status := "🔒"
		switch {
		case m.ExamPassed():
			status = "🏆"
		case m.Unlocked:
			status = "📖"
		}

		line := fmt.Sprintf("%s Month %d", status, n)
		if title != "" {
			line += " · " + title
		}
		sb.WriteString(md(line))
		sb.WriteString("\n")

		if m.Unlocked {
			days := m.CompletedDays()
			sb.WriteString(md(fmt.Sprintf("%s %d/%d", buildProgressBar(days, entities.LearningDays, progressBarLength), days, entities.LearningDays)))
			if m.ExamCompleted {
				sb.WriteString(md(fmt.Sprintf(" · exam %d/%d", m.ExamScore, entities.ExamMaxScore)))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// formatMonth renders the header of a month view.
func formatMonth(p *entities.UserProgress, month *entities.Month) string {
	var sb strings.Builder

	m := p.Month(month.Number)

	sb.WriteString(bold(fmt.Sprintf("Month %d · %s", month.Number, month.Title)))
	if month.Level != "" {
		sb.WriteString(" ")
		sb.WriteString(italic("(" + month.Level + ")"))
	}
	sb.WriteString("\n\n")

	if !m.Unlocked {
		sb.WriteString(md("🔒 Locked. Pass the previous exam or use /unlock."))
		return sb.String()
	}

	sb.WriteString(md(fmt.Sprintf("✅ Days completed: %d/%d", m.CompletedDays(), entities.LearningDays)))
	sb.WriteString("\n")
	if m.ExamCompleted {
		verdict := "failed"
		if m.ExamPassed() {
			verdict = "passed"
		}
		sb.WriteString(md(fmt.Sprintf("📝 Exam: %d/%d, %s", m.ExamScore, entities.ExamMaxScore, verdict)))
	} else {
		sb.WriteString(md("📝 Exam: not taken"))
	}

	return sb.String()
}

// formatQuestion renders a session question.
func formatQuestion(s *entities.Session, q *entities.Question, speechSupported bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("Month %d · day %d", s.Month, s.Day)
	if s.Kind == entities.SessionExam {
		header = fmt.Sprintf("Month %d · exam", s.Month)
	}
	sb.WriteString(italic(fmt.Sprintf("%s · %s · %d/%d", header, categoryTitle(q), s.Current+1, len(s.Questions))))
	sb.WriteString("\n\n")
	sb.WriteString(bold(q.Question))

	if q.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(italic(q.Hint))
	}

	if q.IsPronunciation() && !speechSupported {
		sb.WriteString("\n\n")
		sb.WriteString(md(msgSpeechUnavailable))
	}

	return sb.String()
}

func categoryTitle(q *entities.Question) string {
	switch q.Category {
	case entities.CategoryVocabulary:
		return "vocabulary"
	case entities.CategorySentence:
		return "sentences"
	case entities.CategoryExercise:
		return "exercise"
	case entities.CategoryPronunciation:
		return "pronunciation"
	default:
		return string(q.Category)
	}
}

// formatAnswerFeedback renders the verdict for an answer.
func formatAnswerFeedback(a entities.Answer) string {
	switch {
	case a.Skipped:
		return md(fmt.Sprintf("⏭ Skipped. Answer: %s", a.Question.CorrectAnswer))
	case a.IsCorrect && a.Question.IsPronunciation():
		return md(fmt.Sprintf("✅ Well pronounced! I heard: %s", a.UserAnswer))
	case a.IsCorrect:
		return md("✅ Correct!")
	case a.Question.IsPronunciation():
		return md(fmt.Sprintf("❌ I heard: %s\nExpected: %s", a.UserAnswer, a.Question.CorrectAnswer))
	default:
		return md(fmt.Sprintf("❌ Wrong. Correct answer: %s", a.Question.CorrectAnswer))
	}
}

// formatResult renders the summary of a finished lesson or exam.
func formatResult(r *service.StudyResult) string {
	var sb strings.Builder

	if r.Kind == entities.SessionExam {
		sb.WriteString(bold(fmt.Sprintf("📝 Month %d exam", r.Month)))
		sb.WriteString("\n\n")
		sb.WriteString(md(fmt.Sprintf("Score: %d/%d (%d of %d correct)", r.Exam.Score, entities.ExamMaxScore, r.Correct, r.Total)))
		sb.WriteString("\n\n")
		switch {
		case r.Exam.Passed && r.Exam.UnlockedMonth > 0:
			sb.WriteString(md(fmt.Sprintf("🎉 Passed! Month %d is unlocked.", r.Exam.UnlockedMonth)))
		case r.Exam.Passed:
			sb.WriteString(md("🏆 Passed! You have finished the course."))
		default:
			sb.WriteString(md(fmt.Sprintf("You need %d to pass. Review the month and ask for an unlock code if needed.", entities.ExamPassScore)))
		}
		return sb.String()
	}

	sb.WriteString(bold(fmt.Sprintf("🎯 Day %d of month %d completed", r.Day, r.Month)))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("%d of %d correct", r.Correct, r.Total)))
	sb.WriteString("\n")
	scores := []struct {
		name  string
		value *int
	}{
		{"Vocabulary", r.DayScores.Vocabulary},
		{"Sentences", r.DayScores.Sentence},
		{"Exercises", r.DayScores.Exercise},
		{"Pronunciation", r.DayScores.Pronunciation},
	}
	for _, s := range scores {
		if s.value == nil {
			continue
		}
		sb.WriteString(md(fmt.Sprintf("• %s: %d", s.name, *s.value)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatWeaknesses renders the weakness sets with their curriculum items.
func formatWeaknesses(w entities.Weaknesses, lookup func(id string) string) string {
	var sb strings.Builder

	sb.WriteString(bold("🧩 Weaknesses"))
	sb.WriteString("\n")

	total := 0
	for _, c := range entities.WeaknessCategories {
		ids := w.Get(c)
		if len(ids) == 0 {
			continue
		}
		total += len(ids)

		sb.WriteString("\n")
		sb.WriteString(bold(fmt.Sprintf("%s (%d)", c, len(ids))))
		sb.WriteString("\n")
		for _, id := range ids {
			sb.WriteString(md("• " + lookup(id)))
			sb.WriteString("\n")
		}
	}

	if total == 0 {
		sb.WriteString("\n")
		sb.WriteString(md("Nothing to review. Keep going!"))
	}

	return sb.String()
}

// buildReminderNotification renders a reminder.
func buildReminderNotification(payload entities.ReminderPayload) string {
	var sb strings.Builder

	sb.WriteString(bold("⏰ Time to study"))
	sb.WriteString("\n\n")

	title := fmt.Sprintf("Month %d", payload.Month)
	if payload.MonthTitle != "" {
		title += " · " + payload.MonthTitle
	}
	sb.WriteString(md(title))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("✅ %d/%d days completed", payload.CompletedDays, entities.LearningDays)))
	sb.WriteString("\n\n")

	if payload.ExamPending {
		sb.WriteString(md("📝 The month exam is waiting for you."))
	} else {
		sb.WriteString(md(fmt.Sprintf("📖 Next up: day %d.", payload.Day)))
	}

	return sb.String()
}
