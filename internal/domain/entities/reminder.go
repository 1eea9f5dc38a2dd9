package entities

// ReminderPayload is the content of a study reminder.
type ReminderPayload struct {
	Month         int
	Day           int
	MonthTitle    string
	CompletedDays int // learning days completed in Month
	ExamPending   bool
	TotalScore    int
}
