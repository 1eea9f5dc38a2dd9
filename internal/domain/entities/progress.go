package entities

// Course layout constants.
const (
	MonthCount    = 5  // number of months in the course
	LearningDays  = 25 // learning days per month
	FirstExamDay  = 26 // first exam slot of a month
	LastExamDay   = 30 // last exam slot of a month
	ExamMaxScore  = 20 // exam scores are on a 0-20 scale
	ExamPassScore = 14 // minimal exam score that unlocks the next month
	SubScoreMax   = 100

	examScoreWeight = 10
)

// DayProgress stores the result of a single learning day.
type DayProgress struct {
	Completed     bool
	Vocabulary    int // 0-100
	Sentence      int // 0-100
	Exercise      int // 0-100
	Pronunciation int // 0-100
}

// Sum returns the sum of the four sub-scores.
func (d DayProgress) Sum() int {
	return d.Vocabulary + d.Sentence + d.Exercise + d.Pronunciation
}

// MonthProgress stores the state of one month of the course.
type MonthProgress struct {
	Unlocked bool

	// Days is indexed by day-1. A nil entry means the day was never attempted.
	Days [LearningDays]*DayProgress

	ExamScore     int // 0-20, meaningful only when ExamCompleted is true
	ExamCompleted bool
}

// Day returns the progress of a learning day or nil if it was never attempted.
func (m *MonthProgress) Day(day int) *DayProgress {
	if !IsLearningDay(day) {
		return nil
	}
	return m.Days[day-1]
}

// CompletedDays counts completed learning days.
func (m *MonthProgress) CompletedDays() int {
	n := 0
	for _, d := range m.Days {
		if d != nil && d.Completed {
			n++
		}
	}
	return n
}

// AllLearningDaysCompleted reports whether all 25 learning days are completed.
func (m *MonthProgress) AllLearningDaysCompleted() bool {
	return m.CompletedDays() == LearningDays
}

// ExamPassed reports whether the month exam was completed with a passing score.
func (m *MonthProgress) ExamPassed() bool {
	return m.ExamCompleted && m.ExamScore >= ExamPassScore
}

// UserProgress is the learner's whole course state.
type UserProgress struct {
	CurrentMonth int // furthest month reached, 1-5
	CurrentDay   int // furthest day reached in CurrentMonth, 1-30

	// Months is indexed by month-1.
	Months [MonthCount]MonthProgress

	Weaknesses Weaknesses
	TotalScore int
}

// NewUserProgress creates the default progress: month 1 unlocked, cursor at day 1.
func NewUserProgress() *UserProgress {
	p := &UserProgress{
		CurrentMonth: 1,
		CurrentDay:   1,
		Weaknesses:   NewWeaknesses(),
	}
	p.Months[0].Unlocked = true
	return p
}

// Month returns the progress of a month or nil if the number is out of range.
func (p *UserProgress) Month(month int) *MonthProgress {
	if !IsValidMonth(month) {
		return nil
	}
	return &p.Months[month-1]
}

// Clone returns a deep copy of the progress.
func (p *UserProgress) Clone() *UserProgress {
	c := *p
	for i := range c.Months {
		for j, d := range p.Months[i].Days {
			if d != nil {
				dc := *d
				c.Months[i].Days[j] = &dc
			}
		}
	}
	c.Weaknesses = p.Weaknesses.Clone()
	return &c
}

// RecalculateTotal recomputes TotalScore from scratch over all months.
func (p *UserProgress) RecalculateTotal() {
	total := 0
	for i := range p.Months {
		m := &p.Months[i]
		for _, d := range m.Days {
			if d != nil {
				total += d.Sum()
			}
		}
		total += m.ExamScore * examScoreWeight
	}
	p.TotalScore = total
}

// AdvanceDay moves the cursor to day within the current month. The cursor
// never moves backwards; it returns false when nothing changed.
func (p *UserProgress) AdvanceDay(month, day int) bool {
	if month != p.CurrentMonth || day <= p.CurrentDay {
		return false
	}
	p.CurrentDay = day
	return true
}

// AdvanceMonth moves the cursor to the first day of month if that is ahead of
// the current position.
func (p *UserProgress) AdvanceMonth(month int) bool {
	if month <= p.CurrentMonth {
		return false
	}
	p.CurrentMonth = month
	p.CurrentDay = 1
	return true
}

// CompletedDays counts completed learning days across the whole course.
func (p *UserProgress) CompletedDays() int {
	n := 0
	for i := range p.Months {
		n += p.Months[i].CompletedDays()
	}
	return n
}

// PassedExams counts months whose exam was passed.
func (p *UserProgress) PassedExams() int {
	n := 0
	for i := range p.Months {
		if p.Months[i].ExamPassed() {
			n++
		}
	}
	return n
}

// IsValidMonth reports whether month is within 1-5.
func IsValidMonth(month int) bool {
	return month >= 1 && month <= MonthCount
}

// IsLearningDay reports whether day is within 1-25.
func IsLearningDay(day int) bool {
	return day >= 1 && day <= LearningDays
}

// IsExamDay reports whether day is one of the exam slots 26-30.
func IsExamDay(day int) bool {
	return day >= FirstExamDay && day <= LastExamDay
}

// IsValidDay reports whether day is within 1-30.
func IsValidDay(day int) bool {
	return day >= 1 && day <= LastExamDay
}
