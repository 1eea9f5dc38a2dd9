package repository

import (
	"fmt"
	"strconv"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// normalizeMonth orders the days, fills days without authored content with
// generic practice material, and derives missing ids and sentence words.
func normalizeMonth(m *entities.Month) error {
	if m.UnlockCode == "" {
		m.UnlockCode = defaultUnlockCodes[m.Number]
	}

	byDay := make(map[int]entities.DayContent, len(m.Days))
	for _, d := range m.Days {
		if !entities.IsLearningDay(d.Day) {
			return fmt.Errorf("%w: month %d has day %d", ErrInvalidCurriculum, m.Number, d.Day)
		}
		if _, ok := byDay[d.Day]; ok {
			return fmt.Errorf("%w: month %d day %d defined twice", ErrInvalidCurriculum, m.Number, d.Day)
		}
		byDay[d.Day] = d
	}

	days := make([]entities.DayContent, 0, entities.LearningDays)
	for day := 1; day <= entities.LearningDays; day++ {
		d, ok := byDay[day]
		if !ok {
			d = entities.DayContent{Day: day}
		}
		if len(d.Words) == 0 {
			d.Words = fillerWords(m.Number, day)
		}
		if len(d.Sentences) == 0 {
			d.Sentences = fillerSentences()
		}

		for i := range d.Words {
			if d.Words[i].ID == "" {
				d.Words[i].ID = itemID(m.Number, day, 'w', i+1)
			}
		}
		for i := range d.Sentences {
			s := &d.Sentences[i]
			if s.ID == "" {
				s.ID = itemID(m.Number, day, 's', i+1)
			}
			if len(s.Words) == 0 {
				s.Words = entities.SplitSentence(s.English)
			}
		}
		days = append(days, d)
	}

	m.Days = days
	return nil
}

func itemID(month, day int, kind byte, n int) string {
	return "m" + strconv.Itoa(month) + "d" + strconv.Itoa(day) + string(kind) + strconv.Itoa(n)
}

func fillerWords(month, day int) []entities.Word {
	d := strconv.Itoa(day)
	return []entities.Word{
		{
			English:       "word" + strconv.Itoa(month*100+day),
			Translation:   "کلمه " + d,
			Pronunciation: "wɜːrd",
			Example:       "This is word " + d,
			ExampleTrans:  "این کلمه " + d + " است.",
		},
		{English: "example", Translation: "مثال", Pronunciation: "ɪɡˈzæmpl", Example: "This is an example.", ExampleTrans: "این یک مثال است."},
		{English: "practice", Translation: "تمرین", Pronunciation: "ˈpræktɪs", Example: "I practice every day.", ExampleTrans: "من هر روز تمرین می‌کنم."},
		{English: "study", Translation: "مطالعه", Pronunciation: "ˈstʌdi", Example: "I study English.", ExampleTrans: "من انگلیسی می‌خوانم."},
		{English: "improve", Translation: "بهبود", Pronunciation: "ɪmˈpruːv", Example: "I want to improve.", ExampleTrans: "می‌خوام پیشرفت کنم."},
	}
}

func fillerSentences() []entities.Sentence {
	return []entities.Sentence{
		{English: "I study English every day.", Translation: "من هر روز انگلیسی می‌خوانم."},
		{English: "Practice makes perfect.", Translation: "تمرین کمال می‌آورد."},
		{English: "I want to improve my English.", Translation: "می‌خوام انگلیسی‌ام را بهتر کنم."},
	}
}
