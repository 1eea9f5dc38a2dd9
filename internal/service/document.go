package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// ErrMalformedDocument is returned when a stored progress document is not a JSON object.
var ErrMalformedDocument = errors.New("malformed progress document")

// progressDocument is the persisted shape of UserProgress.
// Month and day maps are keyed by their decimal number.
type progressDocument struct {
	CurrentMonth int                      `json:"currentMonth"`
	CurrentDay   int                      `json:"currentDay"`
	Months       map[string]monthDocument `json:"months"`
	Weaknesses   weaknessDocument         `json:"weaknesses"`
	TotalScore   int                      `json:"totalScore"`
}

type monthDocument struct {
	Unlocked      bool                   `json:"unlocked"`
	Days          map[string]dayDocument `json:"days"`
	ExamScore     int                    `json:"examScore"`
	ExamCompleted bool                   `json:"examCompleted"`
}

type dayDocument struct {
	Completed          bool `json:"completed"`
	VocabularyScore    int  `json:"vocabularyScore"`
	SentenceScore      int  `json:"sentenceScore"`
	ExerciseScore      int  `json:"exerciseScore"`
	PronunciationScore int  `json:"pronunciationScore"`
}

type weaknessDocument struct {
	Vocabulary    []string `json:"vocabulary"`
	Sentences     []string `json:"sentences"`
	Pronunciation []string `json:"pronunciation"`
}

// EncodeProgress serializes the full progress document.
func EncodeProgress(p *entities.UserProgress) ([]byte, error) {
	w := p.Weaknesses.Clone()
	doc := progressDocument{
		CurrentMonth: p.CurrentMonth,
		CurrentDay:   p.CurrentDay,
		Months:       make(map[string]monthDocument, entities.MonthCount),
		Weaknesses: weaknessDocument{
			Vocabulary:    w.Vocabulary,
			Sentences:     w.Sentences,
			Pronunciation: w.Pronunciation,
		},
		TotalScore: p.TotalScore,
	}

	for m := 1; m <= entities.MonthCount; m++ {
		month := p.Month(m)
		md := monthDocument{
			Unlocked:      month.Unlocked,
			Days:          make(map[string]dayDocument),
			ExamScore:     month.ExamScore,
			ExamCompleted: month.ExamCompleted,
		}
		for d := 1; d <= entities.LearningDays; d++ {
			day := month.Day(d)
			if day == nil {
				continue
			}
			md.Days[strconv.Itoa(d)] = dayDocument{
				Completed:          day.Completed,
				VocabularyScore:    day.Vocabulary,
				SentenceScore:      day.Sentence,
				ExerciseScore:      day.Exercise,
				PronunciationScore: day.Pronunciation,
			}
		}
		doc.Months[strconv.Itoa(m)] = md
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	return data, nil
}

// DecodeProgress merges a stored document over the defaults field by field.
// Missing or wrongly shaped fields keep their default value and unknown keys
// are ignored. If the document is not a JSON object, the defaults are returned
// together with ErrMalformedDocument.
func DecodeProgress(data []byte) (*entities.UserProgress, error) {
	p := entities.NewUserProgress()

	if !gjson.ValidBytes(data) {
		return p, ErrMalformedDocument
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return p, ErrMalformedDocument
	}

	if v, ok := intField(root.Get("currentMonth"), 1, entities.MonthCount); ok {
		p.CurrentMonth = v
	}
	if v, ok := intField(root.Get("currentDay"), 1, entities.LastExamDay); ok {
		p.CurrentDay = v
	}

	months := root.Get("months")
	if months.IsObject() {
		for m := 1; m <= entities.MonthCount; m++ {
			decodeMonth(p.Month(m), months.Get(strconv.Itoa(m)))
		}
	}
	// month 1 is always open
	p.Months[0].Unlocked = true

	weaknesses := root.Get("weaknesses")
	if weaknesses.IsObject() {
		for _, c := range entities.WeaknessCategories {
			ids := weaknesses.Get(string(c))
			if !ids.IsArray() {
				continue
			}
			for _, id := range ids.Array() {
				if id.Type == gjson.String {
					p.Weaknesses.Add(c, id.Str)
				}
			}
		}
	}

	p.RecalculateTotal()
	return p, nil
}

func decodeMonth(m *entities.MonthProgress, r gjson.Result) {
	if !r.IsObject() {
		return
	}

	if v, ok := boolField(r.Get("unlocked")); ok {
		m.Unlocked = v
	}

	days := r.Get("days")
	if days.IsObject() {
		for d := 1; d <= entities.LearningDays; d++ {
			dr := days.Get(strconv.Itoa(d))
			if !dr.IsObject() {
				continue
			}
			m.Days[d-1] = decodeDay(dr)
		}
	}

	completed, _ := boolField(r.Get("examCompleted"))
	score, ok := intField(r.Get("examScore"), 0, entities.ExamMaxScore)
	if completed && ok {
		m.ExamCompleted = true
		m.ExamScore = score
	}
}

func decodeDay(r gjson.Result) *entities.DayProgress {
	d := &entities.DayProgress{}
	d.Completed, _ = boolField(r.Get("completed"))

	fields := []struct {
		key string
		dst *int
	}{
		{"vocabularyScore", &d.Vocabulary},
		{"sentenceScore", &d.Sentence},
		{"exerciseScore", &d.Exercise},
		{"pronunciationScore", &d.Pronunciation},
	}
	for _, f := range fields {
		if v, ok := intField(r.Get(f.key), 0, entities.SubScoreMax); ok {
			*f.dst = v
		}
	}
	return d
}

// intField returns the integral value of r if it is a number within [lo, hi].
func intField(r gjson.Result, lo, hi int) (int, bool) {
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		return 0, false
	}
	if r.Num < float64(lo) || r.Num > float64(hi) {
		return 0, false
	}
	return int(r.Num), true
}

func boolField(r gjson.Result) (bool, bool) {
	switch r.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	default:
		return false, false
	}
}
