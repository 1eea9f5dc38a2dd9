package entities

import "strings"

// Word is a single vocabulary item of a learning day.
type Word struct {
	ID            string `json:"id" yaml:"id"`
	English       string `json:"english" yaml:"english"`
	Translation   string `json:"translation" yaml:"translation"`
	Pronunciation string `json:"pronunciation" yaml:"pronunciation"` // IPA transcription
	Example       string `json:"example" yaml:"example"`
	ExampleTrans  string `json:"example_translation" yaml:"example_translation"`
}

// Sentence is an example sentence of a learning day.
type Sentence struct {
	ID          string   `json:"id" yaml:"id"`
	English     string   `json:"english" yaml:"english"`
	Translation string   `json:"translation" yaml:"translation"`
	Words       []string `json:"words" yaml:"words"`
}

// DayContent is the content of one learning day.
type DayContent struct {
	Day       int        `json:"day" yaml:"day"`
	Words     []Word     `json:"words" yaml:"words"`
	Sentences []Sentence `json:"sentences" yaml:"sentences"`
}

// Month is one curriculum unit.
type Month struct {
	Number     int          `json:"month" yaml:"month"`
	Title      string       `json:"title" yaml:"title"`
	Level      string       `json:"level" yaml:"level"` // difficulty label
	UnlockCode string       `json:"unlock_code" yaml:"unlock_code"`
	Days       []DayContent `json:"days" yaml:"days"`
}

// Day returns the content of a learning day or nil.
func (m *Month) Day(day int) *DayContent {
	for i := range m.Days {
		if m.Days[i].Day == day {
			return &m.Days[i]
		}
	}
	return nil
}

// AllWords returns the words of every day in day order.
func (m *Month) AllWords() []Word {
	var words []Word
	for _, d := range m.Days {
		words = append(words, d.Words...)
	}
	return words
}

// AllSentences returns the sentences of every day in day order.
func (m *Month) AllSentences() []Sentence {
	var sentences []Sentence
	for _, d := range m.Days {
		sentences = append(sentences, d.Sentences...)
	}
	return sentences
}

// SplitSentence returns the words of a sentence without punctuation.
func SplitSentence(sentence string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return -1
		}
		return r
	}, sentence)
	return strings.Fields(cleaned)
}
