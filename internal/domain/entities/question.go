package entities

// QuestionType describes what a question asks for.
type QuestionType string

const (
	QuestionWordMeaning     QuestionType = "word_meaning"     // english word -> translation
	QuestionMeaningWord     QuestionType = "meaning_word"     // translation -> english word
	QuestionSentenceMeaning QuestionType = "sentence_meaning" // english sentence -> translation
	QuestionSentenceFill    QuestionType = "sentence_fill"    // pick the missing word
	QuestionPronunciation   QuestionType = "pronunciation"    // say the phrase aloud
)

// Question is a single lesson or exam task.
type Question struct {
	ItemID        string           // id of the word or sentence the question is built from
	Type          QuestionType
	Category      ScoreCategory    // which lesson sub-score the answer counts towards
	Weakness      WeaknessCategory // where a wrong answer is recorded
	Question      string
	Hint          string
	Options       []string // empty for pronunciation questions
	CorrectIndex  int
	CorrectAnswer string
}

// IsPronunciation reports whether the question expects a spoken answer.
func (q *Question) IsPronunciation() bool {
	return q.Type == QuestionPronunciation
}

// ScoreCategory names one of the four lesson sub-scores.
type ScoreCategory string

const (
	CategoryVocabulary    ScoreCategory = "vocabulary"
	CategorySentence      ScoreCategory = "sentence"
	CategoryExercise      ScoreCategory = "exercise"
	CategoryPronunciation ScoreCategory = "pronunciation"
)
