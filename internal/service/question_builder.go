package service

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

const (
	lessonExerciseWords       = 3
	lessonPronunciationWords  = 3
	lessonPronunciationPhrase = 2

	examQuestionsPerType     = 4
	examPronunciationWords   = 2
	examPronunciationPhrases = 2

	blank = "______"
)

// QuestionBuilder turns curriculum content into lesson and exam questions.
type QuestionBuilder struct {
	options *OptionGenerator
}

// NewQuestionBuilder creates a QuestionBuilder.
func NewQuestionBuilder(options *OptionGenerator) *QuestionBuilder {
	return &QuestionBuilder{options: options}
}

// LessonQuestions builds the tasks of a learning day in lesson order:
// vocabulary, sentences, exercises, pronunciation.
func (b *QuestionBuilder) LessonQuestions(day *entities.DayContent) []entities.Question {
	words, sentences := day.Words, day.Sentences

	translations := wordTranslations(words)
	english := wordsEnglish(words)

	var fillPool []string
	fillPool = append(fillPool, english...)
	for _, s := range sentences {
		fillPool = append(fillPool, entities.SplitSentence(s.English)...)
	}

	questions := make([]entities.Question, 0, 2*len(words)+len(sentences)+lessonPronunciationPhrase)

	for _, w := range words {
		questions = append(questions, b.wordMeaning(w, translations, entities.CategoryVocabulary))
	}
	for _, s := range sentences {
		tokens := entities.SplitSentence(s.English)
		if len(tokens) == 0 {
			continue
		}
		questions = append(questions, b.sentenceFill(s, tokens, len(tokens)/2, fillPool))
	}
	for _, w := range head(words, lessonExerciseWords) {
		questions = append(questions, b.meaningWord(w, english, entities.CategoryExercise))
	}
	for _, w := range head(words, lessonPronunciationWords) {
		questions = append(questions, pronounceWord(w))
	}
	for _, s := range head(sentences, lessonPronunciationPhrase) {
		questions = append(questions, pronounceSentence(s))
	}

	return questions
}

// ExamQuestions builds a shuffled month exam: 4 questions of each choice type
// drawn at random from the whole month, plus 2 words and 2 sentences to
// pronounce.
func (b *QuestionBuilder) ExamQuestions(month *entities.Month) []entities.Question {
	words := month.AllWords()
	sentences := month.AllSentences()

	translations := wordTranslations(words)
	english := wordsEnglish(words)
	sentenceTranslations := make([]string, 0, len(sentences))
	for _, s := range sentences {
		sentenceTranslations = append(sentenceTranslations, s.Translation)
	}

	questions := make([]entities.Question, 0, 5*examQuestionsPerType)

	meaningWords := b.sampleWords(words, examQuestionsPerType)
	for _, w := range meaningWords {
		questions = append(questions, b.wordMeaning(w, translations, entities.CategoryVocabulary))
	}
	for _, w := range b.sampleWords(words, examQuestionsPerType) {
		questions = append(questions, b.meaningWord(w, english, entities.CategoryExercise))
	}

	meaningSentences := b.sampleSentences(sentences, examQuestionsPerType)
	for _, s := range meaningSentences {
		questions = append(questions, b.sentenceMeaning(s, sentenceTranslations))
	}
	for _, s := range b.sampleSentences(sentences, examQuestionsPerType) {
		tokens := entities.SplitSentence(s.English)
		if len(tokens) == 0 {
			continue
		}
		questions = append(questions, b.sentenceFill(s, tokens, b.options.Intn(len(tokens)), english))
	}

	for _, w := range head(meaningWords, examPronunciationWords) {
		questions = append(questions, pronounceWord(w))
	}
	for _, s := range head(meaningSentences, examPronunciationPhrases) {
		questions = append(questions, pronounceSentence(s))
	}

	b.options.ShuffleQuestions(questions)
	return questions
}

func (b *QuestionBuilder) wordMeaning(w entities.Word, pool []string, category entities.ScoreCategory) entities.Question {
	options, correctIndex := b.options.Options(w.Translation, pool)
	return entities.Question{
		ItemID:        w.ID,
		Type:          entities.QuestionWordMeaning,
		Category:      category,
		Weakness:      entities.WeaknessVocabulary,
		Question:      fmt.Sprintf("What does %q mean?", w.English),
		Hint:          w.Pronunciation,
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: w.Translation,
	}
}

func (b *QuestionBuilder) meaningWord(w entities.Word, pool []string, category entities.ScoreCategory) entities.Question {
	options, correctIndex := b.options.Options(w.English, pool)
	return entities.Question{
		ItemID:        w.ID,
		Type:          entities.QuestionMeaningWord,
		Category:      category,
		Weakness:      entities.WeaknessVocabulary,
		Question:      fmt.Sprintf("Which word means %q?", w.Translation),
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: w.English,
	}
}

func (b *QuestionBuilder) sentenceMeaning(s entities.Sentence, pool []string) entities.Question {
	options, correctIndex := b.options.Options(s.Translation, pool)
	return entities.Question{
		ItemID:        s.ID,
		Type:          entities.QuestionSentenceMeaning,
		Category:      entities.CategorySentence,
		Weakness:      entities.WeaknessSentences,
		Question:      fmt.Sprintf("What does this sentence mean?\n%q", s.English),
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: s.Translation,
	}
}

// sentenceFill blanks out tokens[missing] and asks for it.
func (b *QuestionBuilder) sentenceFill(s entities.Sentence, tokens []string, missing int, pool []string) entities.Question {
	answer := tokens[missing]

	blanked := make([]string, len(tokens))
	copy(blanked, tokens)
	blanked[missing] = blank

	options, correctIndex := b.options.Options(answer, pool)
	return entities.Question{
		ItemID:        s.ID,
		Type:          entities.QuestionSentenceFill,
		Category:      entities.CategorySentence,
		Weakness:      entities.WeaknessSentences,
		Question:      fmt.Sprintf("Fill in the blank: %q", strings.Join(blanked, " ")),
		Hint:          s.Translation,
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: answer,
	}
}

func pronounceWord(w entities.Word) entities.Question {
	return entities.Question{
		ItemID:        w.ID,
		Type:          entities.QuestionPronunciation,
		Category:      entities.CategoryPronunciation,
		Weakness:      entities.WeaknessPronunciation,
		Question:      fmt.Sprintf("Say it aloud: %q", w.English),
		Hint:          w.Pronunciation,
		CorrectAnswer: w.English,
	}
}

func pronounceSentence(s entities.Sentence) entities.Question {
	return entities.Question{
		ItemID:        s.ID,
		Type:          entities.QuestionPronunciation,
		Category:      entities.CategoryPronunciation,
		Weakness:      entities.WeaknessPronunciation,
		Question:      fmt.Sprintf("Say it aloud: %q", s.English),
		Hint:          s.Translation,
		CorrectAnswer: s.English,
	}
}

func (b *QuestionBuilder) sampleWords(words []entities.Word, n int) []entities.Word {
	out := make([]entities.Word, 0, n)
	for _, i := range b.options.Sample(len(words), n) {
		out = append(out, words[i])
	}
	return out
}

func (b *QuestionBuilder) sampleSentences(sentences []entities.Sentence, n int) []entities.Sentence {
	out := make([]entities.Sentence, 0, n)
	for _, i := range b.options.Sample(len(sentences), n) {
		out = append(out, sentences[i])
	}
	return out
}

func wordTranslations(words []entities.Word) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w.Translation)
	}
	return out
}

func wordsEnglish(words []entities.Word) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w.English)
	}
	return out
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		return items
	}
	return items[:n]
}
