package service

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

func TestOptionGeneratorOptions(t *testing.T) {
	g := seededOptions(1)
	pool := []string{"cat", "Dog", "bird", "", "fish", "dog", "horse"}

	for i := 0; i < 50; i++ {
		options, correctIndex := g.Options("dog", pool)

		if len(options) != 4 {
			t.Fatalf("len(options) = %d, want 4", len(options))
		}
		if options[correctIndex] != "dog" {
			t.Fatalf("options[%d] = %q, want the correct answer", correctIndex, options[correctIndex])
		}
		seen := make(map[string]bool)
		for _, o := range options {
			key := strings.ToLower(o)
			if o == "" || seen[key] {
				t.Fatalf("bad options %q", options)
			}
			seen[key] = true
		}
	}
}

func TestOptionGeneratorSmallPool(t *testing.T) {
	g := seededOptions(1)

	options, correctIndex := g.Options("yes", []string{"yes", "no"})
	if len(options) != 2 || options[correctIndex] != "yes" {
		t.Errorf("Options = %q, %d", options, correctIndex)
	}

	options, correctIndex = g.Options("alone", nil)
	if len(options) != 1 || correctIndex != 0 {
		t.Errorf("Options = %q, %d", options, correctIndex)
	}
}

func TestOptionGeneratorDoesNotTouchPool(t *testing.T) {
	g := seededOptions(3)
	pool := []string{"a", "b", "c", "d", "e"}
	g.Options("a", pool)

	if !reflect.DeepEqual(pool, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("pool reordered: %q", pool)
	}
}

func TestOptionGeneratorSample(t *testing.T) {
	g := seededOptions(5)

	got := g.Sample(10, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	seen := make(map[int]bool)
	for _, i := range got {
		if i < 0 || i >= 10 || seen[i] {
			t.Fatalf("bad sample %v", got)
		}
		seen[i] = true
	}

	if got := g.Sample(3, 10); len(got) != 3 {
		t.Errorf("Sample(3, 10) returned %d indices", len(got))
	}
}

func TestLessonQuestions(t *testing.T) {
	b := NewQuestionBuilder(seededOptions(1))
	day := testMonth(1, 1).Day(1)

	questions := b.LessonQuestions(day)

	wantTypes := []entities.QuestionType{
		entities.QuestionWordMeaning, entities.QuestionWordMeaning, entities.QuestionWordMeaning,
		entities.QuestionWordMeaning, entities.QuestionWordMeaning,
		entities.QuestionSentenceFill, entities.QuestionSentenceFill, entities.QuestionSentenceFill,
		entities.QuestionMeaningWord, entities.QuestionMeaningWord, entities.QuestionMeaningWord,
		entities.QuestionPronunciation, entities.QuestionPronunciation, entities.QuestionPronunciation,
		entities.QuestionPronunciation, entities.QuestionPronunciation,
	}
	if len(questions) != len(wantTypes) {
		t.Fatalf("len(questions) = %d, want %d", len(questions), len(wantTypes))
	}

	for i, q := range questions {
		if q.Type != wantTypes[i] {
			t.Errorf("question %d type = %s, want %s", i, q.Type, wantTypes[i])
		}
		if q.ItemID == "" {
			t.Errorf("question %d has no item id", i)
		}
		if q.IsPronunciation() {
			if len(q.Options) != 0 {
				t.Errorf("question %d: pronunciation with options", i)
			}
			continue
		}
		if q.Options[q.CorrectIndex] != q.CorrectAnswer {
			t.Errorf("question %d: options[%d] = %q, want %q", i, q.CorrectIndex, q.Options[q.CorrectIndex], q.CorrectAnswer)
		}
	}

	fill := questions[5]
	// "I like sentence bs1 a lot." blanks its middle token
	if fill.CorrectAnswer != itemTestID(1, 's', 1) || !strings.Contains(fill.Question, blank) {
		t.Errorf("fill question = %q, answer %q", fill.Question, fill.CorrectAnswer)
	}

	categories := map[entities.ScoreCategory]int{}
	for _, q := range questions {
		categories[q.Category]++
	}
	want := map[entities.ScoreCategory]int{
		entities.CategoryVocabulary:    5,
		entities.CategorySentence:      3,
		entities.CategoryExercise:      3,
		entities.CategoryPronunciation: 5,
	}
	if !reflect.DeepEqual(categories, want) {
		t.Errorf("categories = %v, want %v", categories, want)
	}
}

func TestExamQuestions(t *testing.T) {
	month := testMonth(2, entities.LearningDays)

	questions := NewQuestionBuilder(seededOptions(9)).ExamQuestions(month)
	if len(questions) != 20 {
		t.Fatalf("len(questions) = %d, want 20", len(questions))
	}

	types := map[entities.QuestionType]int{}
	for _, q := range questions {
		types[q.Type]++
		if !q.IsPronunciation() && q.Options[q.CorrectIndex] != q.CorrectAnswer {
			t.Errorf("%s %q: wrong correct index", q.Type, q.Question)
		}
	}
	want := map[entities.QuestionType]int{
		entities.QuestionWordMeaning:     4,
		entities.QuestionMeaningWord:     4,
		entities.QuestionSentenceMeaning: 4,
		entities.QuestionSentenceFill:    4,
		entities.QuestionPronunciation:   4,
	}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("types = %v, want %v", types, want)
	}
}

func TestExamQuestionsDeterministic(t *testing.T) {
	month := testMonth(3, entities.LearningDays)

	a := NewQuestionBuilder(seededOptions(42)).ExamQuestions(month)
	b := NewQuestionBuilder(seededOptions(42)).ExamQuestions(month)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different exams")
	}

	c := NewQuestionBuilder(seededOptions(43)).ExamQuestions(month)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced the same exam")
	}
}
