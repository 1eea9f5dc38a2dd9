package repository

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

func TestBuiltinCurriculum(t *testing.T) {
	r, err := NewCurriculumRepository("")
	if err != nil {
		t.Fatalf("NewCurriculumRepository: %v", err)
	}

	if got := len(r.Months()); got != entities.MonthCount {
		t.Fatalf("months = %d, want %d", got, entities.MonthCount)
	}
	for _, m := range r.Months() {
		if len(m.Days) != entities.LearningDays {
			t.Errorf("month %d has %d days, want %d", m.Number, len(m.Days), entities.LearningDays)
		}
	}

	codes := map[int]string{1: "33", 2: "44", 3: "234", 4: "1234", 5: "676"}
	for month, want := range codes {
		got, err := r.UnlockCode(month)
		if err != nil {
			t.Fatalf("UnlockCode(%d): %v", month, err)
		}
		if got != want {
			t.Errorf("UnlockCode(%d) = %q, want %q", month, got, want)
		}
	}

	d, err := r.Day(1, 1)
	if err != nil {
		t.Fatalf("Day(1, 1): %v", err)
	}
	if d.Words[0].ID != "m1d1w1" || d.Words[0].English != "hello" {
		t.Errorf("first word = %+v, want m1d1w1 hello", d.Words[0])
	}
}

func TestBuiltinCurriculum_FillerDays(t *testing.T) {
	r, err := NewCurriculumRepository("")
	if err != nil {
		t.Fatalf("NewCurriculumRepository: %v", err)
	}

	d, err := r.Day(2, 10)
	if err != nil {
		t.Fatalf("Day(2, 10): %v", err)
	}
	if d.Words[0].English != "word210" || d.Words[0].ID != "m2d10w1" {
		t.Errorf("filler word = %+v, want word210 with id m2d10w1", d.Words[0])
	}
	if len(d.Sentences) != 3 || d.Sentences[1].ID != "m2d10s2" {
		t.Fatalf("filler sentences = %+v", d.Sentences)
	}
	if want := []string{"Practice", "makes", "perfect"}; !slices.Equal(d.Sentences[1].Words, want) {
		t.Errorf("sentence words = %v, want %v", d.Sentences[1].Words, want)
	}

	// authored sentences without a word list get one derived
	d, err = r.Day(2, 1)
	if err != nil {
		t.Fatalf("Day(2, 1): %v", err)
	}
	if len(d.Sentences[0].Words) == 0 {
		t.Error("expected derived words for authored sentence")
	}
}

func TestCurriculum_ContentUnavailable(t *testing.T) {
	r, err := NewCurriculumRepository("")
	if err != nil {
		t.Fatalf("NewCurriculumRepository: %v", err)
	}

	tests := []struct {
		name       string
		month, day int
	}{
		{"month zero", 0, 1},
		{"month six", 6, 1},
		{"day zero", 1, 0},
		{"exam slot", 1, 26},
		{"past the month", 3, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Day(tt.month, tt.day)
			if !errors.Is(err, ErrContentUnavailable) {
				t.Errorf("Day(%d, %d) error = %v, want ErrContentUnavailable", tt.month, tt.day, err)
			}
		})
	}
}

func TestCurriculum_YAMLFile(t *testing.T) {
	doc := `months:
  - month: 1
    title: One
    level: A1
    days:
      - day: 1
        words:
          - english: cat
            translation: گربه
        sentences:
          - english: "The cat is black."
            translation: گربه سیاه است.
  - month: 2
    unlock_code: "999"
  - month: 3
  - month: 4
  - month: 5
`
	path := filepath.Join(t.TempDir(), "course.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := NewCurriculumRepository(path)
	if err != nil {
		t.Fatalf("NewCurriculumRepository: %v", err)
	}

	d, err := r.Day(1, 1)
	if err != nil {
		t.Fatalf("Day(1, 1): %v", err)
	}
	if d.Words[0].ID != "m1d1w1" || d.Words[0].English != "cat" {
		t.Errorf("word = %+v", d.Words[0])
	}
	if want := []string{"The", "cat", "is", "black"}; !slices.Equal(d.Sentences[0].Words, want) {
		t.Errorf("words = %v, want %v", d.Sentences[0].Words, want)
	}

	if code, _ := r.UnlockCode(2); code != "999" {
		t.Errorf("UnlockCode(2) = %q, want 999", code)
	}
	if code, _ := r.UnlockCode(3); code != "234" {
		t.Errorf("UnlockCode(3) = %q, want default 234", code)
	}
}

func TestCurriculum_InvalidSources(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{
			name: "unsupported extension",
			path: write("course.json", "{}"),
			want: ErrUnsupportedFormat,
		},
		{
			name: "missing month",
			path: write("four.yaml", "months:\n  - month: 1\n  - month: 2\n  - month: 3\n  - month: 4\n"),
			want: ErrInvalidCurriculum,
		},
		{
			name: "duplicate month",
			path: write("dup.yaml", "months:\n  - month: 1\n  - month: 1\n  - month: 3\n  - month: 4\n  - month: 5\n"),
			want: ErrInvalidCurriculum,
		},
		{
			name: "day out of range",
			path: write("day.yaml", "months:\n  - month: 1\n    days:\n      - day: 26\n  - month: 2\n  - month: 3\n  - month: 4\n  - month: 5\n"),
			want: ErrInvalidCurriculum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurriculumRepository(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCurriculum_XLSXWorkbook(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	if err := f.SetSheetName("Sheet1", sheetMonths); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{sheetWords, sheetSentences} {
		if _, err := f.NewSheet(s); err != nil {
			t.Fatal(err)
		}
	}

	rows := map[string][][]any{
		sheetMonths: {
			{"month", "title", "level", "unlock_code"},
			{1, "Greetings", "Very Beginner", "11"},
			{2, "Family", "Beginner", ""},
			{3, "Daily life", "Elementary", ""},
			{4, "Travel", "Elementary+", ""},
			{5, "Future", "Pre-Intermediate", ""},
		},
		sheetWords: {
			{"month", "day", "id", "english", "translation", "pronunciation", "example", "example_translation"},
			{1, 1, "w-hello", "hello", "سلام", "həˈloʊ", "Hello!", "سلام!"},
			{1, 1, "", "hi", "سلام", "haɪ", "Hi!", "سلام!"},
		},
		sheetSentences: {
			{"month", "day", "id", "english", "translation", "words"},
			{1, 1, "s-1", "Hello, good morning!", "سلام، صبح بخیر!", "Hello good morning"},
		},
	}
	for sheet, data := range rows {
		for i, row := range data {
			cellName, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "course.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	r, err := NewCurriculumRepository(path)
	if err != nil {
		t.Fatalf("NewCurriculumRepository: %v", err)
	}

	m, err := r.Month(1)
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "Greetings" || m.UnlockCode != "11" {
		t.Errorf("month 1 = %q / %q", m.Title, m.UnlockCode)
	}

	d, err := r.Day(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Words) != 2 || d.Words[0].ID != "w-hello" || d.Words[1].ID != "m1d1w2" {
		t.Errorf("words = %+v", d.Words)
	}
	if want := []string{"Hello", "good", "morning"}; !slices.Equal(d.Sentences[0].Words, want) {
		t.Errorf("sentence words = %v, want %v", d.Sentences[0].Words, want)
	}

	if code, _ := r.UnlockCode(4); code != "1234" {
		t.Errorf("UnlockCode(4) = %q, want default", code)
	}
}
