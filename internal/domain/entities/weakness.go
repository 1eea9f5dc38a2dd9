package entities

import "slices"

// WeaknessCategory names one of the three weakness sets.
type WeaknessCategory string

const (
	WeaknessVocabulary    WeaknessCategory = "vocabulary"
	WeaknessSentences     WeaknessCategory = "sentences"
	WeaknessPronunciation WeaknessCategory = "pronunciation"
)

// WeaknessCategories lists all categories in display order.
var WeaknessCategories = []WeaknessCategory{
	WeaknessVocabulary,
	WeaknessSentences,
	WeaknessPronunciation,
}

// Weaknesses holds item ids the learner struggled with, in insertion order.
type Weaknesses struct {
	Vocabulary    []string
	Sentences     []string
	Pronunciation []string
}

// NewWeaknesses returns empty, non-nil sets.
func NewWeaknesses() Weaknesses {
	return Weaknesses{
		Vocabulary:    []string{},
		Sentences:     []string{},
		Pronunciation: []string{},
	}
}

// Clone returns a copy that shares no backing arrays.
func (w Weaknesses) Clone() Weaknesses {
	return Weaknesses{
		Vocabulary:    slices.Clone(nonNil(w.Vocabulary)),
		Sentences:     slices.Clone(nonNil(w.Sentences)),
		Pronunciation: slices.Clone(nonNil(w.Pronunciation)),
	}
}

// Get returns the ids of a category. Unknown categories yield nil.
func (w *Weaknesses) Get(category WeaknessCategory) []string {
	set := w.set(category)
	if set == nil {
		return nil
	}
	return *set
}

// Add inserts id into the category. It returns false if the id was already
// present or the category is unknown.
func (w *Weaknesses) Add(category WeaknessCategory, id string) bool {
	set := w.set(category)
	if set == nil || slices.Contains(*set, id) {
		return false
	}
	*set = append(*set, id)
	return true
}

// Remove deletes id from the category. It returns false if nothing was removed.
func (w *Weaknesses) Remove(category WeaknessCategory, id string) bool {
	set := w.set(category)
	if set == nil {
		return false
	}
	before := len(*set)
	*set = slices.DeleteFunc(*set, func(s string) bool { return s == id })
	return len(*set) != before
}

// Valid reports whether the category is one of the known ones.
func (c WeaknessCategory) Valid() bool {
	return slices.Contains(WeaknessCategories, c)
}

func (w *Weaknesses) set(category WeaknessCategory) *[]string {
	switch category {
	case WeaknessVocabulary:
		return &w.Vocabulary
	case WeaknessSentences:
		return &w.Sentences
	case WeaknessPronunciation:
		return &w.Pronunciation
	default:
		return nil
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
