package entities

// DayScores is a partial set of day sub-scores. Nil fields are left untouched
// when merged into a DayProgress.
type DayScores struct {
	Vocabulary    *int
	Sentence      *int
	Exercise      *int
	Pronunciation *int
}

// Score returns a pointer to v for building DayScores literals.
func Score(v int) *int {
	return &v
}

// Each calls fn for every provided sub-score.
func (s DayScores) Each(fn func(v int)) {
	for _, v := range []*int{s.Vocabulary, s.Sentence, s.Exercise, s.Pronunciation} {
		if v != nil {
			fn(*v)
		}
	}
}

// MergeInto copies the provided sub-scores into d.
func (s DayScores) MergeInto(d *DayProgress) {
	if s.Vocabulary != nil {
		d.Vocabulary = *s.Vocabulary
	}
	if s.Sentence != nil {
		d.Sentence = *s.Sentence
	}
	if s.Exercise != nil {
		d.Exercise = *s.Exercise
	}
	if s.Pronunciation != nil {
		d.Pronunciation = *s.Pronunciation
	}
}
