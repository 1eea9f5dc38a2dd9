package service

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// SpeechMatcher judges whether a transcribed utterance matches the expected
// phrase using a normalized Levenshtein similarity.
type SpeechMatcher struct {
	threshold float64 // similarity must be strictly greater than this
}

// NewSpeechMatcher creates a new SpeechMatcher.
func NewSpeechMatcher() *SpeechMatcher {
	return &SpeechMatcher{
		threshold: 0.8,
	}
}

// Match scores transcript against expected. The confidence is passed through
// to the result and does not affect the verdict.
func (m *SpeechMatcher) Match(transcript, expected string, confidence *float64) entities.SpeechResult {
	spoken := normalizeUtterance(transcript)
	want := normalizeUtterance(expected)

	res := entities.SpeechResult{
		Transcript: transcript,
		Confidence: confidence,
	}

	// Exact match
	if spoken == want {
		res.Similarity = 1.0
		res.IsCorrect = true
		return res
	}

	res.Similarity = similarity(spoken, want)
	res.IsCorrect = res.Similarity > m.threshold
	return res
}

// Similarity returns the similarity ratio of two phrases after normalization.
func (m *SpeechMatcher) Similarity(a, b string) float64 {
	return similarity(normalizeUtterance(a), normalizeUtterance(b))
}

// normalizeUtterance lowercases s, drops sentence punctuation and trims
// surrounding whitespace.
func normalizeUtterance(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// similarity computes (L-d)/L where d is the edit distance and L the length
// of the longer string in runes. Two empty strings are identical.
func similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshteinDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen)
}

// levenshteinDistance counts single-rune insertions, deletions and
// substitutions needed to turn a into b.
func levenshteinDistance(a, b string) int {
	return matchr.Levenshtein(a, b)
}
