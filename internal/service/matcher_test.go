package service

import (
	"math"
	"testing"
)

func TestSpeechMatcher(t *testing.T) {
	m := NewSpeechMatcher()

	tests := []struct {
		name       string
		transcript string
		expected   string
		wantSim    float64
		wantOK     bool
	}{
		{"exact", "hello", "hello", 1.0, true},
		{"case and punctuation", "  Hello!  ", "hello.", 1.0, true},
		{"embedded punctuation", "yes, I do", "Yes I do!", 1.0, true},
		{"boundary is not enough", "helo", "hello", 0.8, false},
		{"unrelated", "xyzzy", "hello", 0.0, false},
		{"one typo in a sentence", "i like coffe", "I like coffee.", 12.0 / 13.0, true},
		{"both empty", "", "", 1.0, true},
		{"only punctuation", "?!", "", 1.0, true},
		{"nothing heard", "", "hello", 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match(tt.transcript, tt.expected, nil)
			if math.Abs(res.Similarity-tt.wantSim) > 1e-9 {
				t.Errorf("Similarity = %v, want %v", res.Similarity, tt.wantSim)
			}
			if res.IsCorrect != tt.wantOK {
				t.Errorf("IsCorrect = %v, want %v", res.IsCorrect, tt.wantOK)
			}
			if res.Transcript != tt.transcript {
				t.Errorf("Transcript = %q, want the raw %q", res.Transcript, tt.transcript)
			}
		})
	}
}

func TestSpeechMatcherConfidencePassthrough(t *testing.T) {
	m := NewSpeechMatcher()

	low := 0.05
	res := m.Match("hello", "hello", &low)
	if !res.IsCorrect {
		t.Error("low confidence changed the verdict")
	}
	if res.Confidence == nil || *res.Confidence != low {
		t.Errorf("Confidence = %v, want %v", res.Confidence, low)
	}

	high := 0.99
	if res := m.Match("xyzzy", "hello", &high); res.IsCorrect {
		t.Error("high confidence changed the verdict")
	}
}

func TestLevenshteinIsMetric(t *testing.T) {
	words := []string{"", "a", "hello", "helo", "hallo", "world", "word", "kitten", "sitting", "привет", "приве"}

	for _, a := range words {
		if d := levenshteinDistance(a, a); d != 0 {
			t.Errorf("d(%q, %q) = %d, want 0", a, a, d)
		}
		for _, b := range words {
			ab := levenshteinDistance(a, b)
			if ba := levenshteinDistance(b, a); ab != ba {
				t.Errorf("d(%q, %q) = %d but d(%q, %q) = %d", a, b, ab, b, a, ba)
			}
			for _, c := range words {
				if ac, bc := levenshteinDistance(a, c), levenshteinDistance(b, c); ac > ab+bc {
					t.Errorf("triangle inequality broken for %q, %q, %q", a, b, c)
				}
			}
		}
	}

	if d := levenshteinDistance("kitten", "sitting"); d != 3 {
		t.Errorf("d(kitten, sitting) = %d, want 3", d)
	}
	if d := levenshteinDistance("привет", "приве"); d != 1 {
		t.Errorf("d counts bytes instead of runes: %d", d)
	}
}
