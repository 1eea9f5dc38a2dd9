package entities

// Transcript is what a speech recognizer heard.
type Transcript struct {
	Text       string
	Confidence *float64 // 0-1, nil when the recognizer does not report it
}

// SpeechResult is the verdict for one utterance.
type SpeechResult struct {
	Transcript string   // as recognized, unnormalized
	Confidence *float64 // passed through from the recognizer, not used for the verdict
	Similarity float64
	IsCorrect  bool
}
