package telegram

import (
	"context"
	"sync"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/service"
)

// ChatRecognizer turns the learner's next text message into a transcript.
// Phones dictate into the message field, so the message is the recognized speech.
type ChatRecognizer struct {
	enabled bool

	mu       sync.Mutex
	pending  chan string // accepts the next message
	prepared chan string // handed to the next Recognize call
}

// NewChatRecognizer creates a ChatRecognizer. A disabled recognizer reports
// itself as unsupported.
func NewChatRecognizer(enabled bool) *ChatRecognizer {
	return &ChatRecognizer{enabled: enabled}
}

func (r *ChatRecognizer) IsSupported() bool {
	return r.enabled
}

// Prepare starts accepting messages for the next Recognize call, so text sent
// right after the listening prompt is not lost. The returned func stops
// accepting them if that call never happens.
func (r *ChatRecognizer) Prepare() (release func()) {
	if !r.enabled {
		return func() {}
	}

	ch := make(chan string, 1)

	r.mu.Lock()
	r.pending = ch
	r.prepared = ch
	r.mu.Unlock()

	return func() { r.drop(ch) }
}

// Recognize waits for the next delivered message.
func (r *ChatRecognizer) Recognize(ctx context.Context, _ string) (entities.Transcript, error) {
	if !r.enabled {
		return entities.Transcript{}, service.ErrNotAllowed
	}
	if err := ctx.Err(); err != nil {
		return entities.Transcript{}, err
	}

	r.mu.Lock()
	ch := r.prepared
	r.prepared = nil
	if ch == nil {
		ch = make(chan string, 1)
		r.pending = ch
	}
	r.mu.Unlock()

	defer r.drop(ch)

	select {
	case text := <-ch:
		return entities.Transcript{Text: text}, nil
	case <-ctx.Done():
		return entities.Transcript{}, ctx.Err()
	}
}

// Deliver hands text to a waiting Recognize call. It reports false when
// nothing is listening.
func (r *ChatRecognizer) Deliver(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == nil {
		return false
	}
	r.pending <- text
	r.pending = nil
	return true
}

func (r *ChatRecognizer) drop(ch chan string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == ch {
		r.pending = nil
	}
	if r.prepared == ch {
		r.prepared = nil
	}
}
