package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/observe"
)

var (
	ErrSpeechUnsupported = errors.New("speech recognition is not supported")
	ErrNoSpeech          = errors.New("no speech detected")
	ErrNotAllowed        = errors.New("microphone access not allowed")
	ErrRecognition       = errors.New("speech recognition failed")
	ErrListenAborted     = errors.New("listening aborted")
)

const defaultListenTimeout = 15 * time.Second

// SpeechListener runs one recognition at a time and judges its result.
// Starting a new listen aborts the outstanding one, and every listen ends
// with exactly one outcome within the timeout.
type SpeechListener struct {
	recognizer Recognizer
	matcher    *SpeechMatcher
	timeout    time.Duration
	metrics    *observe.Metrics
	logger     *zap.Logger

	mu      sync.Mutex
	current *listenRequest
}

type listenRequest struct {
	id     string
	cancel context.CancelCauseFunc
}

type recognition struct {
	transcript entities.Transcript
	err        error
}

// NewSpeechListener creates a SpeechListener. A non-positive timeout selects
// the default of 15 seconds.
func NewSpeechListener(
	recognizer Recognizer,
	matcher *SpeechMatcher,
	timeout time.Duration,
	metrics *observe.Metrics,
	logger *zap.Logger,
) *SpeechListener {
	if timeout <= 0 {
		timeout = defaultListenTimeout
	}
	return &SpeechListener{
		recognizer: recognizer,
		matcher:    matcher,
		timeout:    timeout,
		metrics:    metrics,
		logger:     logger,
	}
}

// Supported reports whether the recognizer can be used at all.
func (l *SpeechListener) Supported() bool {
	return l.recognizer.IsSupported()
}

// Listening reports whether a listen is outstanding.
func (l *SpeechListener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// Abort stops the outstanding listen, if any. The aborted Listen call
// returns ErrListenAborted.
func (l *SpeechListener) Abort() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		l.current.cancel(ErrListenAborted)
	}
}

// Listen captures one utterance and matches it against expected.
func (l *SpeechListener) Listen(ctx context.Context, expected string) (entities.SpeechResult, error) {
	if !l.recognizer.IsSupported() {
		l.metrics.RecordListenOutcome(ctx, "unsupported")
		return entities.SpeechResult{}, ErrSpeechUnsupported
	}

	listenCtx, cancel := context.WithCancelCause(ctx)
	req := &listenRequest{id: uuid.NewString(), cancel: cancel}
	l.start(req)
	defer l.finish(req)

	timeoutCtx, cancelTimeout := context.WithTimeout(listenCtx, l.timeout)
	defer cancelTimeout()

	done := make(chan recognition, 1)
	go func() {
		t, err := l.recognizer.Recognize(timeoutCtx, expected)
		done <- recognition{transcript: t, err: err}
	}()

	var res recognition
	select {
	case res = <-done:
	case <-timeoutCtx.Done():
		res.err = timeoutCtx.Err()
	}

	if res.err != nil {
		err := l.classify(listenCtx, timeoutCtx, res.err)
		l.metrics.RecordListenOutcome(ctx, outcomeLabel(err))
		l.logger.Debug("listen finished without result",
			zap.String("listen_id", req.id),
			zap.Error(err),
		)
		return entities.SpeechResult{}, err
	}

	result := l.matcher.Match(res.transcript.Text, expected, res.transcript.Confidence)
	l.metrics.RecordListenOutcome(ctx, "result")
	l.metrics.RecordSpeechMatch(ctx, result.Similarity, result.IsCorrect)
	l.logger.Debug("utterance matched",
		zap.String("listen_id", req.id),
		zap.Float64("similarity", result.Similarity),
		zap.Bool("correct", result.IsCorrect),
	)
	return result, nil
}

// start registers req as the outstanding listen, aborting the previous one.
func (l *SpeechListener) start(req *listenRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		l.current.cancel(ErrListenAborted)
	}
	l.current = req
}

// finish returns the listener to idle unless a newer listen already took over.
func (l *SpeechListener) finish(req *listenRequest) {
	req.cancel(nil)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == req {
		l.current = nil
	}
}

// classify maps a failed recognition to one of the listener errors.
func (l *SpeechListener) classify(listenCtx, timeoutCtx context.Context, err error) error {
	switch {
	case listenCtx.Err() != nil:
		// aborted by a newer listen, Abort or the caller
		return ErrListenAborted
	case errors.Is(timeoutCtx.Err(), context.DeadlineExceeded):
		return ErrNoSpeech
	case errors.Is(err, ErrNoSpeech), errors.Is(err, ErrNotAllowed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrRecognition, err)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrListenAborted):
		return "aborted"
	case errors.Is(err, ErrNoSpeech):
		return "no_speech"
	case errors.Is(err, ErrNotAllowed):
		return "not_allowed"
	default:
		return "error"
	}
}
