// Package observe provides the bot's OpenTelemetry metric instruments and the
// Prometheus bridge used to scrape them.
//
// Tests should build [Metrics] with [NewMetrics] and their own
// [metric.MeterProvider] instead of relying on the global one.
package observe

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all course metrics.
const meterName = "github.com/aliskhannn/english-course-bot"

// Metrics holds all metric instruments of the application.
type Metrics struct {
	// DaysCompleted counts completed learning days. Attribute: month.
	DaysCompleted metric.Int64Counter

	// ExamsCompleted counts recorded exams. Attributes: month, passed.
	ExamsCompleted metric.Int64Counter

	// UnlockAttempts counts admin code attempts. Attributes: month, status.
	UnlockAttempts metric.Int64Counter

	// SpeechMatches counts judged utterances. Attribute: correct.
	SpeechMatches metric.Int64Counter

	// SpeechSimilarity records the similarity ratio of judged utterances.
	SpeechSimilarity metric.Float64Histogram

	// ListenOutcomes counts how listens ended. Attribute: outcome.
	ListenOutcomes metric.Int64Counter

	// ProgressSaveDuration tracks the latency of persisting the progress document.
	ProgressSaveDuration metric.Float64Histogram

	// ProgressSaveErrors counts failed progress writes.
	ProgressSaveErrors metric.Int64Counter

	// ActiveSessions tracks lessons and exams in progress. Attribute: kind.
	ActiveSessions metric.Int64UpDownCounter
}

var similarityBuckets = []float64{0.2, 0.4, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1}

var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// NewMetrics creates all instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.DaysCompleted, err = m.Int64Counter("course.days.completed",
		metric.WithDescription("Completed learning days by month."),
	); err != nil {
		return nil, err
	}
	if met.ExamsCompleted, err = m.Int64Counter("course.exams.completed",
		metric.WithDescription("Recorded exams by month and result."),
	); err != nil {
		return nil, err
	}
	if met.UnlockAttempts, err = m.Int64Counter("course.unlock.attempts",
		metric.WithDescription("Admin unlock code attempts by month and status."),
	); err != nil {
		return nil, err
	}
	if met.SpeechMatches, err = m.Int64Counter("course.speech.matches",
		metric.WithDescription("Judged utterances by verdict."),
	); err != nil {
		return nil, err
	}
	if met.SpeechSimilarity, err = m.Float64Histogram("course.speech.similarity",
		metric.WithDescription("Similarity ratio of judged utterances."),
		metric.WithExplicitBucketBoundaries(similarityBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ListenOutcomes, err = m.Int64Counter("course.listen.outcomes",
		metric.WithDescription("Speech listens by outcome."),
	); err != nil {
		return nil, err
	}
	if met.ProgressSaveDuration, err = m.Float64Histogram("course.progress.save.duration",
		metric.WithDescription("Latency of persisting the progress document."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ProgressSaveErrors, err = m.Int64Counter("course.progress.save.errors",
		metric.WithDescription("Failed progress document writes."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("course.sessions.active",
		metric.WithDescription("Lessons and exams in progress."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordDayCompleted increments the completed days counter.
func (m *Metrics) RecordDayCompleted(ctx context.Context, month int) {
	m.DaysCompleted.Add(ctx, 1, metric.WithAttributes(monthAttr(month)))
}

// RecordExam increments the exam counter.
func (m *Metrics) RecordExam(ctx context.Context, month int, passed bool) {
	m.ExamsCompleted.Add(ctx, 1,
		metric.WithAttributes(
			monthAttr(month),
			attribute.Bool("passed", passed),
		),
	)
}

// RecordUnlockAttempt increments the unlock attempt counter.
func (m *Metrics) RecordUnlockAttempt(ctx context.Context, month int, ok bool) {
	status := "rejected"
	if ok {
		status = "unlocked"
	}
	m.UnlockAttempts.Add(ctx, 1,
		metric.WithAttributes(
			monthAttr(month),
			attribute.String("status", status),
		),
	)
}

// RecordSpeechMatch records one judged utterance.
func (m *Metrics) RecordSpeechMatch(ctx context.Context, similarity float64, correct bool) {
	m.SpeechMatches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("correct", correct)))
	m.SpeechSimilarity.Record(ctx, similarity)
}

// RecordListenOutcome increments the listen outcome counter.
func (m *Metrics) RecordListenOutcome(ctx context.Context, outcome string) {
	m.ListenOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// SessionStarted increments the active sessions gauge.
func (m *Metrics) SessionStarted(ctx context.Context, kind string) {
	m.ActiveSessions.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// SessionEnded decrements the active sessions gauge.
func (m *Metrics) SessionEnded(ctx context.Context, kind string) {
	m.ActiveSessions.Add(ctx, -1, metric.WithAttributes(attribute.String("kind", kind)))
}

func monthAttr(month int) attribute.KeyValue {
	return attribute.String("month", strconv.Itoa(month))
}
