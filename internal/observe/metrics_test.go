package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumFor(t *testing.T, rm metricdata.ResourceMetrics, name string, kv attribute.KeyValue) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is not an int64 sum", name)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(kv.Key); ok && v.Emit() == kv.Value.Emit() {
			total += dp.Value
		}
	}
	return total
}

func TestRecordDayCompleted(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDayCompleted(ctx, 1)
	m.RecordDayCompleted(ctx, 1)
	m.RecordDayCompleted(ctx, 2)

	rm := collect(t, reader)
	if got := sumFor(t, rm, "course.days.completed", attribute.String("month", "1")); got != 2 {
		t.Errorf("month 1 = %d, want 2", got)
	}
	if got := sumFor(t, rm, "course.days.completed", attribute.String("month", "2")); got != 1 {
		t.Errorf("month 2 = %d, want 1", got)
	}
}

func TestRecordExamAndUnlock(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordExam(ctx, 1, true)
	m.RecordExam(ctx, 1, false)
	m.RecordUnlockAttempt(ctx, 2, false)
	m.RecordUnlockAttempt(ctx, 2, true)
	m.RecordUnlockAttempt(ctx, 2, true)

	rm := collect(t, reader)
	if got := sumFor(t, rm, "course.exams.completed", attribute.Bool("passed", true)); got != 1 {
		t.Errorf("passed exams = %d, want 1", got)
	}
	if got := sumFor(t, rm, "course.unlock.attempts", attribute.String("status", "unlocked")); got != 2 {
		t.Errorf("unlocked = %d, want 2", got)
	}
	if got := sumFor(t, rm, "course.unlock.attempts", attribute.String("status", "rejected")); got != 1 {
		t.Errorf("rejected = %d, want 1", got)
	}
}

func TestRecordSpeechMatch(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordSpeechMatch(ctx, 1.0, true)
	m.RecordSpeechMatch(ctx, 0.8, false)

	rm := collect(t, reader)
	met := findMetric(rm, "course.speech.similarity")
	if met == nil {
		t.Fatal("similarity histogram not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("similarity metric is not a histogram")
	}
	if len(hist.DataPoints) == 0 || hist.DataPoints[0].Count != 2 {
		t.Errorf("similarity samples = %+v, want 2", hist.DataPoints)
	}
	if got := sumFor(t, rm, "course.speech.matches", attribute.Bool("correct", false)); got != 1 {
		t.Errorf("incorrect matches = %d, want 1", got)
	}
}

func TestActiveSessionsUpDown(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.ActiveSessions.Add(ctx, 1)
	m.ActiveSessions.Add(ctx, 1)
	m.ActiveSessions.Add(ctx, -1)

	rm := collect(t, reader)
	met := findMetric(rm, "course.sessions.active")
	if met == nil {
		t.Fatal("metric not found")
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("not an int64 sum")
	}
	if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 1 {
		t.Errorf("active sessions = %+v, want 1", sum.DataPoints)
	}
}
