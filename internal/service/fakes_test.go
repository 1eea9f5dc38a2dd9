package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
	"github.com/aliskhannn/english-course-bot/internal/observe"
	"github.com/aliskhannn/english-course-bot/internal/repository"
)

var errSaveFailed = errors.New("disk full")

// staticCodes is an UnlockCodeSource with the default course codes.
type staticCodes map[int]string

func (c staticCodes) UnlockCode(month int) (string, error) {
	code, ok := c[month]
	if !ok {
		return "", repository.ErrContentUnavailable
	}
	return code, nil
}

var testCodes = staticCodes{1: "33", 2: "44", 3: "234", 4: "1234", 5: "676"}

// memoryRepo is a ProgressRepository that can be told to fail.
type memoryRepo struct {
	mu      sync.Mutex
	doc     []byte
	saves   int
	loads   int
	saveErr error
	onSave  func()
}

func (r *memoryRepo) Load(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.doc == nil {
		return nil, repository.ErrDocumentNotFound
	}
	return r.doc, nil
}

func (r *memoryRepo) Save(_ context.Context, doc []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onSave != nil {
		r.onSave()
	}
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.doc = append([]byte(nil), doc...)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = nil
	return nil
}

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	m, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func newTestStore(t *testing.T, repo ProgressRepository) *ProgressStore {
	t.Helper()
	return NewProgressStore(repo, NewGatingEngine(testCodes), NewScoreAggregator(), testMetrics(t), zap.NewNop())
}

// completeMonthDays marks all learning days of month completed with the given
// sub-score in every category.
func completeMonthDays(t *testing.T, p *entities.UserProgress, month, score int) {
	t.Helper()
	a := NewScoreAggregator()
	for day := 1; day <= entities.LearningDays; day++ {
		s := entities.DayScores{
			Vocabulary:    entities.Score(score),
			Sentence:      entities.Score(score),
			Exercise:      entities.Score(score),
			Pronunciation: entities.Score(score),
		}
		if err := a.CompleteDay(p, month, day, s); err != nil {
			t.Fatalf("CompleteDay(%d, %d): %v", month, day, err)
		}
	}
}

// testMonth builds a month with n days of 5 words and 3 sentences each.
func testMonth(number, days int) *entities.Month {
	m := &entities.Month{Number: number, Title: "Test"}
	for d := 1; d <= days; d++ {
		content := entities.DayContent{Day: d}
		for i := 1; i <= 5; i++ {
			content.Words = append(content.Words, entities.Word{
				ID:          itemTestID(d, 'w', i),
				English:     "word" + itemTestID(d, 'w', i),
				Translation: "meaning" + itemTestID(d, 'w', i),
			})
		}
		for i := 1; i <= 3; i++ {
			content.Sentences = append(content.Sentences, entities.Sentence{
				ID:          itemTestID(d, 's', i),
				English:     "I like sentence " + itemTestID(d, 's', i) + " a lot.",
				Translation: "translation " + itemTestID(d, 's', i),
			})
		}
		m.Days = append(m.Days, content)
	}
	return m
}

func itemTestID(day int, kind byte, n int) string {
	return string(rune('a'+day)) + string(kind) + string(rune('0'+n))
}

func seededOptions(seed int64) *OptionGenerator {
	return NewOptionGenerator(rand.New(rand.NewSource(seed)))
}
