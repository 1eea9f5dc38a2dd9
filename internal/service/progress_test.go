package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

func TestProgressStoreDefaultsOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := newTestStore(t, repo)

	p, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	assertDefaults(t, p)

	if _, err := s.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if repo.loads != 1 {
		t.Errorf("loads = %d, want 1", repo.loads)
	}
	if repo.saves != 0 {
		t.Errorf("saves = %d, reading must not save", repo.saves)
	}
}

func TestProgressStoreLoadsSavedDocument(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}

	first := newTestStore(t, repo)
	if err := first.CompleteDay(ctx, 1, 1, entities.DayScores{Vocabulary: entities.Score(90)}); err != nil {
		t.Fatalf("CompleteDay: %v", err)
	}

	second := newTestStore(t, repo)
	p, err := second.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if p.CurrentDay != 2 || p.TotalScore != 90 {
		t.Errorf("reloaded cursor day %d, total %d, want 2, 90", p.CurrentDay, p.TotalScore)
	}
}

func TestProgressStoreMalformedDocument(t *testing.T) {
	repo := &memoryRepo{doc: []byte("{{{ not json")}
	s := newTestStore(t, repo)

	p, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	assertDefaults(t, p)
}

func TestProgressStoreSaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := newTestStore(t, repo)

	if err := s.CompleteDay(ctx, 1, 1, entities.DayScores{Vocabulary: entities.Score(50)}); err != nil {
		t.Fatalf("CompleteDay: %v", err)
	}
	saved := string(repo.doc)

	repo.saveErr = errSaveFailed
	err := s.CompleteDay(ctx, 1, 2, entities.DayScores{Vocabulary: entities.Score(70)})
	if !errors.Is(err, errSaveFailed) {
		t.Fatalf("CompleteDay: err = %v, want %v", err, errSaveFailed)
	}

	p, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if p.CurrentDay != 2 || p.TotalScore != 50 || p.Months[0].Day(2) != nil {
		t.Errorf("in-memory state advanced past storage: day %d, total %d", p.CurrentDay, p.TotalScore)
	}
	if string(repo.doc) != saved {
		t.Error("stored document changed")
	}
}

func TestProgressStoreSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &memoryRepo{})

	p, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	p.Months[4].Unlocked = true
	p.Weaknesses.Add(entities.WeaknessVocabulary, "x")

	again, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if again.Months[4].Unlocked || len(again.Weaknesses.Vocabulary) != 0 {
		t.Error("snapshot shares state with the store")
	}
}

func TestProgressStoreUnlockWithCode(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := newTestStore(t, repo)

	ok, err := s.UnlockWithCode(ctx, 2, "wrong")
	if err != nil || ok {
		t.Fatalf("UnlockWithCode(wrong) = %v, %v", ok, err)
	}
	if repo.saves != 0 {
		t.Errorf("wrong code saved the document")
	}

	ok, err = s.UnlockWithCode(ctx, 2, "44")
	if err != nil || !ok {
		t.Fatalf("UnlockWithCode(44) = %v, %v", ok, err)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}

	p, _ := s.Snapshot(ctx)
	if !p.Months[1].Unlocked || p.CurrentMonth != 1 || p.CurrentDay != 1 {
		t.Errorf("month 2 unlocked %v, cursor %d/%d", p.Months[1].Unlocked, p.CurrentMonth, p.CurrentDay)
	}
}

func TestProgressStoreExamFlow(t *testing.T) {
	tests := []struct {
		score      int
		wantUnlock bool
	}{
		{14, true},
		{13, false},
	}

	for _, tt := range tests {
		ctx := context.Background()
		s := newTestStore(t, &memoryRepo{})

		for day := 1; day <= entities.LearningDays; day++ {
			if err := s.CompleteDay(ctx, 1, day, entities.DayScores{Exercise: entities.Score(100)}); err != nil {
				t.Fatalf("CompleteDay(%d): %v", day, err)
			}
		}

		ok, err := s.IsExamActionable(ctx, 1)
		if err != nil || !ok {
			t.Fatalf("IsExamActionable = %v, %v", ok, err)
		}

		out, err := s.CompleteExam(ctx, 1, tt.score)
		if err != nil {
			t.Fatalf("CompleteExam: %v", err)
		}
		if out.Passed != tt.wantUnlock {
			t.Errorf("score %d: Passed = %v", tt.score, out.Passed)
		}

		p, _ := s.Snapshot(ctx)
		if p.Months[1].Unlocked != tt.wantUnlock {
			t.Errorf("score %d: month 2 unlocked = %v", tt.score, p.Months[1].Unlocked)
		}
		if want := 25*100 + tt.score*10; p.TotalScore != want {
			t.Errorf("score %d: TotalScore = %d, want %d", tt.score, p.TotalScore, want)
		}

		open, _ := s.IsDayAccessible(ctx, 2, 1)
		if open != tt.wantUnlock {
			t.Errorf("score %d: month 2 day 1 accessible = %v", tt.score, open)
		}
	}
}

func TestProgressStoreExamUpdatesStoredTotal(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := newTestStore(t, repo)

	if err := s.CompleteDay(ctx, 1, entities.LearningDays, entities.DayScores{Vocabulary: entities.Score(50)}); err != nil {
		t.Fatalf("CompleteDay: %v", err)
	}
	if _, err := s.CompleteExam(ctx, 1, 14); err != nil {
		t.Fatalf("CompleteExam: %v", err)
	}

	p, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if p.TotalScore != 190 {
		t.Errorf("TotalScore = %d, want 190", p.TotalScore)
	}

	stored := gjson.GetBytes(repo.doc, "totalScore").Int()
	if stored != 190 {
		t.Errorf("stored totalScore = %d, want 190", stored)
	}
}

func TestProgressStoreUpdateWeaknesses(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := newTestStore(t, repo)

	if err := s.AddWeakness(ctx, entities.WeaknessSentences, "s1"); err != nil {
		t.Fatalf("AddWeakness: %v", err)
	}
	if err := s.AddWeakness(ctx, entities.WeaknessSentences, "s1"); err != nil {
		t.Fatalf("AddWeakness: %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, a repeated add must not save", repo.saves)
	}

	err := s.UpdateWeaknesses(ctx,
		map[entities.WeaknessCategory][]string{entities.WeaknessVocabulary: {"w1", "w2"}},
		map[entities.WeaknessCategory][]string{entities.WeaknessSentences: {"s1"}},
	)
	if err != nil {
		t.Fatalf("UpdateWeaknesses: %v", err)
	}
	if repo.saves != 2 {
		t.Errorf("saves = %d, want one save per batch", repo.saves)
	}

	p, _ := s.Snapshot(ctx)
	if len(p.Weaknesses.Vocabulary) != 2 || len(p.Weaknesses.Sentences) != 0 {
		t.Errorf("Weaknesses = %+v", p.Weaknesses)
	}

	if err := s.RemoveWeakness(ctx, entities.WeaknessVocabulary, "w1"); err != nil {
		t.Fatalf("RemoveWeakness: %v", err)
	}
	if err := s.AddWeakness(ctx, "grammar", "x"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("AddWeakness(grammar): err = %v", err)
	}
}

func TestProgressStoreReset(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := newTestStore(t, repo)

	if _, err := s.UnlockWithCode(ctx, 3, "234"); err != nil {
		t.Fatalf("UnlockWithCode: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if repo.doc != nil {
		t.Error("document not erased")
	}

	p, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	assertDefaults(t, p)

	// a fresh store over the same backend starts from defaults too
	p, err = newTestStore(t, repo).Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	assertDefaults(t, p)
}
