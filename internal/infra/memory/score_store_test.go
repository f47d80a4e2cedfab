package memory

import (
	"context"
	"errors"
	"testing"

	"survival-quiz/internal/domain"
)

func TestScoreStoreTopScores(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()
	for _, rec := range []domain.ScoreRecord{
		{PlayerName: "ada", Score: 300},
		{PlayerName: "bob", Score: 900},
		{PlayerName: "cyd", Score: 300},
		{PlayerName: "dee", Score: 50},
	} {
		if err := store.RecordScore(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	top, err := store.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	want := []string{"bob", "ada", "cyd"}
	if len(top) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(top))
	}
	for i, name := range want {
		if top[i].PlayerName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, top[i].PlayerName)
		}
	}
}

func TestScoreStoreKeepsEveryRecord(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()
	_ = store.RecordScore(ctx, domain.ScoreRecord{PlayerName: "ada", Score: 100})
	_ = store.RecordScore(ctx, domain.ScoreRecord{PlayerName: "ada", Score: 200})

	top, _ := store.TopScores(ctx, 10)
	if len(top) != 2 {
		t.Fatalf("expected append-only log with 2 records, got %d", len(top))
	}

	exists, err := store.NameExists(ctx, "ada")
	if err != nil || !exists {
		t.Fatalf("expected ada to exist, got %v %v", exists, err)
	}
	exists, _ = store.NameExists(ctx, "Ada")
	if exists {
		t.Fatalf("expected exact-match name check")
	}
}

func TestNameCachedStore(t *testing.T) {
	inner := &countingScoreStore{ScoreStore: NewScoreStore()}
	store, err := NewNameCachedStore(inner, 16)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	ctx := context.Background()

	if exists, _ := store.NameExists(ctx, "ada"); exists {
		t.Fatalf("expected unknown name")
	}
	if err := store.RecordScore(ctx, domain.ScoreRecord{PlayerName: "ada", Score: 10}); err != nil {
		t.Fatalf("record: %v", err)
	}
	for i := 0; i < 3; i++ {
		if exists, _ := store.NameExists(ctx, "ada"); !exists {
			t.Fatalf("expected ada taken")
		}
	}
	if inner.nameChecks != 1 {
		t.Fatalf("expected a single inner name check, got %d", inner.nameChecks)
	}

	inner.err = errors.New("offline")
	if _, err := store.NameExists(ctx, "bob"); err == nil {
		t.Fatalf("expected inner error for uncached name")
	}
}

type countingScoreStore struct {
	*ScoreStore
	nameChecks int
	err        error
}

func (s *countingScoreStore) NameExists(ctx context.Context, name string) (bool, error) {
	s.nameChecks++
	if s.err != nil {
		return false, s.err
	}
	return s.ScoreStore.NameExists(ctx, name)
}
