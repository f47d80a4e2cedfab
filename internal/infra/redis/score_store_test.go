package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"survival-quiz/internal/domain"
)

func TestScoreStoreRanksRecords(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewScoreStore(newClient(mr))
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, rec := range []domain.ScoreRecord{
		{PlayerName: "ada", Score: 300, BestStreak: 3, Avatar: domain.ParseAvatar("/avatars/ada.png"), CreatedAt: created},
		{PlayerName: "bob", Score: 900, BestStreak: 7, CreatedAt: created},
		{PlayerName: "cyd", Score: 50, BestStreak: 1, CreatedAt: created},
	} {
		if err := store.RecordScore(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	top, err := store.TopScores(ctx, 2)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 records, got %d", len(top))
	}
	if top[0].PlayerName != "bob" || top[1].PlayerName != "ada" {
		t.Fatalf("unexpected order: %s, %s", top[0].PlayerName, top[1].PlayerName)
	}
	if top[1].BestStreak != 3 || !top[1].Avatar.IsImage() || !top[1].CreatedAt.Equal(created) {
		t.Fatalf("record fields not preserved: %+v", top[1])
	}
	if top[0].Avatar != domain.DefaultAvatar {
		t.Fatalf("expected default avatar, got %q", top[0].Avatar)
	}

	exists, err := store.NameExists(ctx, "cyd")
	if err != nil || !exists {
		t.Fatalf("expected cyd to exist: %v %v", exists, err)
	}
	exists, _ = store.NameExists(ctx, "dee")
	if exists {
		t.Fatalf("expected dee unknown")
	}
}

func TestScoreStoreReportsOutage(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	store := NewScoreStore(newClient(mr))
	mr.Close()

	if _, err := store.TopScores(context.Background(), 10); err == nil {
		t.Fatalf("expected error with redis down")
	}
}
