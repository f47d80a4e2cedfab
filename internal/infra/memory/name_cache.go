package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"survival-quiz/internal/app"
	"survival-quiz/internal/domain"
)

var _ app.ScoreStore = (*NameCachedStore)(nil)

// NameCachedStore answers repeated NameExists lookups for taken names from an ARC
// cache. The log is append-only, so a name once seen stays taken; negative answers
// are never cached.
type NameCachedStore struct {
	app.ScoreStore
	taken *lru.ARCCache
}

func NewNameCachedStore(inner app.ScoreStore, size int) (*NameCachedStore, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("lru new instance of arc cache: %w", err)
	}
	return &NameCachedStore{ScoreStore: inner, taken: c}, nil
}

func (s *NameCachedStore) RecordScore(ctx context.Context, record domain.ScoreRecord) error {
	if err := s.ScoreStore.RecordScore(ctx, record); err != nil {
		return err
	}
	s.taken.Add(record.PlayerName, struct{}{})
	return nil
}

func (s *NameCachedStore) NameExists(ctx context.Context, name string) (bool, error) {
	if s.taken.Contains(name) {
		return true, nil
	}
	exists, err := s.ScoreStore.NameExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		s.taken.Add(name, struct{}{})
	}
	return exists, nil
}
