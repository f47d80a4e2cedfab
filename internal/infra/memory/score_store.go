package memory

import (
	"context"
	"sort"
	"sync"

	"survival-quiz/internal/domain"
)

// ScoreStore keeps an append-only log of score records in process memory.
type ScoreStore struct {
	mu      sync.RWMutex
	records []domain.ScoreRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) RecordScore(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *ScoreStore) TopScores(_ context.Context, n int) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	out := make([]domain.ScoreRecord, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *ScoreStore) NameExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.PlayerName == name {
			return true, nil
		}
	}
	return false, nil
}
