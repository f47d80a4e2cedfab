package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/logging"
)

var (
	scoresBucket  = []byte("scores")
	playersBucket = []byte("players")
)

// ScoreStore keeps score records in a local bbolt file. Records are keyed by the
// bucket sequence, so iteration order is insertion order.
type ScoreStore struct {
	db *bolt.DB
}

func Open(ctx context.Context, path string) (*ScoreStore, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening score db %s", path)

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("creating connection DB: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{scoresBucket, playersBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ScoreStore{db: db}, nil
}

func (s *ScoreStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("error close DB connection: %w", err)
	}
	return nil
}

func (s *ScoreStore) RecordScore(_ context.Context, record domain.ScoreRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(scoresBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		if err := b.Put(encodeUint64(seq), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return tx.Bucket(playersBucket).Put([]byte(record.PlayerName), encodeUint64(seq))
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}
	return nil
}

func (s *ScoreStore) TopScores(_ context.Context, n int) ([]domain.ScoreRecord, error) {
	var records []domain.ScoreRecord
	if err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(scoresBucket).ForEach(func(_, v []byte) error {
			var rec domain.ScoreRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode score: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if n >= 0 && len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (s *ScoreStore) NameExists(_ context.Context, name string) (bool, error) {
	var exists bool
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(playersBucket).Get([]byte(name)) != nil
		return nil
	}); err != nil {
		return false, fmt.Errorf("view transaction error: %w", err)
	}
	return exists, nil
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
