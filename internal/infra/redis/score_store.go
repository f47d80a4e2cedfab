package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"survival-quiz/internal/domain"
)

const (
	scoresIndexKey = "quiz:scores"
	playersKey     = "quiz:players"
)

// ScoreStore keeps score records in Redis.
// Each record is a hash:   HSET quiz:score:{id} player_name .. score .. streak .. avatar .. created_at ..
// Ranking is a sorted set: ZADD quiz:scores {score} {id}
// Names are a set:         SADD quiz:players {player_name}
type ScoreStore struct {
	client *redis.Client
	newID  func() string
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client, newID: uuid.NewString}
}

func (s *ScoreStore) RecordScore(ctx context.Context, record domain.ScoreRecord) error {
	id := s.newID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, scoreKey(id), map[string]interface{}{
			"player_name": record.PlayerName,
			"score":       record.Score,
			"streak":      record.BestStreak,
			"avatar":      record.Avatar.String(),
			"created_at":  record.CreatedAt.Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, scoresIndexKey, redis.Z{Score: float64(record.Score), Member: id})
		pipe.SAdd(ctx, playersKey, record.PlayerName)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

func (s *ScoreStore) TopScores(ctx context.Context, n int) ([]domain.ScoreRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := s.client.ZRevRange(ctx, scoresIndexKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, scoreKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	records := make([]domain.ScoreRecord, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		records = append(records, recordFromHash(fields))
	}
	return records, nil
}

func (s *ScoreStore) NameExists(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.SIsMember(ctx, playersKey, name).Result()
	if err != nil {
		return false, fmt.Errorf("name exists: %w", err)
	}
	return exists, nil
}

func scoreKey(id string) string {
	return "quiz:score:" + id
}

func recordFromHash(fields map[string]string) domain.ScoreRecord {
	score, _ := strconv.Atoi(fields["score"])
	streak, _ := strconv.Atoi(fields["streak"])
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return domain.ScoreRecord{
		PlayerName: fields["player_name"],
		Score:      score,
		BestStreak: streak,
		Avatar:     domain.ParseAvatar(fields["avatar"]),
		CreatedAt:  createdAt,
	}
}
