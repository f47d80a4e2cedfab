package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"survival-quiz/internal/domain"
)

// ScoreStore appends and ranks score records in the scores table.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) RecordScore(ctx context.Context, record domain.ScoreRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (player_name, score, streak, avatar, created_at) VALUES ($1, $2, $3, $4, $5)`,
		record.PlayerName, record.Score, record.BestStreak, record.Avatar.String(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *ScoreStore) TopScores(ctx context.Context, n int) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT player_name, score, streak, avatar, created_at FROM scores ORDER BY score DESC, id ASC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var records []domain.ScoreRecord
	for rows.Next() {
		var (
			rec    domain.ScoreRecord
			avatar string
		)
		if err := rows.Scan(&rec.PlayerName, &rec.Score, &rec.BestStreak, &avatar, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		rec.Avatar = domain.ParseAvatar(avatar)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return records, nil
}

func (s *ScoreStore) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM scores WHERE player_name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}
	return exists, nil
}
