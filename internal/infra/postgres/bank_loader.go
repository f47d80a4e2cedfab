package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"survival-quiz/internal/domain"
)

// BankLoader loads the question bank from the questions table.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT prompt, category, options, correct FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var bank []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Prompt, &q.Category, &q.Options, &q.CorrectIndex); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		bank = append(bank, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if len(bank) == 0 {
		return nil, domain.ErrEmptyBank
	}
	return bank, nil
}

// SeedBank inserts the bank when the questions table is empty. It reports how many
// questions were inserted.
func SeedBank(ctx context.Context, pool *pgxpool.Pool, bank []domain.Question) (int, error) {
	if err := domain.ValidateBank(bank); err != nil {
		return 0, err
	}

	inserted := 0
	err := pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, q := range bank {
			batch.Queue(`INSERT INTO questions (prompt, category, options, correct) VALUES ($1, $2, $3, $4)`,
				q.Prompt, q.Category, q.Options, q.CorrectIndex)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
		inserted = len(bank)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed bank: %w", err)
	}
	return inserted, nil
}
