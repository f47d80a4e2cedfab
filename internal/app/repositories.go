package app

import (
	"context"

	"survival-quiz/internal/domain"
)

// ScoreStore is the external score collection: append, top-N and name lookup.
type ScoreStore interface {
	RecordScore(ctx context.Context, record domain.ScoreRecord) error
	TopScores(ctx context.Context, n int) ([]domain.ScoreRecord, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// QuestionRepository loads the question bank (from cache/backing store).
type QuestionRepository interface {
	Bank(ctx context.Context) ([]domain.Question, error)
}

// SessionRepository tracks live sessions and reserves their player names. Touch
// keeps the reservation of a live session from expiring.
type SessionRepository interface {
	Register(ctx context.Context, session *Session) error
	Get(id string) (*Session, bool)
	Touch(ctx context.Context, id string) error
	Remove(ctx context.Context, id string)
}
