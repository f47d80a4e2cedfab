package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is a single quiz item from the bank. It is never mutated once loaded.
type Question struct {
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Category     string   `json:"category" yaml:"category"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct" yaml:"correct"`
}

// Validate checks the question has a prompt, four options and a correct index in range.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: %q has %d options", ErrInvalidQuestion, q.Prompt, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fmt.Errorf("%w: %q correct index %d", ErrInvalidQuestion, q.Prompt, q.CorrectIndex)
	}
	return nil
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	return q.Options[q.CorrectIndex]
}

// ValidateBank rejects an empty bank or one containing an invalid question.
func ValidateBank(bank []Question) error {
	if len(bank) == 0 {
		return ErrEmptyBank
	}
	for i := range bank {
		if err := bank[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// ShuffledQuestion is the per-presentation view of a Question with its options permuted.
type ShuffledQuestion struct {
	Index        int      `json:"index"`
	Number       int      `json:"number"`
	Prompt       string   `json:"prompt"`
	Category     string   `json:"category"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"-"`
}

// AnswerOutcome is the result of a submission or a timer expiry.
type AnswerOutcome struct {
	Correct        bool    `json:"correct"`
	TimedOut       bool    `json:"timedOut"`
	PointsAwarded  int     `json:"pointsAwarded"`
	LivesRemaining int     `json:"livesRemaining"`
	SessionEnded   bool    `json:"sessionEnded"`
	CorrectIndex   int     `json:"correctIndex"`
	Score          int     `json:"score"`
	Streak         int     `json:"streak"`
	Multiplier     float64 `json:"multiplier"`
}

// ScoreRecord is one finished session as kept by the score store.
type ScoreRecord struct {
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	BestStreak int       `json:"streak"`
	Avatar     Avatar    `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeaderboardEntry is a ranked row recomputed on every render.
type LeaderboardEntry struct {
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Streak        int    `json:"streak"`
	Avatar        Avatar `json:"avatar"`
	IsLocalPlayer bool   `json:"isLocalPlayer"`
}

// SessionSummary is reported when a session ends.
type SessionSummary struct {
	PlayerName        string `json:"playerName"`
	Score             int    `json:"score"`
	BestStreak        int    `json:"bestStreak"`
	QuestionsAnswered int    `json:"questionsAnswered"`
}
