package app

import (
	"time"

	"survival-quiz/internal/domain"
)

// Update types sent to the presentation layer.
const (
	UpdateStarted     = "started"
	UpdateQuestion    = "question"
	UpdateTick        = "tick"
	UpdateOutcome     = "outcome"
	UpdateLeaderboard = "leaderboard"
	UpdateGameOver    = "gameOver"
	UpdateScoreSaved  = "scoreSaved"
)

// Update is one render instruction for the presentation layer.
type Update struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Presenter receives state snapshots and outcomes. Present is called from the
// session loop and must not block for long.
type Presenter interface {
	Present(update Update)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(update Update)

func (f PresenterFunc) Present(update Update) {
	f(update)
}

type StartedPayload struct {
	SessionID string        `json:"sessionId"`
	Player    string        `json:"player"`
	Avatar    domain.Avatar `json:"avatar"`
	MaxLives  int           `json:"maxLives"`
}

type QuestionPayload struct {
	Question   domain.ShuffledQuestion `json:"question"`
	TimeLeft   int                     `json:"timeLeft"`
	Lives      int                     `json:"lives"`
	Score      int                     `json:"score"`
	Streak     int                     `json:"streak"`
	Multiplier float64                 `json:"multiplier"`
	Reshuffled bool                    `json:"reshuffled"`
}

type TickPayload struct {
	TimeLeft int `json:"timeLeft"`
}

type LeaderboardPayload struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
	Remote  bool                      `json:"remote"`
}

type GameOverPayload struct {
	Summary domain.SessionSummary `json:"summary"`
}

type ScoreSavedPayload struct {
	Saved bool `json:"saved"`
}

// Scheduler runs f once after d. The returned stop func cancels it if it has not fired.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type realScheduler struct{}

// RealScheduler schedules on the runtime timer.
func RealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
