package game

import (
	"math"
	"time"
)

const (
	multiplierStep      = 3
	multiplierIncrement = 0.5
	minMultiplier       = 1.0
	maxMultiplier       = 5.0
)

// Config holds the rules constants of a survival session.
type Config struct {
	MaxLives        int
	BasePoints      int
	TimeBonusRate   int
	StreakBonusRate int
	TimerSeconds    int
	SettleDelay     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxLives:        3,
		BasePoints:      100,
		TimeBonusRate:   10,
		StreakBonusRate: 5,
		TimerSeconds:    15,
		SettleDelay:     3 * time.Second,
	}
}

// Multiplier steps up by 0.5 for every three consecutive correct answers, capped at 5.
func Multiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	m := minMultiplier + float64(streak/multiplierStep)*multiplierIncrement
	return math.Min(math.Max(m, minMultiplier), maxMultiplier)
}

// Points scores a correct answer given the seconds left and the streak before answering.
func (c Config) Points(timeLeft, streak int, multiplier float64) int {
	raw := c.BasePoints + timeLeft*c.TimeBonusRate + streak*c.StreakBonusRate
	return int(math.Round(float64(raw) * multiplier))
}
