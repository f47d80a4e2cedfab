package leaderboard

import (
	"github.com/enescakir/emoji"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/game"
)

const (
	tickStreakChance = 0.6
	tickMinDelta     = 100
	tickMaxDelta     = 150
)

// Opponent is a locally simulated rival. Opponents are not networked peers.
type Opponent struct {
	Name   string
	Score  int
	Streak int
	Avatar domain.Avatar
}

// DefaultOpponents returns a fresh roster for a new session.
func DefaultOpponents() []Opponent {
	return []Opponent{
		{Name: "NeonNinja", Score: 1450, Streak: 2, Avatar: domain.EmojiAvatar(emoji.Ninja.String())},
		{Name: "PixelFlamingo", Score: 1200, Streak: 0, Avatar: domain.EmojiAvatar(emoji.Flamingo.String())},
		{Name: "ByteBomber", Score: 980, Streak: 1, Avatar: domain.EmojiAvatar(emoji.Bomb.String())},
		{Name: "QuizHammer", Score: 760, Streak: 0, Avatar: domain.EmojiAvatar(emoji.Hammer.String())},
		{Name: "WaveRider", Score: 540, Streak: 3, Avatar: domain.EmojiAvatar(emoji.WaterWave.String())},
		{Name: "StrikeZone", Score: 320, Streak: 0, Avatar: domain.EmojiAvatar(emoji.Bowling.String())},
	}
}

// SimulateTick moves every opponent once: with probability 0.6 the streak grows and
// the score gains 100-150 points, otherwise the streak resets.
func SimulateTick(opponents []Opponent, rnd game.Rand) {
	for i := range opponents {
		if rnd.Float64() < tickStreakChance {
			opponents[i].Streak++
			opponents[i].Score += tickMinDelta + rnd.Intn(tickMaxDelta-tickMinDelta+1)
		} else {
			opponents[i].Streak = 0
		}
	}
}
