package leaderboard

import (
	"sort"

	"survival-quiz/internal/domain"
)

// Size is the number of rows kept in any view.
const Size = 10

// Player is the live local player as seen by the leaderboard.
type Player struct {
	Name   string
	Score  int
	Streak int
	Avatar domain.Avatar
}

// Rank concatenates the local player (if any), remote records and simulated opponents,
// sorts by score descending keeping concatenation order on ties, and keeps the top rows.
func Rank(local *Player, remote []domain.ScoreRecord, simulated []Opponent) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(remote)+len(simulated)+1)
	if local != nil {
		entries = append(entries, domain.LeaderboardEntry{
			Name:          local.Name,
			Score:         local.Score,
			Streak:        local.Streak,
			Avatar:        local.Avatar,
			IsLocalPlayer: true,
		})
	}
	for _, rec := range remote {
		entries = append(entries, domain.LeaderboardEntry{
			Name:   rec.PlayerName,
			Score:  rec.Score,
			Streak: rec.BestStreak,
			Avatar: rec.Avatar,
		})
	}
	for _, opp := range simulated {
		entries = append(entries, domain.LeaderboardEntry{
			Name:   opp.Name,
			Score:  opp.Score,
			Streak: opp.Streak,
			Avatar: opp.Avatar,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > Size {
		entries = entries[:Size]
	}
	return entries
}

// InGameView ranks the local player against remote scores and opponents.
func InGameView(local Player, remote []domain.ScoreRecord, simulated []Opponent) []domain.LeaderboardEntry {
	return Rank(&local, remote, simulated)
}

// LobbyView ranks remote scores and opponents before anyone is playing.
func LobbyView(remote []domain.ScoreRecord, simulated []Opponent) []domain.LeaderboardEntry {
	return Rank(nil, remote, simulated)
}
