package leaderboard

import (
	"math/rand"
	"reflect"
	"testing"

	"survival-quiz/internal/domain"
)

func TestRankOrdersAndKeepsTiesInSourceOrder(t *testing.T) {
	local := &Player{Name: "me", Score: 500}
	remote := []domain.ScoreRecord{
		{PlayerName: "r1", Score: 700},
		{PlayerName: "r2", Score: 500},
	}
	sim := []Opponent{{Name: "bot", Score: 500}, {Name: "low", Score: 10}}

	got := Rank(local, remote, sim)
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Name
	}
	want := []string{"r1", "me", "r2", "bot", "low"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	if !got[1].IsLocalPlayer || got[0].IsLocalPlayer {
		t.Fatalf("expected only the local row flagged, got %+v", got)
	}
}

func TestRankTruncatesToTopTen(t *testing.T) {
	var remote []domain.ScoreRecord
	for i := 0; i < 15; i++ {
		remote = append(remote, domain.ScoreRecord{PlayerName: "p", Score: i})
	}
	got := LobbyView(remote, nil)
	if len(got) != Size {
		t.Fatalf("expected %d rows, got %d", Size, len(got))
	}
	if got[0].Score != 14 || got[Size-1].Score != 5 {
		t.Fatalf("expected top scores 14..5, got %d..%d", got[0].Score, got[Size-1].Score)
	}
}

func TestRankIsIdempotent(t *testing.T) {
	local := Player{Name: "me", Score: 300}
	remote := []domain.ScoreRecord{{PlayerName: "a", Score: 300}, {PlayerName: "b", Score: 900}}
	sim := DefaultOpponents()

	first := InGameView(local, remote, sim)
	second := InGameView(local, remote, sim)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical rankings, got %v and %v", first, second)
	}
}

func TestLobbyViewExcludesLocal(t *testing.T) {
	for _, e := range LobbyView(nil, DefaultOpponents()) {
		if e.IsLocalPlayer {
			t.Fatalf("lobby view must not contain the local player")
		}
	}
}

func TestSimulateTick(t *testing.T) {
	opps := DefaultOpponents()
	before := DefaultOpponents()
	SimulateTick(opps, rand.New(rand.NewSource(3)))

	for i := range opps {
		switch {
		case opps[i].Streak == 0:
			if opps[i].Score != before[i].Score {
				t.Fatalf("%s: reset streak must not change score", opps[i].Name)
			}
		case opps[i].Streak == before[i].Streak+1:
			delta := opps[i].Score - before[i].Score
			if delta < 100 || delta > 150 {
				t.Fatalf("%s: delta %d outside [100,150]", opps[i].Name, delta)
			}
		default:
			t.Fatalf("%s: unexpected streak %d from %d", opps[i].Name, opps[i].Streak, before[i].Streak)
		}
	}
}

func TestSimulateTickAlwaysHits(t *testing.T) {
	opps := []Opponent{{Name: "x", Score: 0, Streak: 4}}
	SimulateTick(opps, fixedRand{f: 0.1, n: 50})
	if opps[0].Streak != 5 || opps[0].Score != 150 {
		t.Fatalf("expected hit with max delta, got %+v", opps[0])
	}
	SimulateTick(opps, fixedRand{f: 0.6})
	if opps[0].Streak != 0 || opps[0].Score != 150 {
		t.Fatalf("expected miss to reset streak, got %+v", opps[0])
	}
}

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Intn(int) int     { return r.n }
func (r fixedRand) Float64() float64 { return r.f }
