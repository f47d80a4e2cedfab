package app

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/game"
	"survival-quiz/internal/metrics"
)

type harness struct {
	service   *GameService
	scheduler *fakeScheduler
	scores    *memScores
	metrics   *metrics.Metrics
	rules     game.Config
}

func newHarness(rules game.Config, scores ScoreStore) *harness {
	h := &harness{scheduler: &fakeScheduler{}, metrics: metrics.New(), rules: rules}
	if ms, ok := scores.(*memScores); ok {
		h.scores = ms
	}
	h.service = NewGameService(rules, testBank(), scores, newMemSessions(),
		WithScheduler(h.scheduler),
		WithRand(rand.New(rand.NewSource(3))),
		WithMetrics(h.metrics),
	)
	return h
}

func (h *harness) start(t *testing.T, name string) (*Session, *recorder) {
	t.Helper()
	rec := newRecorder()
	session, err := h.service.Start(context.Background(), name, "", rec)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { h.service.End(context.Background(), session) })
	return session, rec
}

func snapshot(t *testing.T, s *Session) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func questionOf(t *testing.T, u Update) QuestionPayload {
	t.Helper()
	q, ok := u.Payload.(QuestionPayload)
	if !ok {
		t.Fatalf("expected question payload, got %T", u.Payload)
	}
	return q
}

func outcomeOf(t *testing.T, u Update) domain.AnswerOutcome {
	t.Helper()
	o, ok := u.Payload.(domain.AnswerOutcome)
	if !ok {
		t.Fatalf("expected outcome payload, got %T", u.Payload)
	}
	return o
}

func TestSessionCorrectAnswerThenAdvance(t *testing.T) {
	h := newHarness(game.DefaultConfig(), &memScores{})
	session, rec := h.start(t, "ada")

	started := rec.next(t, UpdateStarted).Payload.(StartedPayload)
	if started.Player != "ada" || started.MaxLives != 3 || started.Avatar != domain.DefaultAvatar {
		t.Fatalf("unexpected started payload: %+v", started)
	}
	q := questionOf(t, rec.next(t, UpdateQuestion))
	if q.TimeLeft != 15 || q.Lives != 3 || q.Question.Number != 1 {
		t.Fatalf("unexpected first question: %+v", q)
	}

	session.Answer(q.Question.CorrectIndex)
	outcome := outcomeOf(t, rec.next(t, UpdateOutcome))
	if !outcome.Correct || outcome.PointsAwarded != 250 || outcome.Score != 250 || outcome.Streak != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	// A second answer while settling is dropped.
	session.Answer(q.Question.CorrectIndex)
	if snap := snapshot(t, session); snap.Score != 250 || snap.Phase != game.PhaseSettling.String() {
		t.Fatalf("late answer changed state: %+v", snap)
	}

	if n := h.scheduler.fire(h.rules.SettleDelay); n != 1 {
		t.Fatalf("expected one settle timer, fired %d", n)
	}
	next := questionOf(t, rec.next(t, UpdateQuestion))
	if next.Question.Index != 1 || next.Score != 250 || next.TimeLeft != 15 {
		t.Fatalf("unexpected second question: %+v", next)
	}
}

func TestSessionTimerExpiryCostsALife(t *testing.T) {
	h := newHarness(game.DefaultConfig(), &memScores{})
	session, rec := h.start(t, "ada")
	rec.next(t, UpdateQuestion)

	for i := 0; i < h.rules.TimerSeconds; i++ {
		if n := h.scheduler.fire(time.Second); n != 1 {
			t.Fatalf("tick %d: expected one live tick, fired %d", i, n)
		}
		snapshot(t, session)
	}

	outcome := outcomeOf(t, rec.next(t, UpdateOutcome))
	if !outcome.TimedOut || outcome.Correct || outcome.LivesRemaining != 2 {
		t.Fatalf("unexpected timeout outcome: %+v", outcome)
	}
	if snap := snapshot(t, session); snap.TimeLeft != 0 || snap.Streak != 0 {
		t.Fatalf("unexpected state after timeout: %+v", snap)
	}
	if n := h.scheduler.fire(time.Second); n != 0 {
		t.Fatalf("expected no tick while settling, fired %d", n)
	}
}

func TestSessionRestartDropsStaleCallbacks(t *testing.T) {
	h := newHarness(game.DefaultConfig(), &memScores{})
	session, rec := h.start(t, "ada")
	q := questionOf(t, rec.next(t, UpdateQuestion))

	session.Answer(q.Question.CorrectIndex)
	rec.next(t, UpdateOutcome)

	session.Restart()
	restarted := questionOf(t, rec.next(t, UpdateQuestion))
	if restarted.Score != 0 || restarted.Lives != 3 || restarted.Question.Index != 0 {
		t.Fatalf("unexpected question after restart: %+v", restarted)
	}
	before := snapshot(t, session)

	// The settle from the previous run was stopped; even if it fires it must be ignored.
	if n := h.scheduler.fireStale(h.rules.SettleDelay); n != 1 {
		t.Fatalf("expected the stale settle timer, fired %d", n)
	}
	after := snapshot(t, session)
	if after.Index != 0 || after.Phase != game.PhaseAccepting.String() || after.Generation != before.Generation {
		t.Fatalf("stale settle advanced the session: before %+v after %+v", before, after)
	}
}

func TestSessionGameOverRecordsScore(t *testing.T) {
	rules := game.DefaultConfig()
	rules.MaxLives = 1
	scores := &memScores{}
	h := newHarness(rules, scores)
	session, rec := h.start(t, "ada")

	q := questionOf(t, rec.next(t, UpdateQuestion))
	session.Answer((q.Question.CorrectIndex + 1) % domain.OptionCount)

	outcome := outcomeOf(t, rec.next(t, UpdateOutcome))
	if outcome.Correct || !outcome.SessionEnded || outcome.CorrectIndex != q.Question.CorrectIndex {
		t.Fatalf("unexpected final outcome: %+v", outcome)
	}
	summary := rec.next(t, UpdateGameOver).Payload.(GameOverPayload).Summary
	if summary.PlayerName != "ada" || summary.QuestionsAnswered != 1 || summary.Score != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if saved := rec.next(t, UpdateScoreSaved).Payload.(ScoreSavedPayload); !saved.Saved {
		t.Fatalf("expected score saved")
	}

	records := scores.saved()
	if len(records) != 1 || records[0].PlayerName != "ada" || records[0].Avatar != domain.DefaultAvatar {
		t.Fatalf("unexpected records: %+v", records)
	}
	if snap := snapshot(t, session); snap.Phase != game.PhaseEnded.String() {
		t.Fatalf("expected ended phase, got %s", snap.Phase)
	}

	session.Answer(0)
	if snap := snapshot(t, session); snap.Answered != 1 {
		t.Fatalf("answer after end was counted: %+v", snap)
	}
}

func TestSessionPlaysOnWithoutStore(t *testing.T) {
	rules := game.DefaultConfig()
	rules.MaxLives = 1
	h := newHarness(rules, NewDegradingStore(nil, time.Second, nil, nil))
	session, rec := h.start(t, "ada")

	// The first question is presented before the failed remote fetch lands.
	q := questionOf(t, rec.next(t, UpdateQuestion))
	lb := rec.next(t, UpdateLeaderboard).Payload.(LeaderboardPayload)
	if lb.Remote {
		t.Fatalf("expected local-only leaderboard")
	}

	session.Answer((q.Question.CorrectIndex + 1) % domain.OptionCount)
	rec.next(t, UpdateGameOver)
	if saved := rec.next(t, UpdateScoreSaved).Payload.(ScoreSavedPayload); saved.Saved {
		t.Fatalf("expected unsaved score with store down")
	}
}

func TestSessionLeaderboardIncludesLocalPlayer(t *testing.T) {
	scores := &memScores{records: []domain.ScoreRecord{{PlayerName: "remote", Score: 5}}}
	h := newHarness(game.DefaultConfig(), scores)
	session, rec := h.start(t, "ada")

	q := questionOf(t, rec.next(t, UpdateQuestion))
	session.Answer(q.Question.CorrectIndex)
	rec.next(t, UpdateOutcome)

	lb := rec.next(t, UpdateLeaderboard).Payload.(LeaderboardPayload)
	var local, remote bool
	for _, e := range lb.Entries {
		if e.IsLocalPlayer && e.Name == "ada" && e.Score == 250 {
			local = true
		}
		if e.Name == "remote" {
			remote = true
		}
	}
	if !local {
		t.Fatalf("expected local player in leaderboard: %+v", lb.Entries)
	}
	if lb.Remote && !remote {
		t.Fatalf("remote scores flagged but missing: %+v", lb.Entries)
	}
}

func TestSnapshotAfterStop(t *testing.T) {
	h := newHarness(game.DefaultConfig(), &memScores{})
	session, _ := h.start(t, "ada")
	session.Stop()

	_, err := session.Snapshot(context.Background())
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found after stop, got %v", err)
	}
}
