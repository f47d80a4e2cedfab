package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/game"
	"survival-quiz/internal/leaderboard"
	"survival-quiz/internal/metrics"
)

const (
	tickInterval = time.Second
	eventBuffer  = 64
)

type answerEvent struct{ index int }

type restartEvent struct{}

type tickEvent struct{ gen uint64 }

type settleEvent struct{ gen uint64 }

type remoteScoresEvent struct {
	records []domain.ScoreRecord
	err     error
}

type recordedEvent struct {
	saved   bool
	records []domain.ScoreRecord
	err     error
}

type snapshotEvent struct{ reply chan Snapshot }

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID         string        `json:"id"`
	Player     string        `json:"player"`
	Avatar     domain.Avatar `json:"avatar"`
	Phase      string        `json:"phase"`
	Score      int           `json:"score"`
	Streak     int           `json:"streak"`
	MaxStreak  int           `json:"maxStreak"`
	Lives      int           `json:"lives"`
	Multiplier float64       `json:"multiplier"`
	Index      int           `json:"index"`
	TimeLeft   int           `json:"timeLeft"`
	Answered   int           `json:"answered"`
	Reshuffles int           `json:"reshuffles"`
	Generation uint64        `json:"generation"`
}

// Session is one survival play-through. All state is owned by the goroutine running
// Run; other goroutines talk to it only through posted events, so no locking is needed.
type Session struct {
	ID     string
	Player string
	Avatar domain.Avatar

	engine    *game.Engine
	rnd       game.Rand
	store     ScoreStore
	presenter Presenter
	scheduler Scheduler
	metrics   *metrics.Metrics
	logger    *zap.SugaredLogger

	events chan any
	done   chan struct{}
	cancel context.CancelFunc

	state     *game.State
	opponents []leaderboard.Opponent
	remote    []domain.ScoreRecord
	pending   []func() bool
}

type sessionDeps struct {
	engine    *game.Engine
	rnd       game.Rand
	store     ScoreStore
	presenter Presenter
	scheduler Scheduler
	metrics   *metrics.Metrics
	logger    *zap.SugaredLogger
}

func newSession(id, player string, avatar domain.Avatar, deps sessionDeps) *Session {
	return &Session{
		ID:        id,
		Player:    player,
		Avatar:    avatar,
		engine:    deps.engine,
		rnd:       deps.rnd,
		store:     deps.store,
		presenter: deps.presenter,
		scheduler: deps.scheduler,
		metrics:   deps.metrics,
		logger:    deps.logger.With("session", id, "player", player),
		events:    make(chan any, eventBuffer),
		done:      make(chan struct{}),
		state:     deps.engine.NewState(),
		opponents: leaderboard.DefaultOpponents(),
	}
}

// Answer submits the option at index for the open question. Late answers are dropped.
func (s *Session) Answer(index int) {
	s.post(answerEvent{index: index})
}

// Restart resets the session and starts a new run under the same player.
func (s *Session) Restart() {
	s.post(restartEvent{})
}

// Snapshot returns a copy of the current state as seen by the session loop.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if !s.post(snapshotEvent{reply: reply}) {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, domain.ErrSessionNotFound
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Done is closed once the session loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop ends the loop and waits for it.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

func (s *Session) post(ev any) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.cancelPending()

	s.presenter.Present(Update{Type: UpdateStarted, Payload: StartedPayload{
		SessionID: s.ID,
		Player:    s.Player,
		Avatar:    s.Avatar,
		MaxLives:  s.engine.Config().MaxLives,
	}})
	s.fetchRemote(ctx)
	s.loadFirst()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.handle(ctx, ev)
		}
	}
}

func (s *Session) handle(ctx context.Context, ev any) {
	switch ev := ev.(type) {
	case answerEvent:
		outcome, err := s.engine.SubmitAnswer(s.state, ev.index, s.state.TimeLeft)
		if errors.Is(err, domain.ErrNotAccepting) {
			s.logger.Debugw("answer ignored", "index", ev.index, "phase", s.state.Phase)
			return
		}
		s.afterOutcome(ctx, outcome)
	case tickEvent:
		if ev.gen != s.state.Generation || !s.state.Accepting() {
			return
		}
		left := s.engine.Tick(s.state)
		s.presenter.Present(Update{Type: UpdateTick, Payload: TickPayload{TimeLeft: left}})
		if left > 0 {
			s.scheduleTick()
			return
		}
		outcome, err := s.engine.ExpireTimer(s.state)
		if err != nil {
			return
		}
		s.afterOutcome(ctx, outcome)
	case settleEvent:
		if ev.gen != s.state.Generation {
			return
		}
		s.advance()
	case restartEvent:
		s.cancelPending()
		s.engine.Reset(s.state)
		s.logger.Infow("session restarted")
		s.loadFirst()
	case remoteScoresEvent:
		if ev.err == nil {
			s.remote = ev.records
		}
		s.presentLeaderboard()
	case recordedEvent:
		s.presenter.Present(Update{Type: UpdateScoreSaved, Payload: ScoreSavedPayload{Saved: ev.saved}})
		if ev.err == nil {
			s.remote = ev.records
		}
		s.presentLeaderboard()
	case snapshotEvent:
		ev.reply <- s.snapshot()
	}
}

func (s *Session) loadFirst() {
	q, err := s.engine.LoadQuestion(s.state, 0)
	if err != nil {
		s.logger.Errorw("load first question", "error", err)
		return
	}
	s.presentQuestion(q, false)
	s.scheduleTick()
}

func (s *Session) advance() {
	adv, err := s.engine.Advance(s.state)
	if err != nil {
		s.logger.Debugw("advance skipped", "error", err, "phase", s.state.Phase)
		return
	}
	if adv.Ended {
		return
	}
	if adv.Reshuffled {
		s.logger.Debugw("question order exhausted, reshuffled", "reshuffles", s.state.Reshuffles)
	}
	s.cancelPending()
	s.presentQuestion(adv.Question, adv.Reshuffled)
	s.scheduleTick()
}

func (s *Session) afterOutcome(ctx context.Context, outcome domain.AnswerOutcome) {
	s.countAnswer(outcome)
	s.presenter.Present(Update{Type: UpdateOutcome, Payload: outcome})

	if outcome.Correct {
		leaderboard.SimulateTick(s.opponents, s.rnd)
		s.presentLeaderboard()
	}
	if outcome.SessionEnded {
		s.finish(ctx)
		return
	}

	gen := s.state.Generation
	s.schedule(s.engine.Config().SettleDelay, settleEvent{gen: gen})
}

func (s *Session) finish(ctx context.Context) {
	summary := s.state.Summary(s.Player)
	s.logger.Infow("session ended",
		"score", summary.Score,
		"best_streak", summary.BestStreak,
		"answered", summary.QuestionsAnswered,
	)
	if s.metrics != nil {
		s.metrics.SessionsEnded.Inc()
	}
	s.presenter.Present(Update{Type: UpdateGameOver, Payload: GameOverPayload{Summary: summary}})

	record := domain.ScoreRecord{
		PlayerName: s.Player,
		Score:      summary.Score,
		BestStreak: summary.BestStreak,
		Avatar:     s.Avatar,
		CreatedAt:  time.Now().UTC(),
	}
	// Persisting outlives the connection: a player closing the tab still gets recorded.
	storeCtx := context.WithoutCancel(ctx)
	go func() {
		ev := recordedEvent{}
		if err := s.store.RecordScore(storeCtx, record); err == nil {
			ev.saved = true
		}
		ev.records, ev.err = s.store.TopScores(storeCtx, leaderboard.Size)
		s.post(ev)
	}()
}

func (s *Session) fetchRemote(ctx context.Context) {
	go func() {
		records, err := s.store.TopScores(ctx, leaderboard.Size)
		s.post(remoteScoresEvent{records: records, err: err})
	}()
}

func (s *Session) presentQuestion(q domain.ShuffledQuestion, reshuffled bool) {
	s.presenter.Present(Update{Type: UpdateQuestion, Payload: QuestionPayload{
		Question:   q,
		TimeLeft:   s.state.TimeLeft,
		Lives:      s.state.Lives,
		Score:      s.state.Score,
		Streak:     s.state.Streak,
		Multiplier: s.state.Multiplier,
		Reshuffled: reshuffled,
	}})
}

func (s *Session) presentLeaderboard() {
	local := leaderboard.Player{
		Name:   s.Player,
		Score:  s.state.Score,
		Streak: s.state.Streak,
		Avatar: s.Avatar,
	}
	s.presenter.Present(Update{Type: UpdateLeaderboard, Payload: LeaderboardPayload{
		Entries: leaderboard.InGameView(local, s.remote, s.opponents),
		Remote:  s.remote != nil,
	}})
}

func (s *Session) scheduleTick() {
	s.schedule(tickInterval, tickEvent{gen: s.state.Generation})
}

func (s *Session) schedule(d time.Duration, ev any) {
	stop := s.scheduler.AfterFunc(d, func() { s.post(ev) })
	s.pending = append(s.pending, stop)
}

func (s *Session) cancelPending() {
	for _, stop := range s.pending {
		stop()
	}
	s.pending = s.pending[:0]
}

func (s *Session) countAnswer(outcome domain.AnswerOutcome) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultWrong
	switch {
	case outcome.Correct:
		result = metrics.ResultCorrect
	case outcome.TimedOut:
		result = metrics.ResultTimeout
	}
	s.metrics.Answers.WithLabelValues(result).Inc()
}

func (s *Session) snapshot() Snapshot {
	st := s.state
	return Snapshot{
		ID:         s.ID,
		Player:     s.Player,
		Avatar:     s.Avatar,
		Phase:      st.Phase.String(),
		Score:      st.Score,
		Streak:     st.Streak,
		MaxStreak:  st.MaxStreak,
		Lives:      st.Lives,
		Multiplier: st.Multiplier,
		Index:      st.Index,
		TimeLeft:   st.TimeLeft,
		Answered:   st.Answered,
		Reshuffles: st.Reshuffles,
		Generation: st.Generation,
	}
}
