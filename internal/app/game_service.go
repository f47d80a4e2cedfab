package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/game"
	"survival-quiz/internal/leaderboard"
	"survival-quiz/internal/logging"
	"survival-quiz/internal/metrics"
)

const defaultReservationRefresh = time.Minute

// GameService contains the survival quiz use cases.
type GameService struct {
	rules     game.Config
	questions QuestionRepository
	store     ScoreStore
	sessions  SessionRepository
	scheduler Scheduler
	rnd       game.Rand
	metrics   *metrics.Metrics
	logger    *zap.SugaredLogger
	newID     func() string
	refresh   time.Duration
}

type Option func(*GameService)

// WithScheduler replaces the runtime timer, mostly for tests.
func WithScheduler(s Scheduler) Option {
	return func(g *GameService) { g.scheduler = s }
}

func WithRand(rnd game.Rand) Option {
	return func(g *GameService) { g.rnd = rnd }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *GameService) { g.metrics = m }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(g *GameService) { g.logger = logger }
}

// WithReservationRefresh sets how often a live session renews its name reservation.
// It must be shorter than the reservation TTL of the session repository.
func WithReservationRefresh(d time.Duration) Option {
	return func(g *GameService) { g.refresh = d }
}

func NewGameService(rules game.Config, questions QuestionRepository, store ScoreStore, sessions SessionRepository, opts ...Option) *GameService {
	g := &GameService{
		rules:     rules,
		questions: questions,
		store:     store,
		sessions:  sessions,
		scheduler: RealScheduler(),
		rnd:       game.FastRand(),
		logger:    logging.DefaultLogger(),
		newID:     uuid.NewString,
		refresh:   defaultReservationRefresh,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start validates the player, builds a session over the current bank and runs it
// until ctx is done or End is called. Store outages skip the name check instead of
// blocking play.
func (g *GameService) Start(ctx context.Context, playerName, avatar string, presenter Presenter) (*Session, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, domain.NewValidationError("playerName", domain.ErrEmptyPlayerName)
	}

	exists, err := g.store.NameExists(ctx, name)
	switch {
	case err != nil:
		g.logger.Warnw("name check skipped, store unavailable", "player", name, "error", err)
	case exists:
		return nil, domain.NewValidationError("playerName", domain.ErrPlayerNameTaken)
	}

	bank, err := g.questions.Bank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	engine, err := game.NewEngine(g.rules, bank, g.rnd)
	if err != nil {
		return nil, err
	}

	session := newSession(g.newID(), name, domain.ParseAvatar(avatar), sessionDeps{
		engine:    engine,
		rnd:       g.rnd,
		store:     g.store,
		presenter: presenter,
		scheduler: g.scheduler,
		metrics:   g.metrics,
		logger:    g.logger,
	})
	if err := g.sessions.Register(ctx, session); err != nil {
		if errors.Is(err, domain.ErrPlayerNameTaken) {
			return nil, domain.NewValidationError("playerName", err)
		}
		return nil, err
	}

	session.start(ctx)
	go g.keepReserved(context.WithoutCancel(ctx), session)
	if g.metrics != nil {
		g.metrics.SessionsStarted.Inc()
	}
	g.logger.Infow("session started", "session", session.ID, "player", name, "questions", len(bank))
	return session, nil
}

// keepReserved renews the player's name reservation until the session loop exits.
func (g *GameService) keepReserved(ctx context.Context, session *Session) {
	if g.refresh <= 0 {
		return
	}
	ticker := time.NewTicker(g.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-session.Done():
			return
		case <-ticker.C:
			if err := g.sessions.Touch(ctx, session.ID); err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return
				}
				g.logger.Warnw("name reservation not renewed", "session", session.ID, "player", session.Player, "error", err)
			}
		}
	}
}

// End stops the session loop and releases its player name.
func (g *GameService) End(ctx context.Context, session *Session) {
	session.Stop()
	g.sessions.Remove(ctx, session.ID)
}

// Get returns a live session by id.
func (g *GameService) Get(id string) (*Session, error) {
	session, ok := g.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Lobby ranks persisted scores against the simulated roster, without a local player.
// When the store is unavailable only the simulated opponents are ranked.
func (g *GameService) Lobby(ctx context.Context) ([]domain.LeaderboardEntry, bool) {
	records, err := g.store.TopScores(ctx, leaderboard.Size)
	if err != nil {
		g.logger.Warnw("lobby leaderboard without remote scores", "error", err)
		return leaderboard.LobbyView(nil, leaderboard.DefaultOpponents()), false
	}
	return leaderboard.LobbyView(records, leaderboard.DefaultOpponents()), true
}
