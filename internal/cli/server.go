package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"survival-quiz/internal/app"
	"survival-quiz/internal/config"
	"survival-quiz/internal/infra/bolt"
	"survival-quiz/internal/infra/memory"
	"survival-quiz/internal/infra/postgres"
	infraredis "survival-quiz/internal/infra/redis"
	"survival-quiz/internal/infra/supabase"
	"survival-quiz/internal/logging"
	"survival-quiz/internal/metrics"
	transport "survival-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), v.GetString("config"), v.GetString("port"))
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Options{Debug: cfg.Log.Debug, File: cfg.Log.File})
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	creds, err := cfg.StoreCredentials()
	if err != nil {
		logger.Warnw("store credentials from environment ignored", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	m := metrics.New()
	storeTimeout := config.TTLDuration(cfg.Store.Timeout, 5*time.Second)
	inner, closeStore, err := openScoreStore(ctx, cfg, creds, storeTimeout, pool, redisClient)
	if err != nil {
		return err
	}
	defer closeStore()

	var scores app.ScoreStore = app.NewDegradingStore(inner, storeTimeout, m, logger)
	if cfg.Store.NameCacheSize > 0 {
		cached, err := memory.NewNameCachedStore(scores, cfg.Store.NameCacheSize)
		if err != nil {
			return err
		}
		scores = cached
	}

	questions := newQuestionRepository(ctx, cfg, pool, redisClient, logger)

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	service := app.NewGameService(cfg.Rules(), questions, scores, sessions,
		app.WithMetrics(m),
		app.WithLogger(logger),
		app.WithReservationRefresh(redisTTL/3),
	)

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.RouterDeps{
			Service:     service,
			Credentials: creds,
			Metrics:     m,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("starting quiz service", "port", finalPort, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openScoreStore picks the score backend by driver. A nil store with no error means
// the store is unreachable and every call degrades.
func openScoreStore(ctx context.Context, cfg config.Config, creds config.Credentials, timeout time.Duration, pool *pgxpool.Pool, client *redis.Client) (app.ScoreStore, func(), error) {
	logger := logging.FromContext(ctx)
	noop := func() {}

	switch cfg.Store.Driver {
	case "", config.DriverMemory:
		return memory.NewScoreStore(), noop, nil
	case config.DriverRedis:
		if client == nil {
			return nil, noop, fmt.Errorf("store driver %q needs redis.addr", cfg.Store.Driver)
		}
		return infraredis.NewScoreStore(client), noop, nil
	case config.DriverPostgres:
		if pool == nil {
			return nil, noop, fmt.Errorf("store driver %q needs postgres.url", cfg.Store.Driver)
		}
		return postgres.NewScoreStore(pool), noop, nil
	case config.DriverBolt:
		path := cfg.Bolt.Path
		if path == "" {
			path = "scores.db"
		}
		store, err := bolt.Open(ctx, path)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.DriverSupabase:
		httpClient := &http.Client{Timeout: timeout}
		var source supabase.CredentialsSource = supabase.StaticCredentials(creds)
		if cfg.Supabase.ConfigURL != "" {
			source = supabase.NewConfigEndpoint(cfg.Supabase.ConfigURL, httpClient)
		} else if creds.URL == "" || creds.Key == "" {
			logger.Warnw("supabase credentials missing, playing without a score store")
			return nil, noop, nil
		}
		return supabase.NewScoreStore(source, cfg.Supabase.Table, httpClient), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newQuestionRepository(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, client *redis.Client, logger *zap.SugaredLogger) app.QuestionRepository {
	var loader memory.BankLoader = memory.NewStaticBankLoader(memory.DefaultBank())
	switch {
	case cfg.Bank.File != "":
		loader = memory.NewFileBankLoader(cfg.Bank.File)
	case pool != nil:
		if n, err := postgres.SeedBank(ctx, pool, memory.DefaultBank()); err != nil {
			logger.Warnw("seed question bank", "error", err)
		} else if n > 0 {
			logger.Infow("question bank seeded", "inserted", n)
		}
		loader = postgres.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	if client != nil {
		return infraredis.NewBankCache(client, loader, bankTTL)
	}
	return memory.NewQuestionRepository(loader, bankTTL)
}
