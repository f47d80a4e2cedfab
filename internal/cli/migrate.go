package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"survival-quiz/internal/config"
	"survival-quiz/internal/infra/memory"
	"survival-quiz/internal/infra/postgres"
	pgmigrations "survival-quiz/internal/infra/postgres/migrations"
	"survival-quiz/internal/logging"
)

// NewMigrateCmd applies database migrations and optionally seeds the question bank.
func NewMigrateCmd(v *viper.Viper) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v.GetString("config"))
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), logging.NewLogger(logging.Options{Debug: cfg.Log.Debug}))
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}
			if seed {
				return seedBank(ctx, cfg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the built-in question bank when the questions table is empty")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	if group.IsZero() {
		logger.Infow("no new migrations")
		return nil
	}
	logger.Infow("migrations applied", "group", group.String())
	return nil
}

func seedBank(ctx context.Context, cfg config.Config) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := postgres.SeedBank(ctx, pool, memory.DefaultBank())
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Infow("question bank seeded", "inserted", n)
	return nil
}
