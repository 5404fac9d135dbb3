package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/codele-api/internal/config"
	"github.com/phrazzld/codele-api/internal/platform/memory"
	"github.com/phrazzld/codele-api/internal/platform/postgres"
	"github.com/phrazzld/codele-api/internal/store"
)

const pingTimeout = 5 * time.Second

// setupBackend opens the configured storage backend, applying migrations
// first when auto_migrate is set.
func setupBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Backend, error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.NewBackend(log), nil
	case "postgres":
		db, err := openDatabase(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, log); err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info("database migrations applied")
		}
		return postgres.NewBackend(db, log), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// openDatabase connects through the pgx stdlib driver and configures the pool.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns)
	return db, nil
}
