// Package main runs the Daily Codele API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	// Embedded zone database so game.timezone resolves in minimal images.
	_ "time/tzdata"

	"github.com/phrazzld/codele-api/internal/config"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"timezone", cfg.Game.Timezone)

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, log, migrateCmd)
	}

	backend, err := setupBackend(ctx, cfg, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, backend)
	if err != nil {
		_ = backend.Close()
		return err
	}
	return app.Run(ctx)
}

// handleMigrations runs one goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}
	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	log.Info("executing migrations", "command", command)
	return postgres.RunMigrationCommand(ctx, db, log, command)
}
