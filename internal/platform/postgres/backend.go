package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// Backend is a PostgreSQL store.Backend over a database/sql pool opened with
// the pgx driver.
type Backend struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewBackend wraps db. The caller keeps ownership of pool configuration.
// If logger is nil, a default logger will be used.
func NewBackend(db *sql.DB, logger *slog.Logger) *Backend {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{db: db, logger: logger}
}

// Ensure Backend implements store.Backend interface
var _ store.Backend = (*Backend)(nil)

func (b *Backend) storesOn(db store.DBTX) store.Stores {
	return store.Stores{
		Puzzles:     NewPostgresPuzzleStore(db, b.logger),
		Attempts:    NewPostgresAttemptStore(db, b.logger),
		Stats:       NewPostgresUserStatsStore(db, b.logger),
		Leaderboard: NewPostgresLeaderboardStore(db, b.logger),
	}
}

// Stores implements store.Backend.Stores
func (b *Backend) Stores() store.Stores {
	return b.storesOn(b.db)
}

// WithinTx implements store.Transactor.WithinTx
func (b *Backend) WithinTx(ctx context.Context, fn store.StoresFn) error {
	ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, b.logger))
	return store.RunInTransaction(ctx, b.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, b.storesOn(tx))
	})
}

// Ping implements store.Backend.Ping
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close implements store.Backend.Close
func (b *Backend) Close() error {
	return b.db.Close()
}

// DB returns the underlying pool.
func (b *Backend) DB() *sql.DB {
	return b.db
}
