package store

import "context"

// Stores bundles every store bound to the same connection or transaction.
type Stores struct {
	Puzzles     PuzzleStore
	Attempts    AttemptStore
	Stats       UserStatsStore
	Leaderboard LeaderboardStore
}

// StoresFn is a function that executes against stores bound to one transaction.
type StoresFn func(ctx context.Context, stores Stores) error

// Transactor runs work atomically across stores.
type Transactor interface {
	// WithinTx runs fn with stores bound to a single transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn StoresFn) error
}

// Backend is a complete storage driver.
type Backend interface {
	Transactor

	// Stores returns stores that run each call in its own implicit transaction.
	Stores() Stores

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
