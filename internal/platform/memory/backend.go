package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

type boardKey struct {
	metric domain.LeaderboardMetric
	period domain.LeaderboardPeriod
}

// data is the full contents of the store. Values are owned by data and are
// cloned on the way in and out.
type data struct {
	puzzlesByDate map[domain.Date]*domain.Puzzle
	attempts      map[uuid.UUID]*domain.Attempt
	stats         map[uuid.UUID]*domain.UserStats
	boards        map[boardKey][]domain.LeaderboardEntry
}

func newData() *data {
	return &data{
		puzzlesByDate: make(map[domain.Date]*domain.Puzzle),
		attempts:      make(map[uuid.UUID]*domain.Attempt),
		stats:         make(map[uuid.UUID]*domain.UserStats),
		boards:        make(map[boardKey][]domain.LeaderboardEntry),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, p := range d.puzzlesByDate {
		cp := *p
		c.puzzlesByDate[k] = &cp
	}
	for k, a := range d.attempts {
		c.attempts[k] = a.Clone()
	}
	for k, s := range d.stats {
		c.stats[k] = s.Clone()
	}
	for k, entries := range d.boards {
		c.boards[k] = append([]domain.LeaderboardEntry(nil), entries...)
	}
	return c
}

// Backend is an in-memory store.Backend.
type Backend struct {
	mu     sync.Mutex
	data   *data
	logger *slog.Logger
}

// NewBackend creates an empty Backend.
// If logger is nil, a default logger will be used.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		data:   newData(),
		logger: logger.With(slog.String("component", "memory_store")),
	}
}

// Ensure Backend implements store.Backend interface
var _ store.Backend = (*Backend)(nil)

// session resolves the data a store call operates on. Outside a transaction
// it locks the backend for the duration of one call; inside a transaction the
// lock is already held and tx points at the transaction's working copy.
type session struct {
	backend *Backend
	tx      *data
}

func (s session) run(fn func(d *data) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	return fn(s.backend.data)
}

func (s session) stores() store.Stores {
	return store.Stores{
		Puzzles:     &PuzzleStore{s},
		Attempts:    &AttemptStore{s},
		Stats:       &UserStatsStore{s},
		Leaderboard: &LeaderboardStore{s},
	}
}

// Stores returns stores that lock per call.
func (b *Backend) Stores() store.Stores {
	return session{backend: b}.stores()
}

// WithinTx implements store.Transactor.
// Transactions are serialized; fn must not call Stores() on the same backend.
func (b *Backend) WithinTx(ctx context.Context, fn store.StoresFn) error {
	log := logger.FromContextOrDefault(ctx, b.logger)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := b.data.clone()
	if err := fn(ctx, session{backend: b, tx: work}.stores()); err != nil {
		log.Debug("rolled back transaction", slog.String("error", err.Error()))
		return err
	}
	b.data = work
	return nil
}

// Ping implements store.Backend.
func (b *Backend) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements store.Backend.
func (b *Backend) Close() error {
	return nil
}
