package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// PostgresPuzzleStore implements the store.PuzzleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPuzzleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPuzzleStore creates a new PostgreSQL implementation of the PuzzleStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPuzzleStore(db store.DBTX, logger *slog.Logger) *PostgresPuzzleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPuzzleStore{
		db:     db,
		logger: logger.With(slog.String("component", "puzzle_store")),
	}
}

// Ensure PostgresPuzzleStore implements store.PuzzleStore interface
var _ store.PuzzleStore = (*PostgresPuzzleStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresPuzzleStore) WithTx(tx *sql.Tx) *PostgresPuzzleStore {
	return &PostgresPuzzleStore{db: tx, logger: s.logger}
}

const puzzleColumns = `id, puzzle_date, number, solution, created_at`

// CreateIfAbsent implements store.PuzzleStore.CreateIfAbsent
func (s *PostgresPuzzleStore) CreateIfAbsent(ctx context.Context, puzzle *domain.Puzzle) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := puzzle.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO puzzles (` + puzzleColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		puzzle.ID, puzzle.Date, puzzle.Number, puzzle.Solution, puzzle.CreatedAt)
	if err != nil {
		log.Error("failed to create puzzle",
			slog.String("error", err.Error()),
			slog.String("puzzle_date", puzzle.Date.String()))
		return wrapErr("puzzle", "create_if_absent", err)
	}

	if n, err := rowsAffected(result); err == nil && n > 0 {
		log.Info("puzzle materialized",
			slog.String("puzzle_id", puzzle.ID.String()),
			slog.String("puzzle_date", puzzle.Date.String()),
			slog.Int("number", puzzle.Number))
	}
	return nil
}

// GetByDate implements store.PuzzleStore.GetByDate
func (s *PostgresPuzzleStore) GetByDate(ctx context.Context, date domain.Date) (*domain.Puzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM puzzles WHERE puzzle_date = $1`
	return s.getOne(ctx, query, date)
}

// GetByID implements store.PuzzleStore.GetByID
func (s *PostgresPuzzleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Puzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM puzzles WHERE id = $1`
	return s.getOne(ctx, query, id)
}

func (s *PostgresPuzzleStore) getOne(ctx context.Context, query string, arg any) (*domain.Puzzle, error) {
	var p domain.Puzzle
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Date, &p.Number, &p.Solution, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPuzzleNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get puzzle",
			slog.String("error", err.Error()))
		return nil, wrapErr("puzzle", "get", err)
	}
	return &p, nil
}
