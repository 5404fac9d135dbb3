package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the AttemptStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) *PostgresAttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

const attemptColumns = `id, user_id, puzzle_id, puzzle_date, guesses, status, is_practice,
	started_at, completed_at, aggregated_at, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*domain.Attempt, error) {
	var (
		a       domain.Attempt
		guesses []byte
		status  string
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.PuzzleID, &a.PuzzleDate, &guesses, &status, &a.IsPractice,
		&a.StartedAt, &a.CompletedAt, &a.AggregatedAt, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(guesses, &a.Guesses); err != nil {
		return nil, fmt.Errorf("failed to decode guesses: %w", err)
	}
	if a.Guesses == nil {
		a.Guesses = []domain.Guess{}
	}
	a.Status = domain.AttemptStatus(status)
	return &a, nil
}

// Create implements store.AttemptStore.Create
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return err
	}

	guesses, err := json.Marshal(attempt.Guesses)
	if err != nil {
		return fmt.Errorf("failed to encode guesses: %w", err)
	}

	query := `
		INSERT INTO attempts (` + attemptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(ctx, query,
		attempt.ID, attempt.UserID, attempt.PuzzleID, attempt.PuzzleDate, guesses,
		string(attempt.Status), attempt.IsPractice, attempt.StartedAt, attempt.CompletedAt,
		attempt.AggregatedAt, attempt.Version, attempt.CreatedAt, attempt.UpdatedAt,
	)
	if err != nil {
		if isRankedAttemptConflict(err) {
			log.Debug("ranked attempt already exists",
				slog.String("user_id", attempt.UserID.String()),
				slog.String("puzzle_id", attempt.PuzzleID.String()))
			return fmt.Errorf("%w: %v", store.ErrRankedAttemptExists, err)
		}
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return wrapErr("attempt", "create", err)
	}

	log.Debug("attempt created",
		slog.String("attempt_id", attempt.ID.String()),
		slog.Bool("is_practice", attempt.IsPractice))
	return nil
}

// GetByID implements store.AttemptStore.GetByID
func (s *PostgresAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetRanked implements store.AttemptStore.GetRanked
func (s *PostgresAttemptStore) GetRanked(ctx context.Context, userID, puzzleID uuid.UUID) (*domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + `
		FROM attempts
		WHERE user_id = $1 AND puzzle_id = $2 AND NOT is_practice`
	return s.getOne(ctx, query, userID, puzzleID)
}

func (s *PostgresAttemptStore) getOne(ctx context.Context, query string, args ...any) (*domain.Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttemptNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get attempt",
			slog.String("error", err.Error()))
		return nil, wrapErr("attempt", "get", err)
	}
	return a, nil
}

// Update implements store.AttemptStore.Update
func (s *PostgresAttemptStore) Update(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		return err
	}
	guesses, err := json.Marshal(attempt.Guesses)
	if err != nil {
		return fmt.Errorf("failed to encode guesses: %w", err)
	}

	query := `
		UPDATE attempts
		SET guesses = $3, status = $4, started_at = $5, completed_at = $6,
		    updated_at = $7, version = version + 1
		WHERE id = $1 AND version = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		attempt.ID, attempt.Version, guesses, string(attempt.Status),
		attempt.StartedAt, attempt.CompletedAt, attempt.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return wrapErr("attempt", "update", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.missingOr(ctx, attempt.ID, store.ErrVersionConflict)
	}

	attempt.Version++
	return nil
}

// MarkAggregated implements store.AttemptStore.MarkAggregated
func (s *PostgresAttemptStore) MarkAggregated(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE attempts SET aggregated_at = $2 WHERE id = $1 AND aggregated_at IS NULL`
	result, err := s.db.ExecContext(ctx, query, id, at.UTC())
	if err != nil {
		return wrapErr("attempt", "mark_aggregated", err)
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.missingOr(ctx, id, store.ErrAlreadyAggregated)
	}
	return nil
}

// missingOr distinguishes a missing row from a guarded update that matched nothing.
func (s *PostgresAttemptStore) missingOr(ctx context.Context, id uuid.UUID, guardErr error) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM attempts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return wrapErr("attempt", "update", err)
	}
	if !exists {
		return store.ErrAttemptNotFound
	}
	return guardErr
}

// ListByUser implements store.AttemptStore.ListByUser
func (s *PostgresAttemptStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	from, to domain.Date,
) ([]*domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + `
		FROM attempts
		WHERE user_id = $1 AND puzzle_date BETWEEN $2 AND $3
		ORDER BY puzzle_date, created_at`
	return s.list(ctx, query, userID, from, to)
}

// ListPendingAggregation implements store.AttemptStore.ListPendingAggregation
func (s *PostgresAttemptStore) ListPendingAggregation(ctx context.Context, limit int) ([]*domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + `
		FROM attempts
		WHERE NOT is_practice AND status IN ('won', 'lost') AND aggregated_at IS NULL
		ORDER BY completed_at
		LIMIT $1`
	return s.list(ctx, query, limit)
}

func (s *PostgresAttemptStore) list(ctx context.Context, query string, args ...any) ([]*domain.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list attempts",
			slog.String("error", err.Error()))
		return nil, wrapErr("attempt", "list", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, wrapErr("attempt", "list", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("attempt", "list", err)
	}
	return out, nil
}

// SummarizeRanked implements store.AttemptStore.SummarizeRanked
func (s *PostgresAttemptStore) SummarizeRanked(ctx context.Context, from, to domain.Date) ([]domain.PlayerSnapshot, error) {
	query := `
		SELECT a.user_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE a.status = 'won'),
		       COALESCE(SUM(EXTRACT(EPOCH FROM (a.completed_at - a.started_at)) * 1000)
		                FILTER (WHERE a.status = 'won'), 0)::BIGINT,
		       COALESCE(MAX(st.current_streak), 0)
		FROM attempts a
		LEFT JOIN user_stats st ON st.user_id = a.user_id
		WHERE NOT a.is_practice
		  AND a.status IN ('won', 'lost')
		  AND a.puzzle_date BETWEEN $1 AND $2
		GROUP BY a.user_id
	`
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to summarize attempts",
			slog.String("error", err.Error()))
		return nil, wrapErr("attempt", "summarize_ranked", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.PlayerSnapshot
	for rows.Next() {
		var (
			snap    domain.PlayerSnapshot
			solveMs int64
		)
		if err := rows.Scan(&snap.UserID, &snap.GamesPlayed, &snap.Wins, &solveMs, &snap.CurrentStreak); err != nil {
			return nil, wrapErr("attempt", "summarize_ranked", err)
		}
		snap.TotalSolveTime = time.Duration(solveMs) * time.Millisecond
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("attempt", "summarize_ranked", err)
	}
	return out, nil
}
