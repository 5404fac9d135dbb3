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

// PostgresUserStatsStore implements the store.UserStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStatsStore creates a new PostgreSQL implementation of the UserStatsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStatsStore(db store.DBTX, logger *slog.Logger) *PostgresUserStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_stats_store")),
	}
}

// Ensure PostgresUserStatsStore implements store.UserStatsStore interface
var _ store.UserStatsStore = (*PostgresUserStatsStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresUserStatsStore) WithTx(tx *sql.Tx) *PostgresUserStatsStore {
	return &PostgresUserStatsStore{db: tx, logger: s.logger}
}

const userStatsColumns = `user_id, games_played, wins, current_streak, max_streak,
	guess_distribution, last_completed_date, total_solve_time_ms, updated_at`

// Get implements store.UserStatsStore.Get
func (s *PostgresUserStatsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	return s.get(ctx, `SELECT `+userStatsColumns+` FROM user_stats WHERE user_id = $1`, userID)
}

// GetForUpdate implements store.UserStatsStore.GetForUpdate
func (s *PostgresUserStatsStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	return s.get(ctx, `SELECT `+userStatsColumns+` FROM user_stats WHERE user_id = $1 FOR UPDATE`, userID)
}

func (s *PostgresUserStatsStore) get(ctx context.Context, query string, userID uuid.UUID) (*domain.UserStats, error) {
	var (
		stats   domain.UserStats
		dist    []byte
		last    sql.NullTime
		solveMs int64
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID, &stats.GamesPlayed, &stats.Wins, &stats.CurrentStreak, &stats.MaxStreak,
		&dist, &last, &solveMs, &stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserStatsNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, wrapErr("user_stats", "get", err)
	}

	if err := json.Unmarshal(dist, &stats.GuessDistribution); err != nil {
		return nil, fmt.Errorf("failed to decode guess distribution: %w", err)
	}
	if last.Valid {
		d := domain.DateOf(last.Time)
		stats.LastCompletedDate = &d
	}
	stats.TotalSolveTime = time.Duration(solveMs) * time.Millisecond
	return &stats, nil
}

// Upsert implements store.UserStatsStore.Upsert
func (s *PostgresUserStatsStore) Upsert(ctx context.Context, stats *domain.UserStats) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stats.Validate(); err != nil {
		return err
	}

	dist, err := json.Marshal(stats.GuessDistribution)
	if err != nil {
		return fmt.Errorf("failed to encode guess distribution: %w", err)
	}
	var last any
	if stats.LastCompletedDate != nil {
		last = stats.LastCompletedDate.Time()
	}

	query := `
		INSERT INTO user_stats (` + userStatsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			current_streak = EXCLUDED.current_streak,
			max_streak = EXCLUDED.max_streak,
			guess_distribution = EXCLUDED.guess_distribution,
			last_completed_date = EXCLUDED.last_completed_date,
			total_solve_time_ms = EXCLUDED.total_solve_time_ms,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		stats.UserID, stats.GamesPlayed, stats.Wins, stats.CurrentStreak, stats.MaxStreak,
		dist, last, stats.TotalSolveTime.Milliseconds(), stats.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return wrapErr("user_stats", "upsert", err)
	}

	log.Debug("user stats saved",
		slog.String("user_id", stats.UserID.String()),
		slog.Int("games_played", stats.GamesPlayed),
		slog.Int("current_streak", stats.CurrentStreak))
	return nil
}
