package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// PostgresLeaderboardStore implements the store.LeaderboardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLeaderboardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLeaderboardStore creates a new PostgreSQL implementation of the LeaderboardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLeaderboardStore(db store.DBTX, logger *slog.Logger) *PostgresLeaderboardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLeaderboardStore{
		db:     db,
		logger: logger.With(slog.String("component", "leaderboard_store")),
	}
}

// Ensure PostgresLeaderboardStore implements store.LeaderboardStore interface
var _ store.LeaderboardStore = (*PostgresLeaderboardStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresLeaderboardStore) WithTx(tx *sql.Tx) *PostgresLeaderboardStore {
	return &PostgresLeaderboardStore{db: tx, logger: s.logger}
}

const leaderboardColumns = `metric, period, rank, user_id, win_rate, current_streak,
	avg_time_ms, games_played, wins, coins, computed_at`

// Replace implements store.LeaderboardStore.Replace
func (s *PostgresLeaderboardStore) Replace(
	ctx context.Context,
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	entries []domain.LeaderboardEntry,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM leaderboard_entries WHERE metric = $1 AND period = $2`,
		string(metric), string(period))
	if err != nil {
		log.Error("failed to clear leaderboard snapshot",
			slog.String("error", err.Error()),
			slog.String("metric", string(metric)),
			slog.String("period", string(period)))
		return wrapErr("leaderboard_entry", "replace", err)
	}

	query := `
		INSERT INTO leaderboard_entries (` + leaderboardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, e := range entries {
		_, err := s.db.ExecContext(ctx, query,
			string(metric), string(period), e.Rank, e.UserID, e.WinRate, e.CurrentStreak,
			e.AvgTime.Milliseconds(), e.GamesPlayed, e.Wins, e.Coins, e.ComputedAt,
		)
		if err != nil {
			log.Error("failed to insert leaderboard entry",
				slog.String("error", err.Error()),
				slog.Int("rank", e.Rank))
			return wrapErr("leaderboard_entry", "replace", err)
		}
	}

	log.Debug("leaderboard snapshot replaced",
		slog.String("metric", string(metric)),
		slog.String("period", string(period)),
		slog.Int("entries", len(entries)))
	return nil
}

// Page implements store.LeaderboardStore.Page
func (s *PostgresLeaderboardStore) Page(
	ctx context.Context,
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	offset, limit int,
) ([]domain.LeaderboardEntry, int, time.Time, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, time.Time{}, store.ErrInvalidPageWindow
	}
	var (
		total      int
		computedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(computed_at) FROM leaderboard_entries WHERE metric = $1 AND period = $2`,
		string(metric), string(period)).Scan(&total, &computedAt)
	if err != nil {
		return nil, 0, time.Time{}, wrapErr("leaderboard_entry", "page", err)
	}

	query := `SELECT ` + leaderboardColumns + `
		FROM leaderboard_entries
		WHERE metric = $1 AND period = $2
		ORDER BY rank
		OFFSET $3 LIMIT $4`
	rows, err := s.db.QueryContext(ctx, query, string(metric), string(period), offset, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to page leaderboard",
			slog.String("error", err.Error()))
		return nil, 0, time.Time{}, wrapErr("leaderboard_entry", "page", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		e, err := scanLeaderboardEntry(rows)
		if err != nil {
			return nil, 0, time.Time{}, wrapErr("leaderboard_entry", "page", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, time.Time{}, wrapErr("leaderboard_entry", "page", err)
	}

	var at time.Time
	if computedAt.Valid {
		at = computedAt.Time
	}
	return entries, total, at, nil
}

// GetEntry implements store.LeaderboardStore.GetEntry
func (s *PostgresLeaderboardStore) GetEntry(
	ctx context.Context,
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	userID uuid.UUID,
) (*domain.LeaderboardEntry, error) {
	query := `SELECT ` + leaderboardColumns + `
		FROM leaderboard_entries
		WHERE metric = $1 AND period = $2 AND user_id = $3`
	e, err := scanLeaderboardEntry(s.db.QueryRowContext(ctx, query, string(metric), string(period), userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLeaderboardEntryNotFound
		}
		return nil, wrapErr("leaderboard_entry", "get_entry", err)
	}
	return e, nil
}

func scanLeaderboardEntry(row rowScanner) (*domain.LeaderboardEntry, error) {
	var (
		e              domain.LeaderboardEntry
		metric, period string
		avgMs          int64
	)
	err := row.Scan(&metric, &period, &e.Rank, &e.UserID, &e.WinRate, &e.CurrentStreak,
		&avgMs, &e.GamesPlayed, &e.Wins, &e.Coins, &e.ComputedAt)
	if err != nil {
		return nil, err
	}
	e.Metric = domain.LeaderboardMetric(metric)
	e.Period = domain.LeaderboardPeriod(period)
	e.AvgTime = time.Duration(avgMs) * time.Millisecond
	return &e, nil
}
