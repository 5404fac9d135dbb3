package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestAttempt(t *testing.T) *domain.Attempt {
	t.Helper()
	puzzle, err := domain.NewPuzzle(domain.NewDate(2024, time.March, 1), 61, "REACT", time.Now())
	require.NoError(t, err)
	a, err := domain.NewAttempt(uuid.New(), puzzle, false, time.Now())
	require.NoError(t, err)
	return a
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: checkViolationCode}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode}, store.ErrInvalidEntity},
		{"wrapped", fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}), store.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tt.err), tt.want)
		})
	}

	t.Run("names the constraint", func(t *testing.T) {
		err := MapError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "attempts_terminal_completed"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "attempts_terminal_completed")
	})

	t.Run("passes through unknown errors", func(t *testing.T) {
		other := errors.New("connection reset")
		assert.Equal(t, other, MapError(other))
		assert.NoError(t, MapError(nil))
	})
}

func TestAttemptStoreCreate_RankedDuplicate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresAttemptStore(db, nil)
	a := newTestAttempt(t)

	mock.ExpectExec("INSERT INTO attempts").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "attempts_ranked_user_puzzle_key"})

	err := s.Create(context.Background(), a)
	assert.ErrorIs(t, err, store.ErrRankedAttemptExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRankedAttemptConflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ranked index", &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: rankedAttemptConstraint}, true},
		{"unnamed unique", &pgconn.PgError{Code: uniqueViolationCode}, true},
		{"primary key", &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "attempts_pkey"}, false},
		{"check", &pgconn.PgError{Code: checkViolationCode}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRankedAttemptConflict(tt.err))
		})
	}
}

func TestAttemptStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("increments version", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresAttemptStore(db, nil)
		a := newTestAttempt(t)

		mock.ExpectExec("UPDATE attempts").
			WithArgs(a.ID, int64(0), sqlmock.AnyArg(), string(a.Status), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(context.Background(), a))
		assert.Equal(t, 1, a.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresAttemptStore(db, nil)
		a := newTestAttempt(t)

		mock.ExpectExec("UPDATE attempts").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(a.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := s.Update(context.Background(), a)
		assert.ErrorIs(t, err, store.ErrVersionConflict)
		assert.Equal(t, 0, a.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing attempt", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresAttemptStore(db, nil)
		a := newTestAttempt(t)

		mock.ExpectExec("UPDATE attempts").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, s.Update(context.Background(), a), store.ErrAttemptNotFound)
	})
}

func TestAttemptStoreMarkAggregated(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresAttemptStore(db, nil)
	id := uuid.New()

	mock.ExpectExec("UPDATE attempts SET aggregated_at").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	assert.ErrorIs(t, s.MarkAggregated(context.Background(), id, time.Now()), store.ErrAlreadyAggregated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStatsStoreGet_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresUserStatsStore(db, nil)

	mock.ExpectQuery("SELECT (.+) FROM user_stats").WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserStatsNotFound)
}

func TestLeaderboardStorePage_Empty(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresLeaderboardStore(db, nil)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(0, nil))
	mock.ExpectQuery("SELECT (.+) FROM leaderboard_entries").
		WillReturnRows(sqlmock.NewRows([]string{
			"metric", "period", "rank", "user_id", "win_rate", "current_streak",
			"avg_time_ms", "games_played", "wins", "coins", "computed_at",
		}))

	entries, total, at, err := s.Page(context.Background(), domain.MetricWinRate, domain.PeriodDaily, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)
	assert.True(t, at.IsZero())
}

func TestLeaderboardStorePage_NegativeOffset(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresLeaderboardStore(db, nil)

	_, _, _, err := s.Page(context.Background(), domain.MetricWinRate, domain.PeriodAllTime, -4, 4)
	assert.ErrorIs(t, err, store.ErrInvalidPageWindow)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query is sent")
}

func TestNewStoresPanicOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresPuzzleStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresAttemptStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresUserStatsStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresLeaderboardStore(nil, nil) })
}
