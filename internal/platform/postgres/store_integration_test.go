//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/postgres"
	"github.com/phrazzld/codele-api/internal/store"
	"github.com/phrazzld/codele-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPuzzle(t *testing.T, tx *sql.Tx, date domain.Date) *domain.Puzzle {
	t.Helper()
	p, err := domain.NewPuzzle(date, 1, "REACT", time.Now())
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresPuzzleStore(tx, nil).CreateIfAbsent(context.Background(), p))
	return p
}

func TestPostgresStores(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	date := domain.NewDate(2024, time.May, 4)

	t.Run("puzzle create is idempotent", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			puzzles := postgres.NewPostgresPuzzleStore(tx, nil)
			first := seedPuzzle(t, tx, date)

			other, err := domain.NewPuzzle(date, 1, "TRACE", time.Now())
			require.NoError(t, err)
			require.NoError(t, puzzles.CreateIfAbsent(ctx, other))

			got, err := puzzles.GetByDate(ctx, date)
			require.NoError(t, err)
			assert.Equal(t, first.ID, got.ID)
			assert.Equal(t, "REACT", got.Solution)
			assert.Equal(t, date, got.Date)

			_, err = puzzles.GetByDate(ctx, date.AddDays(1))
			assert.ErrorIs(t, err, store.ErrPuzzleNotFound)
		})
	})

	t.Run("attempt lifecycle", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			attempts := postgres.NewPostgresAttemptStore(tx, nil)
			puzzle := seedPuzzle(t, tx, date)
			userID := uuid.New()

			a, err := domain.NewAttempt(userID, puzzle, false, time.Now())
			require.NoError(t, err)
			require.NoError(t, attempts.Create(ctx, a))

			stale := a.Clone()
			now := time.Now()
			require.NoError(t, a.AppendGuess(domain.Guess{
				Text: "REACT",
				Evaluation: []domain.LetterState{
					domain.LetterCorrect, domain.LetterCorrect, domain.LetterCorrect,
					domain.LetterCorrect, domain.LetterCorrect,
				},
			}, 6, now))
			a.UpdatedAt = now
			require.NoError(t, attempts.Update(ctx, a))
			assert.Equal(t, 1, a.Version)

			require.NoError(t, stale.AppendGuess(domain.Guess{
				Text: "TRACE",
				Evaluation: []domain.LetterState{
					domain.LetterPresent, domain.LetterPresent, domain.LetterCorrect,
					domain.LetterCorrect, domain.LetterPresent,
				},
			}, 6, now))
			assert.ErrorIs(t, attempts.Update(ctx, stale), store.ErrVersionConflict)

			got, err := attempts.GetRanked(ctx, userID, puzzle.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.AttemptWon, got.Status)
			require.Len(t, got.Guesses, 1)
			assert.Equal(t, "REACT", got.Guesses[0].Text)

			pending, err := attempts.ListPendingAggregation(ctx, 10)
			require.NoError(t, err)
			require.Len(t, pending, 1)

			require.NoError(t, attempts.MarkAggregated(ctx, a.ID, time.Now()))
			assert.ErrorIs(t, attempts.MarkAggregated(ctx, a.ID, time.Now()), store.ErrAlreadyAggregated)

			pending, err = attempts.ListPendingAggregation(ctx, 10)
			require.NoError(t, err)
			assert.Empty(t, pending)

			snaps, err := attempts.SummarizeRanked(ctx, date, date)
			require.NoError(t, err)
			require.Len(t, snaps, 1)
			assert.Equal(t, userID, snaps[0].UserID)
			assert.Equal(t, 1, snaps[0].GamesPlayed)
			assert.Equal(t, 1, snaps[0].Wins)
		})
	})

	t.Run("second ranked attempt is rejected", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			attempts := postgres.NewPostgresAttemptStore(tx, nil)
			puzzle := seedPuzzle(t, tx, date)
			userID := uuid.New()

			practice, err := domain.NewAttempt(userID, puzzle, true, time.Now())
			require.NoError(t, err)
			require.NoError(t, attempts.Create(ctx, practice))

			first, err := domain.NewAttempt(userID, puzzle, false, time.Now())
			require.NoError(t, err)
			require.NoError(t, attempts.Create(ctx, first))

			second, err := domain.NewAttempt(userID, puzzle, false, time.Now())
			require.NoError(t, err)
			assert.ErrorIs(t, attempts.Create(ctx, second), store.ErrRankedAttemptExists)
		})
	})

	t.Run("user stats upsert", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			stats := postgres.NewPostgresUserStatsStore(tx, nil)
			userID := uuid.New()

			_, err := stats.Get(ctx, userID)
			assert.ErrorIs(t, err, store.ErrUserStatsNotFound)

			s := domain.NewUserStats(userID, 6, time.Now())
			s.GamesPlayed, s.Wins, s.CurrentStreak, s.MaxStreak = 3, 2, 2, 2
			s.GuessDistribution[2] = 2
			s.LastCompletedDate = &date
			s.TotalSolveTime = 90 * time.Second
			require.NoError(t, stats.Upsert(ctx, s))

			s.GamesPlayed = 4
			require.NoError(t, stats.Upsert(ctx, s))

			got, err := stats.GetForUpdate(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, 4, got.GamesPlayed)
			assert.Equal(t, []int{0, 0, 2, 0, 0, 0}, got.GuessDistribution)
			require.NotNil(t, got.LastCompletedDate)
			assert.Equal(t, date, *got.LastCompletedDate)
			assert.Equal(t, 90*time.Second, got.TotalSolveTime)
		})
	})

	t.Run("leaderboard replace and page", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			board := postgres.NewPostgresLeaderboardStore(tx, nil)
			now := time.Now().UTC().Truncate(time.Second)

			entries := make([]domain.LeaderboardEntry, 3)
			for i := range entries {
				entries[i] = domain.LeaderboardEntry{
					Rank: i + 1, UserID: uuid.New(), WinRate: 1, GamesPlayed: 1, Wins: 1,
					AvgTime: 30 * time.Second, ComputedAt: now,
				}
			}
			require.NoError(t, board.Replace(ctx, domain.MetricStreak, domain.PeriodWeekly, entries))
			require.NoError(t, board.Replace(ctx, domain.MetricStreak, domain.PeriodWeekly, entries[:2]))

			page, total, at, err := board.Page(ctx, domain.MetricStreak, domain.PeriodWeekly, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, 2, total)
			assert.True(t, now.Equal(at))
			require.Len(t, page, 1)
			assert.Equal(t, 2, page[0].Rank)
			assert.Equal(t, 30*time.Second, page[0].AvgTime)

			_, err = board.GetEntry(ctx, domain.MetricStreak, domain.PeriodWeekly, entries[2].UserID)
			assert.ErrorIs(t, err, store.ErrLeaderboardEntryNotFound)
		})
	})
}

func TestBackendWithinTx(t *testing.T) {
	db := testdb.Open(t)
	backend := postgres.NewBackend(db, nil)
	ctx := context.Background()
	date := domain.NewDate(2031, time.January, 1)

	p, err := domain.NewPuzzle(date, 9, "REACT", time.Now())
	require.NoError(t, err)

	err = backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		require.NoError(t, s.Puzzles.CreateIfAbsent(ctx, p))
		return store.ErrInvalidEntity
	})
	require.ErrorIs(t, err, store.ErrInvalidEntity)

	_, err = backend.Stores().Puzzles.GetByDate(ctx, date)
	assert.ErrorIs(t, err, store.ErrPuzzleNotFound)
}
