package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_RecomputeAndPage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	today := f.puzzles.Today()

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	// Two days ago: everyone plays, carol loses.
	f.clock.SetDate(today.AddDays(-2))
	f.playToday(t, alice, 2)
	f.playToday(t, bob, 5)
	f.playToday(t, carol, 0)

	// Today: alice loses, bob and carol win.
	f.clock.SetDate(today)
	f.playToday(t, alice, 0)
	f.playToday(t, bob, 1)
	f.playToday(t, carol, 3)

	require.NoError(t, f.leaderboard.Recompute(ctx))

	t.Run("weekly win rate", func(t *testing.T) {
		page, err := f.leaderboard.Page(ctx, LeaderboardQuery{
			Metric: domain.MetricWinRate, Period: domain.PeriodWeekly, PageSize: 5, UserID: carol,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		require.NotNil(t, page.ComputedAt)
		require.Len(t, page.Entries, 3)

		// bob 2/2; alice and carol 1/2, carol ahead on streak.
		assert.Equal(t, bob, page.Entries[0].UserID)
		assert.Equal(t, carol, page.Entries[1].UserID)
		assert.Equal(t, alice, page.Entries[2].UserID)
		for i, e := range page.Entries {
			assert.Equal(t, i+1, e.Rank)
		}
		require.NotNil(t, page.Me)
		assert.Equal(t, 2, page.Me.Rank)
	})

	t.Run("own entry off the page", func(t *testing.T) {
		page, err := f.leaderboard.Page(ctx, LeaderboardQuery{
			Metric: domain.MetricCoins, Period: domain.PeriodAllTime, Page: 1, PageSize: 1, UserID: alice,
		})
		require.NoError(t, err)
		require.Len(t, page.Entries, 1)
		assert.Equal(t, bob, page.Entries[0].UserID)
		assert.Equal(t, 20, page.Entries[0].Coins)
		require.NotNil(t, page.Me)
		assert.Equal(t, 3, page.Me.Rank)
	})

	t.Run("daily excludes absent players", func(t *testing.T) {
		page, err := f.leaderboard.Page(ctx, LeaderboardQuery{
			Metric: domain.MetricStreak, Period: domain.PeriodDaily, UserID: uuid.New(),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Len(t, page.Entries, 2, "default page size")
		assert.Nil(t, page.Me)
	})

	t.Run("second page", func(t *testing.T) {
		page, err := f.leaderboard.Page(ctx, LeaderboardQuery{
			Metric: domain.MetricStreak, Period: domain.PeriodDaily, Page: 2,
		})
		require.NoError(t, err)
		require.Len(t, page.Entries, 1)
		assert.Equal(t, 3, page.Entries[0].Rank)
	})
}

func TestLeaderboardService_PageValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		q    LeaderboardQuery
	}{
		{"unknown metric", LeaderboardQuery{Metric: "xp", Period: domain.PeriodDaily}},
		{"unknown period", LeaderboardQuery{Metric: domain.MetricStreak, Period: "yearly"}},
		{"negative page", LeaderboardQuery{Metric: domain.MetricStreak, Period: domain.PeriodDaily, Page: -1}},
		{"page too large", LeaderboardQuery{Metric: domain.MetricStreak, Period: domain.PeriodDaily, PageSize: 6}},
		{"offset overflows", LeaderboardQuery{Metric: domain.MetricWinRate, Period: domain.PeriodAllTime, Page: math.MaxInt, PageSize: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.leaderboard.Page(ctx, tt.q)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	t.Run("largest representable page is empty", func(t *testing.T) {
		q := LeaderboardQuery{
			Metric:   domain.MetricWinRate,
			Period:   domain.PeriodAllTime,
			Page:     math.MaxInt/4 + 1,
			PageSize: 4,
		}
		var page *LeaderboardPage
		require.NotPanics(t, func() {
			var err error
			page, err = f.leaderboard.Page(ctx, q)
			require.NoError(t, err)
		})
		assert.Empty(t, page.Entries)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		page, err := f.leaderboard.Page(ctx, LeaderboardQuery{Metric: domain.MetricStreak, Period: domain.PeriodDaily})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
		assert.Nil(t, page.ComputedAt)
	})
}
