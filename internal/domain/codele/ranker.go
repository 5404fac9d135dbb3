package codele

import (
	"bytes"
	"cmp"
	"slices"
	"time"

	"github.com/phrazzld/codele-api/internal/domain"
)

// Ranker orders player snapshots into leaderboard entries.
type Ranker struct {
	coinsPerWin int
}

// NewRanker creates a Ranker that values each win at coinsPerWin for the coins metric.
func NewRanker(coinsPerWin int) *Ranker {
	return &Ranker{coinsPerWin: coinsPerWin}
}

// Rank sorts snapshots by metric descending, then current streak descending,
// then user ID ascending, and numbers them from 1. The order is total, so
// pages cut from the result are stable. Snapshots with no games are dropped.
func (r *Ranker) Rank(
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	snapshots []domain.PlayerSnapshot,
	now time.Time,
) []domain.LeaderboardEntry {
	players := make([]domain.PlayerSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.GamesPlayed > 0 {
			players = append(players, s)
		}
	}

	slices.SortFunc(players, func(a, b domain.PlayerSnapshot) int {
		if c := r.compareMetric(metric, b, a); c != 0 {
			return c
		}
		if c := cmp.Compare(b.CurrentStreak, a.CurrentStreak); c != 0 {
			return c
		}
		return bytes.Compare(a.UserID[:], b.UserID[:])
	})

	computedAt := now.UTC()
	entries := make([]domain.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = domain.LeaderboardEntry{
			Metric:        metric,
			Period:        period,
			Rank:          i + 1,
			UserID:        p.UserID,
			WinRate:       p.WinRate(),
			CurrentStreak: p.CurrentStreak,
			AvgTime:       p.AvgTime(),
			GamesPlayed:   p.GamesPlayed,
			Wins:          p.Wins,
			Coins:         p.Wins * r.coinsPerWin,
			ComputedAt:    computedAt,
		}
	}
	return entries
}

// compareMetric compares a and b on metric. Win rates are compared by cross
// multiplication so equal ratios tie exactly.
func (r *Ranker) compareMetric(metric domain.LeaderboardMetric, a, b domain.PlayerSnapshot) int {
	switch metric {
	case domain.MetricStreak:
		return cmp.Compare(a.CurrentStreak, b.CurrentStreak)
	case domain.MetricCoins:
		return cmp.Compare(a.Wins*r.coinsPerWin, b.Wins*r.coinsPerWin)
	default:
		return cmp.Compare(a.Wins*b.GamesPlayed, b.Wins*a.GamesPlayed)
	}
}
