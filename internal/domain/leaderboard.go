package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LeaderboardMetric is the primary sort key of a leaderboard.
type LeaderboardMetric string

const (
	MetricWinRate LeaderboardMetric = "win_rate"
	MetricStreak  LeaderboardMetric = "streak"
	MetricCoins   LeaderboardMetric = "coins"
)

// LeaderboardMetrics lists every metric in display order.
var LeaderboardMetrics = []LeaderboardMetric{MetricWinRate, MetricStreak, MetricCoins}

// IsValid checks if the metric is one of the defined metrics.
func (m LeaderboardMetric) IsValid() bool {
	switch m {
	case MetricWinRate, MetricStreak, MetricCoins:
		return true
	default:
		return false
	}
}

// ParseLeaderboardMetric converts s to a metric, rejecting unknown values.
func ParseLeaderboardMetric(s string) (LeaderboardMetric, error) {
	m := LeaderboardMetric(s)
	if !m.IsValid() {
		return "", NewValidationError("metric", fmt.Sprintf("must be one of %v", LeaderboardMetrics), nil)
	}
	return m, nil
}

// LeaderboardPeriod is the window of puzzle dates a leaderboard covers.
type LeaderboardPeriod string

const (
	PeriodDaily   LeaderboardPeriod = "daily"
	PeriodWeekly  LeaderboardPeriod = "weekly"
	PeriodMonthly LeaderboardPeriod = "monthly"
	PeriodAllTime LeaderboardPeriod = "all_time"
)

// LeaderboardPeriods lists every period in display order.
var LeaderboardPeriods = []LeaderboardPeriod{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}

// IsValid checks if the period is one of the defined periods.
func (p LeaderboardPeriod) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return true
	default:
		return false
	}
}

// ParseLeaderboardPeriod converts s to a period, rejecting unknown values.
func ParseLeaderboardPeriod(s string) (LeaderboardPeriod, error) {
	p := LeaderboardPeriod(s)
	if !p.IsValid() {
		return "", NewValidationError("period", fmt.Sprintf("must be one of %v", LeaderboardPeriods), nil)
	}
	return p, nil
}

// Window returns the inclusive range of puzzle dates the period covers on today.
// All-time starts at launch.
func (p LeaderboardPeriod) Window(today, launch Date) (from, to Date) {
	switch p {
	case PeriodDaily:
		from = today
	case PeriodWeekly:
		from = today.AddDays(-6)
	case PeriodMonthly:
		from = today.AddDays(-29)
	default:
		from = launch
	}
	if from.Before(launch) {
		from = launch
	}
	return from, today
}

// PlayerSnapshot is one user's ranked results over a leaderboard window.
type PlayerSnapshot struct {
	UserID         uuid.UUID
	GamesPlayed    int
	Wins           int
	CurrentStreak  int
	TotalSolveTime time.Duration
}

// WinRate returns wins over games played.
func (p PlayerSnapshot) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.GamesPlayed)
}

// AvgTime returns the mean solve time over wins.
func (p PlayerSnapshot) AvgTime() time.Duration {
	if p.Wins == 0 {
		return 0
	}
	return p.TotalSolveTime / time.Duration(p.Wins)
}

// LeaderboardEntry is one row of a ranked snapshot. Entries are replaced
// wholesale on recompute and never updated in place.
type LeaderboardEntry struct {
	Metric        LeaderboardMetric `json:"metric"`
	Period        LeaderboardPeriod `json:"period"`
	Rank          int               `json:"rank"`
	UserID        uuid.UUID         `json:"user_id"`
	WinRate       float64           `json:"win_rate"`
	CurrentStreak int               `json:"current_streak"`
	AvgTime       time.Duration     `json:"avg_time"`
	GamesPlayed   int               `json:"games_played"`
	Wins          int               `json:"wins"`
	Coins         int               `json:"coins"`
	ComputedAt    time.Time         `json:"computed_at"`
}
