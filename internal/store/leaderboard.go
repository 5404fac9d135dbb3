package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
)

// LeaderboardStore persists ranked leaderboard snapshots, one per (metric, period).
type LeaderboardStore interface {
	// Replace discards the stored snapshot for (metric, period) and writes entries.
	// It must be called within a transaction so readers never see a partial snapshot.
	Replace(
		ctx context.Context,
		metric domain.LeaderboardMetric,
		period domain.LeaderboardPeriod,
		entries []domain.LeaderboardEntry,
	) error

	// Page returns limit entries starting at offset in rank order, the total
	// number of entries, and the time the snapshot was computed (zero if the
	// snapshot is empty).
	Page(
		ctx context.Context,
		metric domain.LeaderboardMetric,
		period domain.LeaderboardPeriod,
		offset, limit int,
	) ([]domain.LeaderboardEntry, int, time.Time, error)

	// GetEntry returns userID's entry in the snapshot.
	// Returns ErrLeaderboardEntryNotFound if the user is not ranked.
	GetEntry(
		ctx context.Context,
		metric domain.LeaderboardMetric,
		period domain.LeaderboardPeriod,
		userID uuid.UUID,
	) (*domain.LeaderboardEntry, error)
}
