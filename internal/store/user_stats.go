package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
)

// UserStatsStore defines the interface for per-user ranked statistics.
type UserStatsStore interface {
	// Get retrieves the stats for userID.
	// Returns ErrUserStatsNotFound if the user has no ranked completions.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)

	// GetForUpdate retrieves the stats with a row-level lock.
	// It must be called within a transaction.
	// Returns ErrUserStatsNotFound if the user has no ranked completions.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)

	// Upsert creates or replaces the stats row for stats.UserID.
	Upsert(ctx context.Context, stats *domain.UserStats) error
}
