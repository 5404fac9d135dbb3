package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// StatsAggregator folds finished ranked sessions into UserStats.
//
// Each session is applied at most once: the session's aggregated marker is
// set in the same transaction that writes the stats, and a second delivery
// finds the marker already set and does nothing.
type StatsAggregator struct {
	backend     store.Backend
	maxAttempts int
	clock       Clock
	logger      *slog.Logger
}

// NewStatsAggregator creates a StatsAggregator.
func NewStatsAggregator(backend store.Backend, maxAttempts int, clock Clock, logger *slog.Logger) *StatsAggregator {
	if backend == nil {
		panic("backend cannot be nil")
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsAggregator{
		backend:     backend,
		maxAttempts: maxAttempts,
		clock:       clock,
		logger:      logger.With(slog.String("component", "stats_aggregator")),
	}
}

// Apply folds attempt into its owner's stats using stores, which must be
// bound to the caller's transaction. It reports whether the stats changed.
// Practice sessions and already aggregated sessions are no-ops.
func (a *StatsAggregator) Apply(
	ctx context.Context,
	stores store.Stores,
	attempt *domain.Attempt,
	now time.Time,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	if attempt.IsPractice {
		return false, nil
	}
	if !attempt.Status.IsTerminal() {
		return false, domain.ErrSessionNotFinished
	}

	now = now.UTC()
	if err := stores.Attempts.MarkAggregated(ctx, attempt.ID, now); err != nil {
		if errors.Is(err, store.ErrAlreadyAggregated) {
			log.Debug("session already aggregated", slog.String("session_id", attempt.ID.String()))
			return false, nil
		}
		return false, err
	}

	stats, err := stores.Stats.GetForUpdate(ctx, attempt.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrUserStatsNotFound) {
			return false, err
		}
		stats = domain.NewUserStats(attempt.UserID, a.maxAttempts, now)
	}

	if err := stats.ApplyCompletion(attempt, now); err != nil {
		return false, err
	}
	if err := stats.Validate(); err != nil {
		return false, err
	}
	if err := stores.Stats.Upsert(ctx, stats); err != nil {
		return false, err
	}

	attempt.AggregatedAt = &now
	log.Info("session aggregated",
		slog.String("session_id", attempt.ID.String()),
		slog.String("user_id", attempt.UserID.String()),
		slog.String("status", string(attempt.Status)),
		slog.Int("current_streak", stats.CurrentStreak))
	return true, nil
}

// OnSessionCompleted applies a finished session in its own transaction.
// Redelivery of the same session is a no-op.
func (a *StatsAggregator) OnSessionCompleted(ctx context.Context, attempt *domain.Attempt) (bool, error) {
	var applied bool
	err := a.backend.WithinTx(ctx, func(ctx context.Context, stores store.Stores) error {
		var err error
		applied, err = a.Apply(ctx, stores, attempt, a.clock.Now())
		return err
	})
	if err != nil {
		return false, NewServiceError("aggregate_session", "failed to aggregate session", err)
	}
	return applied, nil
}

// ReconcilePending redelivers up to limit finished ranked sessions whose
// aggregated marker is unset and returns how many were applied.
func (a *StatsAggregator) ReconcilePending(ctx context.Context, limit int) (int, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	pending, err := a.backend.Stores().Attempts.ListPendingAggregation(ctx, limit)
	if err != nil {
		return 0, NewServiceError("reconcile_stats", "failed to list pending sessions", err)
	}

	applied := 0
	for _, attempt := range pending {
		ok, err := a.OnSessionCompleted(ctx, attempt)
		if err != nil {
			log.Error("failed to reconcile session",
				slog.String("error", err.Error()),
				slog.String("session_id", attempt.ID.String()))
			continue
		}
		if ok {
			applied++
		}
	}

	if applied > 0 {
		log.Info("reconciled pending sessions", slog.Int("applied", applied), slog.Int("pending", len(pending)))
	}
	return applied, nil
}

// Stats returns userID's stats, or empty stats if the user has not finished
// a ranked session yet.
func (a *StatsAggregator) Stats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	stats, err := a.backend.Stores().Stats.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserStatsNotFound) {
			return domain.NewUserStats(userID, a.maxAttempts, a.clock.Now()), nil
		}
		return nil, NewServiceError("get_stats", "failed to read stats", err)
	}
	return stats, nil
}
