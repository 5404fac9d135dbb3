package task

import (
	"context"
	"log/slog"

	"github.com/phrazzld/codele-api/internal/events"
)

// Triggerer requests an out-of-schedule job run.
type Triggerer interface {
	Trigger(name string) bool
}

// RecomputeOnCompletion triggers the leaderboard recompute whenever a ranked
// session finishes, so standings catch up before the next tick.
type RecomputeOnCompletion struct {
	scheduler Triggerer
	logger    *slog.Logger
}

var _ events.EventHandler = (*RecomputeOnCompletion)(nil)

// NewRecomputeOnCompletion creates the handler.
func NewRecomputeOnCompletion(scheduler Triggerer, logger *slog.Logger) *RecomputeOnCompletion {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecomputeOnCompletion{
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "recompute_on_completion")),
	}
}

// HandleEvent ignores every event type but session completion.
func (h *RecomputeOnCompletion) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeSessionCompleted {
		return nil
	}
	if !h.scheduler.Trigger(JobLeaderboardRecompute) {
		h.logger.WarnContext(ctx, "leaderboard job not registered",
			slog.String("event_id", event.ID.String()))
	}
	return nil
}
