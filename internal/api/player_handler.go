package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/codele-api/internal/api/shared"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/service"
)

// StatsReader reads a user's aggregated stats.
type StatsReader interface {
	Stats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
}

// LeaderboardReader reads leaderboard snapshots.
type LeaderboardReader interface {
	Page(ctx context.Context, q service.LeaderboardQuery) (*service.LeaderboardPage, error)
}

// PlayerHandler serves stats and the leaderboard.
type PlayerHandler struct {
	stats       StatsReader
	leaderboard LeaderboardReader
	logger      *slog.Logger
}

// NewPlayerHandler creates a PlayerHandler.
func NewPlayerHandler(stats StatsReader, leaderboard LeaderboardReader, logger *slog.Logger) *PlayerHandler {
	if stats == nil || leaderboard == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stats and leaderboard cannot be nil for PlayerHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PlayerHandler")
	}
	return &PlayerHandler{
		stats:       stats,
		leaderboard: leaderboard,
		logger:      logger.With(slog.String("component", "player_handler")),
	}
}

// GetStats handles GET /stats.
func (h *PlayerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.stats.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}

// GetLeaderboard handles GET /leaderboard?metric=&period=&page=&page_size=.
// metric defaults to win_rate and period to all_time.
func (h *PlayerHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := service.LeaderboardQuery{
		Metric: domain.MetricWinRate,
		Period: domain.PeriodAllTime,
		UserID: userID,
	}
	if v := q.Get("metric"); v != "" {
		query.Metric = domain.LeaderboardMetric(v)
	}
	if v := q.Get("period"); v != "" {
		query.Period = domain.LeaderboardPeriod(v)
	}

	var err error
	if query.Page, err = getQueryInt(r, "page"); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if query.PageSize, err = getQueryInt(r, "page_size"); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.leaderboard.Page(r.Context(), query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load leaderboard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, leaderboardToResponse(page))
}
