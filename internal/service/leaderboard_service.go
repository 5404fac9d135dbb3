package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// LeaderboardQuery selects one page of a leaderboard snapshot.
type LeaderboardQuery struct {
	Metric   domain.LeaderboardMetric
	Period   domain.LeaderboardPeriod
	Page     int // 1-based; 0 means the first page
	PageSize int // 0 means the default page size
	UserID   uuid.UUID
}

// LeaderboardPage is one page of a snapshot plus the caller's own entry.
type LeaderboardPage struct {
	Metric     domain.LeaderboardMetric  `json:"metric"`
	Period     domain.LeaderboardPeriod  `json:"period"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	Total      int                       `json:"total"`
	ComputedAt *time.Time                `json:"computed_at,omitempty"`
	Entries    []domain.LeaderboardEntry `json:"entries"`
	Me         *domain.LeaderboardEntry  `json:"me,omitempty"`
}

// LeaderboardService recomputes and reads ranked snapshots.
type LeaderboardService struct {
	backend         store.Backend
	puzzles         *PuzzleService
	ranker          *codele.Ranker
	defaultPageSize int
	maxPageSize     int
	clock           Clock
	logger          *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(
	backend store.Backend,
	puzzles *PuzzleService,
	ranker *codele.Ranker,
	defaultPageSize, maxPageSize int,
	clock Clock,
	logger *slog.Logger,
) *LeaderboardService {
	if backend == nil {
		panic("backend cannot be nil")
	}
	if puzzles == nil {
		panic("puzzles cannot be nil")
	}
	if ranker == nil {
		panic("ranker cannot be nil")
	}
	if defaultPageSize < 1 {
		defaultPageSize = 1
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = defaultPageSize
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardService{
		backend:         backend,
		puzzles:         puzzles,
		ranker:          ranker,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		clock:           clock,
		logger:          logger.With(slog.String("component", "leaderboard_service")),
	}
}

// Recompute rebuilds every (metric, period) snapshot in one transaction.
func (s *LeaderboardService) Recompute(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := s.clock.Now()
	today := s.puzzles.Today()
	launch := s.puzzles.Launch()

	err := s.backend.WithinTx(ctx, func(ctx context.Context, stores store.Stores) error {
		for _, period := range domain.LeaderboardPeriods {
			from, to := period.Window(today, launch)
			snapshots, err := stores.Attempts.SummarizeRanked(ctx, from, to)
			if err != nil {
				return err
			}
			for _, metric := range domain.LeaderboardMetrics {
				entries := s.ranker.Rank(metric, period, snapshots, start)
				if err := stores.Leaderboard.Replace(ctx, metric, period, entries); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error("leaderboard recompute failed", slog.String("error", err.Error()))
		return NewServiceError("recompute_leaderboard", "failed to recompute leaderboard", err)
	}

	log.Info("leaderboard recomputed",
		slog.String("today", today.String()),
		slog.Duration("duration", s.clock.Now().Sub(start)))
	return nil
}

// Page reads one page of a stored snapshot. The caller's entry is looked up
// independently of the page and is nil when the caller is unranked.
func (s *LeaderboardService) Page(ctx context.Context, q LeaderboardQuery) (*LeaderboardPage, error) {
	if !q.Metric.IsValid() {
		return nil, domain.NewValidationError("metric", "unknown leaderboard metric", nil)
	}
	if !q.Period.IsValid() {
		return nil, domain.NewValidationError("period", "unknown leaderboard period", nil)
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return nil, domain.NewValidationError("page", "page must be at least 1", nil)
	}
	if q.PageSize == 0 {
		q.PageSize = s.defaultPageSize
	}
	if q.PageSize < 1 || q.PageSize > s.maxPageSize {
		return nil, domain.NewValidationError("page_size", "page size out of range", nil)
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return nil, domain.NewValidationError("page", "page out of range", nil)
	}

	board := s.backend.Stores().Leaderboard
	offset := (q.Page - 1) * q.PageSize
	entries, total, computedAt, err := board.Page(ctx, q.Metric, q.Period, offset, q.PageSize)
	if err != nil {
		return nil, NewServiceError("get_leaderboard", "failed to read leaderboard", err)
	}

	page := &LeaderboardPage{
		Metric:   q.Metric,
		Period:   q.Period,
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    total,
		Entries:  entries,
	}
	if !computedAt.IsZero() {
		page.ComputedAt = &computedAt
	}

	if q.UserID != uuid.Nil {
		me, err := board.GetEntry(ctx, q.Metric, q.Period, q.UserID)
		switch {
		case err == nil:
			page.Me = me
		case !errors.Is(err, store.ErrLeaderboardEntryNotFound):
			return nil, NewServiceError("get_leaderboard", "failed to read own entry", err)
		}
	}
	return page, nil
}
