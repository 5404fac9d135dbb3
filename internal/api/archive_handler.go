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

// ArchiveService serves past puzzles and the calendar.
type ArchiveService interface {
	PuzzleForDate(ctx context.Context, date domain.Date) (*domain.Puzzle, error)
	StartPracticeForDate(ctx context.Context, userID uuid.UUID, date domain.Date) (*service.Session, error)
	Calendar(ctx context.Context, userID uuid.UUID, from, to domain.Date) ([]service.CalendarDay, error)
}

// ArchiveHandler serves the archive, practice sessions and the calendar.
type ArchiveHandler struct {
	archive     ArchiveService
	maxAttempts int
	logger      *slog.Logger
}

// NewArchiveHandler creates an ArchiveHandler.
func NewArchiveHandler(archive ArchiveService, maxAttempts int, logger *slog.Logger) *ArchiveHandler {
	if archive == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("archive cannot be nil for ArchiveHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ArchiveHandler")
	}
	return &ArchiveHandler{
		archive:     archive,
		maxAttempts: maxAttempts,
		logger:      logger.With(slog.String("component", "archive_handler")),
	}
}

// GetArchivePuzzle handles GET /archive/{date}.
func (h *ArchiveHandler) GetArchivePuzzle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	if _, ok := requireUserID(w, r, log); !ok {
		return
	}
	date, err := getPathDate(r, "date")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	puzzle, err := h.archive.PuzzleForDate(r.Context(), date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load puzzle")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, puzzleToResponse(puzzle, h.maxAttempts))
}

// StartPractice handles POST /archive/{date}/practice.
func (h *ArchiveHandler) StartPractice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	date, err := getPathDate(r, "date")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	sess, err := h.archive.StartPracticeForDate(r.Context(), userID, date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start practice session")
		return
	}

	log.Debug("practice session started",
		slog.String("session_id", sess.Attempt.ID.String()),
		slog.String("date", date.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(sess, h.maxAttempts))
}

// GetCalendar handles GET /calendar?from=&to=.
func (h *ArchiveHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	from, err := getQueryDate(r, "from")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	to, err := getQueryDate(r, "to")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	days, err := h.archive.Calendar(r.Context(), userID, from, to)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load calendar")
		return
	}

	resp := CalendarResponse{Days: days}
	if len(days) > 0 {
		first, last := days[0].Date, days[len(days)-1].Date
		resp.From, resp.To = &first, &last
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
