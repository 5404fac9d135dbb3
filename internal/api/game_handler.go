package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/codele-api/internal/api/shared"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/service"
)

// SessionService plays attempt sessions.
type SessionService interface {
	Today(ctx context.Context, userID uuid.UUID) (*service.Session, error)
	SubmitToday(ctx context.Context, userID uuid.UUID, in service.GuessInput) (*service.Session, error)
	Submit(ctx context.Context, userID, sessionID uuid.UUID, in service.GuessInput) (*service.Session, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*service.Session, error)
	Share(ctx context.Context, userID, sessionID uuid.UUID) (string, error)
}

// GameHandler serves today's puzzle and session play.
type GameHandler struct {
	sessions    SessionService
	maxAttempts int
	logger      *slog.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(sessions SessionService, maxAttempts int, logger *slog.Logger) *GameHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions cannot be nil for GameHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GameHandler")
	}
	return &GameHandler{
		sessions:    sessions,
		maxAttempts: maxAttempts,
		logger:      logger.With(slog.String("component", "game_handler")),
	}
}

// GetToday handles GET /today.
func (h *GameHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	sess, err := h.sessions.Today(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load today's puzzle")
		return
	}

	resp := TodayResponse{Puzzle: puzzleToResponse(sess.Puzzle, h.maxAttempts)}
	if sess.Attempt != nil {
		resp.Session = sessionToResponse(sess, h.maxAttempts)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SubmitTodayGuess handles POST /today/guesses.
func (h *GameHandler) SubmitTodayGuess(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	req, ok := decodeGuess(w, r, log)
	if !ok {
		return
	}

	sess, err := h.sessions.SubmitToday(r.Context(), userID, service.GuessInput{
		Guess:           req.Guess,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit guess")
		return
	}

	log.Debug("guess accepted",
		slog.String("session_id", sess.Attempt.ID.String()),
		slog.String("status", string(sess.Attempt.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(sess, h.maxAttempts))
}

// GetSession handles GET /sessions/{id}.
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	sess, err := h.sessions.Get(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(sess, h.maxAttempts))
}

// SubmitSessionGuess handles POST /sessions/{id}/guesses.
func (h *GameHandler) SubmitSessionGuess(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	req, ok := decodeGuess(w, r, log)
	if !ok {
		return
	}

	sess, err := h.sessions.Submit(r.Context(), userID, sessionID, service.GuessInput{
		Guess:           req.Guess,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit guess")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(sess, h.maxAttempts))
}

// ShareSession handles GET /sessions/{id}/share.
func (h *GameHandler) ShareSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	text, err := h.sessions.Share(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build share text")
		return
	}
	shared.RespondWithText(w, r, http.StatusOK, text)
}
