package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BasePath is the prefix of every game route.
const BasePath = "/api/codele"

// Handlers bundles the route handlers.
type Handlers struct {
	Game    *GameHandler
	Archive *ArchiveHandler
	Player  *PlayerHandler
}

// Middlewares are the per-route-group middleware the routes need.
type Middlewares struct {
	// Authenticate guards every game route.
	Authenticate func(http.Handler) http.Handler

	// GuessLimit throttles the guess endpoints. Nil disables throttling.
	GuessLimit func(http.Handler) http.Handler
}

// Routes mounts the game API under BasePath.
func Routes(r chi.Router, h Handlers, mw Middlewares) {
	r.Route(BasePath, func(r chi.Router) {
		r.Use(mw.Authenticate)

		r.Get("/today", h.Game.GetToday)
		r.Get("/sessions/{id}", h.Game.GetSession)
		r.Get("/sessions/{id}/share", h.Game.ShareSession)

		r.Get("/archive/{date}", h.Archive.GetArchivePuzzle)
		r.Post("/archive/{date}/practice", h.Archive.StartPractice)
		r.Get("/calendar", h.Archive.GetCalendar)

		r.Get("/stats", h.Player.GetStats)
		r.Get("/leaderboard", h.Player.GetLeaderboard)

		r.Group(func(r chi.Router) {
			if mw.GuessLimit != nil {
				r.Use(mw.GuessLimit)
			}
			r.Post("/today/guesses", h.Game.SubmitTodayGuess)
			r.Post("/sessions/{id}/guesses", h.Game.SubmitSessionGuess)
		})
	})
}
