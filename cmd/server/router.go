package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/codele-api/internal/api"
	apiMiddleware "github.com/phrazzld/codele-api/internal/api/middleware"
)

// setupRouter builds the router with global middleware, the game API and
// the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{apiMiddleware.TraceHeader, "Retry-After"},
		MaxAge:         300,
	}))

	maxAttempts := app.config.Game.MaxAttempts
	api.Routes(r, api.Handlers{
		Game:    api.NewGameHandler(app.attempts, maxAttempts, app.logger),
		Archive: api.NewArchiveHandler(app.archive, maxAttempts, app.logger),
		Player:  api.NewPlayerHandler(app.aggregator, app.leaderboard, app.logger),
	}, api.Middlewares{
		Authenticate: apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate,
		GuessLimit:   apiMiddleware.NewUserRateLimit(app.guessLimiter),
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := app.backend.Ping(r.Context()); err != nil {
			app.logger.Error("health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
