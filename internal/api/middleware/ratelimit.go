package middleware

import (
	"net/http"

	"github.com/phrazzld/codele-api/internal/api/shared"
	"github.com/phrazzld/codele-api/internal/ratelimit"
)

// NewUserRateLimit throttles requests per authenticated user, falling back
// to the remote address for anonymous requests. It must run after
// Authenticate to see the user ID.
func NewUserRateLimit(limiter *ratelimit.KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if userID, ok := shared.UserIDFrom(r.Context()); ok {
				key = userID.String()
			}

			if !limiter.Allow(key) {
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Too many guesses, slow down", nil,
					shared.WithRetryable(),
					shared.WithRetryAfter(limiter.RetryAfter(key)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
