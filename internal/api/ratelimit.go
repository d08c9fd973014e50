package api

import (
	"log/slog"
	"net/http"

	"github.com/ladleapp/ladle-server/internal/http/response"
	"github.com/ladleapp/ladle-server/internal/ratelimit"
)

// tokenRateLimitMiddleware throttles the token endpoint per client IP.
// Keying happens at the HTTP layer so direct connections fall back to
// RemoteAddr instead of collapsing into one shared bucket; proxied
// deployments are still keyed by the forwarding headers. Other routes pass
// through untouched.
func tokenRateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/v1/users/token" {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP"), r.RemoteAddr)
			if key == "" {
				key = "unknown"
			}

			if !limiter.Allow(key) {
				logger.Warn("token endpoint rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
