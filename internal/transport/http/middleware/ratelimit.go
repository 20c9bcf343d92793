package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/infrastructure/redis"
	"github.com/spectral-labs/auth-api/internal/transport/http/response"
)

// RateLimiter is what the middleware needs from the Redis limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) redis.Decision
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit throttles a route by client IP under the given key prefix.
// A nil limiter disables throttling.
func RateLimit(limiter RateLimiter, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			d := limiter.Allow(r.Context(), prefix+":"+clientIP(r))
			if !d.Allowed {
				retry := int(d.RetryAfter / time.Second)
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				response.WriteError(w, r, domain.ErrRateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
