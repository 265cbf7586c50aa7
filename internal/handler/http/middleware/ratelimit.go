package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/ratelimit"
)

// RateLimit counts requests per caller: the authenticated user when AuthRequired ran before it,
// the client IP otherwise. When the counter store fails the request is let through.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Error("Rate limit counter failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				retry := decision.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				response.TooManyRequests(w, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return "user:" + p.UserID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
