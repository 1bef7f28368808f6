package middleware

import (
	"net/http"
	"strconv"

	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimiter builds an in-memory per-client limiter from a rate such as "120-M"
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimitMiddleware limits requests per client IP and reports the budget in X-RateLimit-*
// headers
func RateLimitMiddleware(l *limiter.Limiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := l.GetIPKey(r)

			ctx, err := l.Get(r.Context(), key)
			if err != nil {
				log.Error("Failed to get rate limit context", map[string]interface{}{
					"request_id": GetRequestID(r.Context()),
					"ip":         key,
					"error":      err.Error(),
				})
				writeJSONError(w, http.StatusInternalServerError, "Internal server error during rate limit check", GetRequestID(r.Context()))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

			if ctx.Reached {
				log.Warn("Rate limit exceeded", map[string]interface{}{
					"request_id": GetRequestID(r.Context()),
					"ip":         key,
					"limit":      ctx.Limit,
				})
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
