package middlewares

import (
	"math"
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
	"github.com/dropDatabas3/agencyhub/internal/rate"
)

// RateLimitConfig configura el rate limiting por request.
type RateLimitConfig struct {
	Limiter rate.Limiter
	// KeyFunc construye la clave; default "ip:<clientIP>".
	KeyFunc func(r *http.Request) string
	// Whitelist de IPs exentas.
	Whitelist []string
}

// WithRateLimit rechaza con 429 cuando la clave excede el límite. Si el
// limiter falla, deja pasar la request.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(r *http.Request) string { return "ip:" + clientIP(r) }
	}
	white := make(map[string]struct{}, len(cfg.Whitelist))
	for _, ip := range cfg.Whitelist {
		white[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := white[clientIP(r)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), keyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, allowing request",
					logger.Layer("http"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int64(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded.WithRetryAfter(secs))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
