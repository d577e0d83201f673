package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"nevado_reviews/internal/adapters/observability"
	"nevado_reviews/internal/domain"
)

// RateLimiter throttles requests per client IP over a fixed window kept
// in the counter store. Store failures let the request through.
type RateLimiter struct {
	store  domain.CounterStore
	max    int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(store domain.CounterStore, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, max: max, window: window, now: time.Now}
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := remoteIP(r)
		key := "ratelimit:" + ip
		now := l.now().UnixMilli()
		windowMs := l.window.Milliseconds()

		win, found, err := l.store.Get(r.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("rate limit store unavailable, allowing request")
			observability.ObserveRateLimit("error")
			next.ServeHTTP(w, r)
			return
		}
		// A stale window restarts at the current instant.
		if !found || now-win.WindowStart >= windowMs {
			win = domain.Window{Requests: 0, WindowStart: now}
		}

		resetAt := win.WindowStart + windowMs
		if win.Requests >= l.max {
			retryAfter := (resetAt - now + 999) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			observability.ObserveRateLimit("rejected")
			writeError(w, http.StatusTooManyRequests, "Too Many Requests",
				"Demasiadas solicitudes. Intenta de nuevo más tarde.", "RATE_LIMIT_EXCEEDED", nil)
			return
		}

		win.Requests++
		ttl := 2 * l.window
		if err := l.store.Put(r.Context(), key, win, ttl); err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("rate limit counter write failed")
		}
		observability.ObserveRateLimit("allowed")

		remaining := l.max - win.Requests
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
		next.ServeHTTP(w, r)
	})
}
