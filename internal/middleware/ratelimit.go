package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DukeRupert/wrestaurant/internal/domain"
)

// =============================================================================
// Rate Limiter
// =============================================================================

// RateLimiter allows maxAttempts per key in each fixed window. Call Run to
// drop keys whose window has passed.
type RateLimiter struct {
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	windows map[string]*attemptWindow
}

type attemptWindow struct {
	start    time.Time
	attempts int
}

// NewRateLimiter creates a limiter. It holds no goroutine of its own.
func NewRateLimiter(maxAttempts int, window time.Duration, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
		now:         time.Now,
		windows:     make(map[string]*attemptWindow),
	}
}

// Allow records an attempt for key and reports whether it fits the budget.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || rl.expired(w, now) {
		rl.windows[key] = &attemptWindow{start: now, attempts: 1}
		return true
	}
	if w.attempts >= rl.maxAttempts {
		return false
	}
	w.attempts++
	return true
}

// TimeUntilReset returns how long until key gets a fresh window.
func (rl *RateLimiter) TimeUntilReset(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}
	if left := w.start.Add(rl.window).Sub(rl.now()); left > 0 {
		return left
	}
	return 0
}

// Run prunes expired windows once per window until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.prune(); n > 0 {
				rl.logger.Debug("pruned rate limit windows", "count", n)
			}
		}
	}
}

func (rl *RateLimiter) prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, w := range rl.windows {
		if rl.expired(w, now) {
			delete(rl.windows, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) expired(w *attemptWindow, now time.Time) bool {
	return now.Sub(w.start) >= rl.window
}

// =============================================================================
// Rate Limit Middleware
// =============================================================================

// RateLimitMiddleware wraps a rate limiter for use as HTTP middleware.
// The sign-in screen puts it in front of the three form submissions.
type RateLimitMiddleware struct {
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware.
func NewRateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit returns middleware that rate limits requests.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)

		if m.limiter.Allow(clientIP) {
			next.ServeHTTP(w, r)
			return
		}

		m.logger.Warn("rate limit exceeded",
			"ip", clientIP,
			"path", r.URL.Path,
			"method", r.Method,
		)

		retryAfter := int(m.limiter.TimeUntilReset(clientIP).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

		switch {
		case isAPIRequest(r):
			writeError(w, r, http.StatusTooManyRequests, domain.RateLimit("middleware.rate_limit"))
		case r.Header.Get("HX-Request") == "true":
			// htmx does not swap 4xx responses by default; retarget the
			// notice into the card's alert slot.
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("HX-Retarget", "#card-alert")
			w.Header().Set("HX-Reswap", "innerHTML")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`<p class="text-sm text-red-600">Too many attempts. Please wait a moment and try again.</p>`))
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Too Many Requests</title></head>
<body>
<h1>Too Many Requests</h1>
<p>You have made too many requests. Please wait a moment and try again.</p>
</body>
</html>`))
		}
	})
}

// =============================================================================
// Helpers
// =============================================================================

// isAPIRequest reports whether the client asked for JSON.
func isAPIRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// getClientIP extracts the client IP from the request, considering proxy headers.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs: client, proxy1, proxy2
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			clientIP := strings.TrimSpace(ips[0])
			if clientIP != "" {
				return clientIP
			}
		}
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}

	return ip
}
