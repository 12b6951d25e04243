package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// quietPrefixes are paths that would drown the log in noise.
var quietPrefixes = []string{"/health", "/metrics", "/static/"}

// redactedParams are query parameters never written to the log. The form
// field names cover clients that put the forms in a GET query string.
var redactedParams = map[string]bool{
	"password":         true,
	"loginpassword":    true,
	"registerpassword": true,
	"token":            true,
	"csrf_token":       true,
}

// RequestLoggingMiddleware logs one line per HTTP request.
type RequestLoggingMiddleware struct {
	logger *slog.Logger
}

// NewRequestLoggingMiddleware creates a new request logging middleware.
func NewRequestLoggingMiddleware(logger *slog.Logger) *RequestLoggingMiddleware {
	return &RequestLoggingMiddleware{
		logger: logger,
	}
}

// Handler returns middleware that logs method, path, status, duration,
// client address and whether htmx made the request.
func (m *RequestLoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuiet(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		level := slog.LevelInfo
		if wrapped.statusCode >= 500 {
			level = slog.LevelWarn
		}

		m.logger.LogAttrs(context.Background(), level, "request",
			slog.String("method", r.Method),
			slog.String("path", redactQuery(r.URL.Path, r.URL.RawQuery)),
			slog.Int("status", wrapped.statusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("ip", getClientIP(r)),
			slog.Bool("htmx", r.Header.Get("HX-Request") == "true"),
			slog.String("user_agent", r.UserAgent()),
		)
	})
}

func isQuiet(path string) bool {
	for _, prefix := range quietPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// redactQuery appends the query string with sensitive values replaced.
func redactQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path
	}
	for key := range values {
		if redactedParams[strings.ToLower(key)] {
			values[key] = []string{"[REDACTED]"}
		}
	}
	// Encode escapes the brackets; undo that for readability.
	return path + "?" + strings.ReplaceAll(values.Encode(), "%5BREDACTED%5D", "[REDACTED]")
}
