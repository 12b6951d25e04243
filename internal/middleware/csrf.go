package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/wrestaurant/internal/csrf"
	"github.com/DukeRupert/wrestaurant/internal/domain"
)

// CSRFMiddleware rejects state-changing requests that do not echo the CSRF
// cookie.
type CSRFMiddleware struct {
	logger *slog.Logger
}

// NewCSRFMiddleware creates a new CSRF middleware.
func NewCSRFMiddleware(logger *slog.Logger) *CSRFMiddleware {
	return &CSRFMiddleware{logger: logger}
}

// Handler returns middleware that validates the token on unsafe methods.
func (m *CSRFMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if !csrf.ValidateRequest(r) {
			m.logger.Warn("csrf token mismatch",
				"path", r.URL.Path,
				"ip", getClientIP(r),
			)
			writeError(w, r, http.StatusForbidden,
				domain.Forbidden("middleware.csrf", "Your session expired. Reload the page and try again."))
			return
		}

		next.ServeHTTP(w, r)
	})
}
