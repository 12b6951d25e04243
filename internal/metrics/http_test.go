package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/wrestaurant/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/login", "/login"},
		{"/fields/loginEmail", "/fields/{name}"},
		{"/static/app.css", "/static/{name}"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestMiddleware_CountsRequests(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/fields/{name}", "204"))

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/fields/registerName", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/fields/{name}", "204"))
	assert.Equal(t, before+1, after)
}

func TestFormSubmitted_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, "success"},
		{"invalid", domain.NewValidationError("op", "loginEmail", "required"), "invalid"},
		{"conflict", domain.Conflict("op", domain.ViewSuccess, "log in"), "conflict"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := FormSubmissionsTotal.WithLabelValues("test_form", tt.outcome)
			before := testutil.ToFloat64(counter)

			FormSubmitted("test_form", tt.err)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestViewChanged_IgnoresSameView(t *testing.T) {
	counter := ViewTransitionsTotal.WithLabelValues("auth", "auth")
	before := testutil.ToFloat64(counter)

	ViewChanged(domain.ViewAuth, domain.ViewAuth)

	assert.Equal(t, before, testutil.ToFloat64(counter))
}
