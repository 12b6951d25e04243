package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/wrestaurant/internal/domain"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Error Response Tests - Security Focus
// =============================================================================

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		domain.EINVALID:   http.StatusBadRequest,
		domain.EFORBIDDEN: http.StatusForbidden,
		domain.ENOTFOUND:  http.StatusNotFound,
		domain.ECONFLICT:  http.StatusConflict,
		domain.ERATELIMIT: http.StatusTooManyRequests,
		domain.EINTERNAL:  http.StatusInternalServerError,
		"bogus":           http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, ErrorCodeToHTTPStatus(code), code)
	}
}

func TestValidationErrorResponse_DoesNotExposeOperationName(t *testing.T) {
	ve := domain.NewValidationError("state.submit_registration", "registerName", "This field is required.")

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	ValidationErrorResponse(rec, req, discardLogger(), ve)

	body := rec.Body.String()
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, body, "state.submit_registration")
	assert.Contains(t, body, "Validation failed")
	assert.Contains(t, body, "check your input")
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	ve := domain.NewValidationError("state.submit_password_reset", "forgotPasswordEmail", "This field is required.")

	req := httptest.NewRequest(http.MethodPost, "/forgot-password", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	ValidationErrorResponse(rec, req, discardLogger(), ve)

	body := rec.Body.String()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, body, "state.submit_password_reset")
	assert.Contains(t, body, "forgotPasswordEmail")
	assert.Contains(t, body, "This field is required.")
}

func TestErrorResponse_InternalErrorHidesDetails(t *testing.T) {
	internalErr := domain.Internal(errors.New(`template: card:12: no such template "input_field"`), "renderer.render", "Render failed")

	for _, accept := range []string{"text/html", "application/json"} {
		t.Run(accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", accept)
			rec := httptest.NewRecorder()

			ErrorResponse(rec, req, discardLogger(), internalErr)

			body := rec.Body.String()
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.NotContains(t, body, "input_field")
			assert.NotContains(t, body, "renderer.render")
			assert.Contains(t, body, "internal error")
		})
	}
}

func TestErrorResponse_UnwrappedErrorReturnsGeneric(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), errors.New("session map corrupted at 0xc000123"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "0xc000123")
}

func TestErrorResponse_NotFoundKeepsMessage(t *testing.T) {
	err := domain.Errorf(domain.ENOTFOUND, "handler.update_field", "Unknown field %q", "creditCard")

	req := httptest.NewRequest(http.MethodPost, "/fields/creditCard", nil)
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown field")
	assert.NotContains(t, rec.Body.String(), "handler.update_field")
}

func TestAcceptsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	assert.False(t, acceptsJSON(req))

	req.Header.Set("Accept", "application/json")
	assert.True(t, acceptsJSON(req))

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("HX-Request", "true")
	assert.False(t, acceptsJSON(req))
}
