package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/DukeRupert/wrestaurant/internal/csrf"
	"github.com/DukeRupert/wrestaurant/internal/domain"
	"github.com/DukeRupert/wrestaurant/internal/metrics"
	"github.com/DukeRupert/wrestaurant/internal/session"
	"github.com/google/uuid"
)

// Alerts shown above the card when an action is refused.
const (
	alertRequired = "Please fill in all required fields."
	alertStale    = "That action is no longer available. The form has been refreshed."
)

const backgroundAlt = "Gourmet dish background"

// ScreenHandler serves the sign-in screen and the actions on it.
type ScreenHandler struct {
	store    *session.Store
	renderer *Renderer
	logger   *slog.Logger
	isSecure bool

	backgroundURL string
	fallbackURL   string

	// limitSubmit wraps the three form submissions. Nil disables limiting.
	limitSubmit func(http.Handler) http.Handler
}

// ScreenConfig holds dependencies for NewScreenHandler.
type ScreenConfig struct {
	Store         *session.Store
	Renderer      *Renderer
	Logger        *slog.Logger
	IsSecure      bool
	BackgroundURL string
	FallbackURL   string
	LimitSubmit   func(http.Handler) http.Handler
}

// NewScreenHandler creates a new ScreenHandler.
func NewScreenHandler(cfg ScreenConfig) *ScreenHandler {
	background := cfg.BackgroundURL
	if background == "" {
		background = domain.DefaultBackgroundImage
	}
	fallback := cfg.FallbackURL
	if fallback == "" {
		fallback = domain.DefaultFallbackImage
	}
	return &ScreenHandler{
		store:         cfg.Store,
		renderer:      cfg.Renderer,
		logger:        cfg.Logger,
		isSecure:      cfg.IsSecure,
		backgroundURL: background,
		fallbackURL:   fallback,
		limitSubmit:   cfg.LimitSubmit,
	}
}

// RegisterRoutes registers the screen routes on the provided ServeMux.
//
// Routes registered:
//   - GET  /                       -> Show
//   - POST /fields/{field}         -> UpdateField
//   - POST /mode                   -> SetMode
//   - POST /password-visibility    -> TogglePassword
//   - POST /forgot-password/open   -> OpenForgotPassword
//   - POST /forgot-password/close  -> CloseForgotPassword
//   - POST /login                  -> Login (rate limited)
//   - POST /register               -> Register (rate limited)
//   - POST /forgot-password        -> ForgotPassword (rate limited)
//   - POST /continue               -> Continue
func (h *ScreenHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Show)

	mux.HandleFunc("POST /fields/{field}", h.UpdateField)
	mux.HandleFunc("POST /mode", h.SetMode)
	mux.HandleFunc("POST /password-visibility", h.TogglePassword)
	mux.HandleFunc("POST /forgot-password/open", h.OpenForgotPassword)
	mux.HandleFunc("POST /forgot-password/close", h.CloseForgotPassword)
	mux.HandleFunc("POST /continue", h.Continue)

	mux.Handle("POST /login", h.limited(h.Login))
	mux.Handle("POST /register", h.limited(h.Register))
	mux.Handle("POST /forgot-password", h.limited(h.ForgotPassword))
}

func (h *ScreenHandler) limited(fn http.HandlerFunc) http.Handler {
	if h.limitSubmit == nil {
		return fn
	}
	return h.limitSubmit(fn)
}

// =============================================================================
// GET / - Show Screen
// =============================================================================

// Show renders the full page for the session's current state.
func (h *ScreenHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := h.store.Resolve(w, r)
	h.renderPage(w, r, http.StatusOK, h.store.Snapshot(id), "", nil)
}

// =============================================================================
// Navigation actions
// =============================================================================

// UpdateField stores one controlled input as the user types.
func (h *ScreenHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	field := domain.Field(r.PathValue("field"))
	h.act(w, r, action{name: "field", quiet: true}, func(s *domain.State) error {
		if !field.IsValid() {
			return domain.Errorf(domain.ENOTFOUND, "handler.update_field", "Unknown field %q", field)
		}
		// The value arrived with the rest of the form and was applied already.
		return nil
	})
}

// SetMode switches between the customer tabs and employee login.
func (h *ScreenHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "mode"}, func(s *domain.State) error {
		return s.SetMode(domain.Mode(r.PostForm.Get("mode")))
	})
}

// TogglePassword flips visibility for every password input at once.
func (h *ScreenHandler) TogglePassword(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "password_visibility"}, func(s *domain.State) error {
		s.TogglePasswordVisibility()
		return nil
	})
}

// OpenForgotPassword shows the reset request form.
func (h *ScreenHandler) OpenForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "forgot_password_open"}, (*domain.State).ShowForgotPassword)
}

// CloseForgotPassword returns to customer login.
func (h *ScreenHandler) CloseForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "forgot_password_close"}, (*domain.State).BackToLogin)
}

// Continue leaves the confirmation view.
func (h *ScreenHandler) Continue(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "continue"}, (*domain.State).Continue)
}

// =============================================================================
// Submissions
// =============================================================================

// Login submits the customer or employee login form, whichever is shown.
func (h *ScreenHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "login", form: "login"}, (*domain.State).SubmitLogin)
}

// Register submits the registration form.
func (h *ScreenHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "register", form: "register"}, (*domain.State).SubmitRegistration)
}

// ForgotPassword submits the reset request form.
func (h *ScreenHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, action{name: "forgot_password", form: "password_reset"}, (*domain.State).SubmitPasswordReset)
}

// =============================================================================
// Shared action flow
// =============================================================================

type action struct {
	name string
	// form labels the submission metric; empty for navigation.
	form string
	// quiet actions answer 204 whether or not htmx sent them.
	quiet bool
}

// act applies the posted field values and then op to the session state, and
// answers with the card (htmx) or a redirect to the page (plain form post).
// A refused op leaves the stored state untouched.
func (h *ScreenHandler) act(w http.ResponseWriter, r *http.Request, a action, op func(*domain.State) error) {
	id := h.store.Resolve(w, r)

	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler."+a.name, "Malformed form body"))
		return
	}

	var from domain.View
	state, err := h.store.Update(id, func(s *domain.State) error {
		from = s.View
		if err := applyFields(s, r.PostForm); err != nil {
			return err
		}
		return op(s)
	})

	// Empty required fields refuse the submission but keep what was typed,
	// so a plain form post re-renders with the user's text in place.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if kept, keepErr := h.store.Update(id, func(s *domain.State) error {
			return applyFields(s, r.PostForm)
		}); keepErr == nil {
			state = kept
		}
	}

	if a.form != "" {
		metrics.FormSubmitted(a.form, err)
	}
	if state.View != from {
		metrics.ViewChanged(from, state.View)
		h.logger.Debug("view changed",
			"session_id", id,
			"action", a.name,
			"from", from,
			"to", state.View,
		)
	}

	if err != nil {
		h.refuse(w, r, id, state, err)
		return
	}

	if a.quiet {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderCard(w, r, http.StatusOK, state, "", nil)
}

// refuse answers an action the state rejected. Validation failures and stale
// actions re-render the current state with an alert; anything else goes
// through ErrorResponse.
func (h *ScreenHandler) refuse(w http.ResponseWriter, r *http.Request, id uuid.UUID, state *domain.State, err error) {
	code := domain.ErrorCode(err)
	if acceptsJSON(r) || (code != domain.EINVALID && code != domain.ECONFLICT) {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			ValidationErrorResponse(w, r, h.logger, err)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("action refused",
		"session_id", id,
		"code", code,
		"op", domain.ErrorOp(err),
		"view", state.View,
		"mode", state.Mode,
	)

	alert := alertStale
	var fieldErrors map[string]string
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		alert = alertRequired
		fieldErrors = ve.Fields
	} else if code == domain.EINVALID {
		alert = domain.ErrorMessage(err)
	}

	if isHTMX(r) {
		// htmx only swaps 2xx responses.
		h.renderCard(w, r, http.StatusOK, state, alert, fieldErrors)
		return
	}
	h.renderPage(w, r, ErrorCodeToHTTPStatus(code), state, alert, fieldErrors)
}

// applyFields copies every known field present in the form into the state.
// Other keys (csrf_token, mode) are ignored.
func applyFields(s *domain.State, form url.Values) error {
	for _, f := range domain.Fields {
		values, ok := form[string(f)]
		if !ok || len(values) == 0 {
			continue
		}
		if err := s.SetField(f, values[0]); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Rendering
// =============================================================================

func (h *ScreenHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, state *domain.State, alert string, fieldErrors map[string]string) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	data := PageData{
		Title:      pageTitle(state),
		CSRFToken:  token,
		Background: domain.NewImageWithFallback(h.backgroundURL, h.fallbackURL, backgroundAlt, "w-full h-full object-cover"),
		Card:       NewCardData(state, token, alert, fieldErrors),
	}
	h.renderer.RenderHTTP(w, status, "page/index", data)
}

func (h *ScreenHandler) renderCard(w http.ResponseWriter, r *http.Request, status int, state *domain.State, alert string, fieldErrors map[string]string) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}
	h.renderer.RenderHTTP(w, status, "partial/card", NewCardData(state, token, alert, fieldErrors))
}

// isHTMX reports whether the request came from htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
