package domain

import "fmt"

// Success messages shown on the confirmation view.
const (
	customerLoginMessage = "Customer login successful! Welcome to W Restaurant."
	employeeLoginMessage = "Employee login successful! Welcome to W Restaurant."
	registrationFormat   = "Registration successful for %s! You can now log in."
	passwordResetFormat  = "Password reset link successfully sent to %s."
)

// =============================================================================
// State
// =============================================================================

// State is the whole sign-in screen: the active view, the auth form mode, the
// shared password visibility flag, the success message and the seven field
// values. Views read it; only the methods below mutate it.
//
// State is not safe for concurrent use. The session store serializes access.
type State struct {
	View           View
	Mode           Mode
	ShowPassword   bool
	SuccessMessage string // empty when absent

	fields map[Field]string
}

// NewState returns the screen as first mounted: auth view, customer login,
// masked passwords, no message, empty fields.
func NewState() *State {
	return &State{
		View:   ViewAuth,
		Mode:   ModeCustomerLogin,
		fields: make(map[Field]string, len(Fields)),
	}
}

// HasSuccessMessage reports whether a success message is present.
func (s *State) HasSuccessMessage() bool {
	return s.SuccessMessage != ""
}

// Field returns the current value of a controlled field.
func (s *State) Field(f Field) string {
	return s.fields[f]
}

// SetField stores the value of a controlled field verbatim.
func (s *State) SetField(f Field, value string) error {
	const op = "state.set_field"
	if !f.IsValid() {
		return Invalid(op, fmt.Sprintf("unknown field %q", f))
	}
	s.fields[f] = value
	return nil
}

// SetMode switches the form shown in the auth view. Field values are kept.
func (s *State) SetMode(m Mode) error {
	const op = "state.set_mode"
	if !m.IsValid() {
		return Invalid(op, fmt.Sprintf("unknown mode %q", m))
	}
	if s.View != ViewAuth {
		return Conflict(op, s.View, "switch forms")
	}
	s.Mode = m
	return nil
}

// TogglePasswordVisibility flips the one flag every password input shares.
func (s *State) TogglePasswordVisibility() {
	s.ShowPassword = !s.ShowPassword
}

// ShowForgotPassword moves from customer login to the reset request form.
func (s *State) ShowForgotPassword() error {
	const op = "state.show_forgot_password"
	if s.View != ViewAuth || s.Mode != ModeCustomerLogin {
		return Conflict(op, s.View, "open password reset")
	}
	s.View = ViewForgotPassword
	return nil
}

// BackToLogin leaves the reset request form without submitting it.
func (s *State) BackToLogin() error {
	const op = "state.back_to_login"
	if s.View != ViewForgotPassword {
		return Conflict(op, s.View, "go back to log in")
	}
	s.View = ViewAuth
	return nil
}

// SubmitLogin handles the customer and employee login forms.
func (s *State) SubmitLogin() error {
	const op = "state.submit_login"
	if s.View != ViewAuth {
		return Conflict(op, s.View, "log in")
	}

	switch s.Mode {
	case ModeCustomerLogin:
		if err := validateSubmission(op, customerLoginForm{
			Email:    s.Field(FieldLoginEmail),
			Password: s.Field(FieldLoginPassword),
		}); err != nil {
			return err
		}
		s.succeed(customerLoginMessage)
	case ModeEmployeeLogin:
		if err := validateSubmission(op, employeeLoginForm{
			IDOrEmail: s.Field(FieldEmployeeIDOrEmail),
			Password:  s.Field(FieldLoginPassword),
		}); err != nil {
			return err
		}
		s.succeed(employeeLoginMessage)
	default:
		return Conflict(op, s.View, "log in while registering")
	}
	return nil
}

// SubmitRegistration handles the customer registration form.
func (s *State) SubmitRegistration() error {
	const op = "state.submit_registration"
	if s.View != ViewAuth || s.Mode != ModeCustomerRegister {
		return Conflict(op, s.View, "register")
	}

	name := s.Field(FieldRegisterName)
	if err := validateSubmission(op, registrationForm{
		Name:     name,
		Email:    s.Field(FieldRegisterEmail),
		Password: s.Field(FieldRegisterPassword),
	}); err != nil {
		return err
	}
	s.succeed(fmt.Sprintf(registrationFormat, name))
	return nil
}

// SubmitPasswordReset handles the reset request form.
func (s *State) SubmitPasswordReset() error {
	const op = "state.submit_password_reset"
	if s.View != ViewForgotPassword {
		return Conflict(op, s.View, "request a reset link")
	}

	email := s.Field(FieldForgotPasswordEmail)
	if err := validateSubmission(op, passwordResetForm{Email: email}); err != nil {
		return err
	}
	s.succeed(fmt.Sprintf(passwordResetFormat, email))
	return nil
}

// Continue returns from the confirmation to customer login. Field values are
// deliberately left as typed.
func (s *State) Continue() error {
	const op = "state.continue"
	if s.View != ViewSuccess {
		return Conflict(op, s.View, "continue")
	}
	s.View = ViewAuth
	s.Mode = ModeCustomerLogin
	s.SuccessMessage = ""
	return nil
}

// Subtitle is the line under the restaurant name.
func (s *State) Subtitle() string {
	if s.View == ViewForgotPassword {
		return "Reset your password"
	}
	switch s.Mode {
	case ModeCustomerLogin:
		return "Returning Customer?"
	case ModeCustomerRegister:
		return "Become a Member"
	case ModeEmployeeLogin:
		return "Staff Access Only"
	}
	return ""
}

// Clone returns an independent copy, used to render outside the store lock.
func (s *State) Clone() *State {
	c := *s
	c.fields = make(map[Field]string, len(s.fields))
	for k, v := range s.fields {
		c.fields[k] = v
	}
	return &c
}

func (s *State) succeed(message string) {
	s.SuccessMessage = message
	s.View = ViewSuccess
}
