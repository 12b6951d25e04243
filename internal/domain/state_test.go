package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, ViewAuth, s.View)
	assert.Equal(t, ModeCustomerLogin, s.Mode)
	assert.False(t, s.ShowPassword)
	assert.False(t, s.HasSuccessMessage())
	for _, f := range Fields {
		assert.Empty(t, s.Field(f), f.String())
	}
}

func TestState_SetField_Keystrokes(t *testing.T) {
	s := NewState()

	typed := ""
	for _, ch := range "jane@example.com" {
		typed += string(ch)
		require.NoError(t, s.SetField(FieldLoginEmail, typed))
	}

	assert.Equal(t, "jane@example.com", s.Field(FieldLoginEmail))
}

func TestState_SetField_UnknownField(t *testing.T) {
	s := NewState()

	err := s.SetField(Field("cardNumber"), "4111")

	require.Error(t, err)
	assert.Equal(t, EINVALID, ErrorCode(err))
}

func TestState_SubmitLogin_Customer(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetField(FieldLoginEmail, "a@b.com"))
	require.NoError(t, s.SetField(FieldLoginPassword, "pw"))

	require.NoError(t, s.SubmitLogin())

	assert.Equal(t, ViewSuccess, s.View)
	assert.Equal(t, "Customer login successful! Welcome to W Restaurant.", s.SuccessMessage)
}

func TestState_SubmitLogin_Employee(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetMode(ModeEmployeeLogin))
	require.NoError(t, s.SetField(FieldEmployeeIDOrEmail, "E-1024"))
	require.NoError(t, s.SetField(FieldLoginPassword, "pw"))

	require.NoError(t, s.SubmitLogin())

	assert.Equal(t, ViewSuccess, s.View)
	assert.Equal(t, "Employee login successful! Welcome to W Restaurant.", s.SuccessMessage)
}

func TestState_SubmitRegistration(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetMode(ModeCustomerRegister))
	require.NoError(t, s.SetField(FieldRegisterName, "Jane Doe"))
	require.NoError(t, s.SetField(FieldRegisterEmail, "jane@example.com"))
	require.NoError(t, s.SetField(FieldRegisterPassword, "secret"))

	require.NoError(t, s.SubmitRegistration())

	assert.Equal(t, ViewSuccess, s.View)
	assert.Equal(t, "Registration successful for Jane Doe! You can now log in.", s.SuccessMessage)
}

func TestState_SubmitPasswordReset(t *testing.T) {
	s := NewState()
	require.NoError(t, s.ShowForgotPassword())
	require.NoError(t, s.SetField(FieldForgotPasswordEmail, "a@b.com"))

	require.NoError(t, s.SubmitPasswordReset())

	assert.Equal(t, ViewSuccess, s.View)
	assert.Equal(t, "Password reset link successfully sent to a@b.com.", s.SuccessMessage)
}

func TestState_Submit_EmptyRequiredFields(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetField(FieldLoginEmail, "a@b.com"))

	err := s.SubmitLogin()

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "loginPassword")
	assert.NotContains(t, ve.Fields, "loginEmail")
	assert.Equal(t, EINVALID, ErrorCode(err))
	assert.Equal(t, ViewAuth, s.View, "state should not change on failed submission")
	assert.False(t, s.HasSuccessMessage())
}

func TestState_SubmitRegistration_ReportsEveryEmptyField(t *testing.T) {
	s := NewState()
	s.Mode = ModeCustomerRegister

	err := s.SubmitRegistration()

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 3)
	for _, f := range []string{"registerName", "registerEmail", "registerPassword"} {
		assert.Equal(t, "This field is required.", ve.Fields[f], f)
	}
}

func TestState_Submit_NoFormatChecks(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetField(FieldLoginEmail, "not-an-email"))
	require.NoError(t, s.SetField(FieldLoginPassword, " "))

	assert.NoError(t, s.SubmitLogin())
}

func TestState_Continue(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetMode(ModeCustomerRegister))
	require.NoError(t, s.SetField(FieldRegisterName, "Jane Doe"))
	require.NoError(t, s.SetField(FieldRegisterEmail, "jane@example.com"))
	require.NoError(t, s.SetField(FieldRegisterPassword, "secret"))
	require.NoError(t, s.SubmitRegistration())

	require.NoError(t, s.Continue())

	assert.Equal(t, ViewAuth, s.View)
	assert.Equal(t, ModeCustomerLogin, s.Mode)
	assert.False(t, s.HasSuccessMessage())
	// Typed values survive the reset.
	assert.Equal(t, "Jane Doe", s.Field(FieldRegisterName))
	assert.Equal(t, "secret", s.Field(FieldRegisterPassword))
}

func TestState_SetMode_KeepsFields(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetField(FieldLoginEmail, "a@b.com"))
	require.NoError(t, s.SetMode(ModeCustomerRegister))
	require.NoError(t, s.SetField(FieldRegisterName, "Jane"))
	require.NoError(t, s.SetMode(ModeEmployeeLogin))
	require.NoError(t, s.SetField(FieldEmployeeIDOrEmail, "E-1"))
	require.NoError(t, s.SetMode(ModeCustomerLogin))

	assert.Equal(t, "a@b.com", s.Field(FieldLoginEmail))
	assert.Equal(t, "Jane", s.Field(FieldRegisterName))
	assert.Equal(t, "E-1", s.Field(FieldEmployeeIDOrEmail))
}

func TestState_SetMode_Unknown(t *testing.T) {
	s := NewState()

	err := s.SetMode(Mode("admin"))

	assert.Equal(t, EINVALID, ErrorCode(err))
	assert.Equal(t, ModeCustomerLogin, s.Mode)
}

func TestState_TogglePasswordVisibility_Shared(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetMode(ModeCustomerRegister))

	s.TogglePasswordVisibility()
	assert.True(t, s.ShowPassword)

	// The flag is not per form: switching to login keeps it revealed.
	require.NoError(t, s.SetMode(ModeCustomerLogin))
	assert.True(t, s.ShowPassword)

	s.TogglePasswordVisibility()
	assert.False(t, s.ShowPassword)
}

func TestState_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(s *State)
		action   func(s *State) error
		wantErr  bool
		wantView View
	}{
		{
			name:     "auth to forgot password",
			action:   (*State).ShowForgotPassword,
			wantView: ViewForgotPassword,
		},
		{
			name:     "forgot password from register mode",
			setup:    func(s *State) { _ = s.SetMode(ModeCustomerRegister) },
			action:   (*State).ShowForgotPassword,
			wantErr:  true,
			wantView: ViewAuth,
		},
		{
			name:     "forgot password from employee mode",
			setup:    func(s *State) { _ = s.SetMode(ModeEmployeeLogin) },
			action:   (*State).ShowForgotPassword,
			wantErr:  true,
			wantView: ViewAuth,
		},
		{
			name:     "forgot password back to auth",
			setup:    func(s *State) { _ = s.ShowForgotPassword() },
			action:   (*State).BackToLogin,
			wantView: ViewAuth,
		},
		{
			name:     "back to login from auth",
			action:   (*State).BackToLogin,
			wantErr:  true,
			wantView: ViewAuth,
		},
		{
			name:     "continue from auth",
			action:   (*State).Continue,
			wantErr:  true,
			wantView: ViewAuth,
		},
		{
			name:     "reset submission from auth",
			action:   (*State).SubmitPasswordReset,
			wantErr:  true,
			wantView: ViewAuth,
		},
		{
			name: "login from forgot password",
			setup: func(s *State) {
				_ = s.SetField(FieldLoginEmail, "a@b.com")
				_ = s.SetField(FieldLoginPassword, "pw")
				_ = s.ShowForgotPassword()
			},
			action:   (*State).SubmitLogin,
			wantErr:  true,
			wantView: ViewForgotPassword,
		},
		{
			name: "login while registering",
			setup: func(s *State) {
				_ = s.SetField(FieldLoginEmail, "a@b.com")
				_ = s.SetField(FieldLoginPassword, "pw")
				_ = s.SetMode(ModeCustomerRegister)
			},
			action:   (*State).SubmitLogin,
			wantErr:  true,
			wantView: ViewAuth,
		},
		{
			name: "mode switch on success view",
			setup: func(s *State) {
				_ = s.SetField(FieldLoginEmail, "a@b.com")
				_ = s.SetField(FieldLoginPassword, "pw")
				_ = s.SubmitLogin()
			},
			action:   func(s *State) error { return s.SetMode(ModeCustomerRegister) },
			wantErr:  true,
			wantView: ViewSuccess,
		},
		{
			name: "register from success view",
			setup: func(s *State) {
				_ = s.SetField(FieldLoginEmail, "a@b.com")
				_ = s.SetField(FieldLoginPassword, "pw")
				_ = s.SubmitLogin()
			},
			action:   (*State).SubmitRegistration,
			wantErr:  true,
			wantView: ViewSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			if tt.setup != nil {
				tt.setup(s)
			}

			err := tt.action(s)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ECONFLICT, ErrorCode(err))
				assert.Contains(t, err.Error(), "cannot")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantView, s.View)
		})
	}
}

func TestState_Subtitle(t *testing.T) {
	tests := []struct {
		name string
		view View
		mode Mode
		want string
	}{
		{"customer login", ViewAuth, ModeCustomerLogin, "Returning Customer?"},
		{"customer register", ViewAuth, ModeCustomerRegister, "Become a Member"},
		{"employee login", ViewAuth, ModeEmployeeLogin, "Staff Access Only"},
		{"forgot password", ViewForgotPassword, ModeCustomerLogin, "Reset your password"},
		{"unknown mode", ViewAuth, Mode(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{View: tt.view, Mode: tt.mode}
			assert.Equal(t, tt.want, s.Subtitle())
		})
	}
}

func TestState_Clone_Independent(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetField(FieldLoginEmail, "a@b.com"))

	c := s.Clone()
	require.NoError(t, c.SetField(FieldLoginEmail, "changed"))
	c.TogglePasswordVisibility()

	assert.Equal(t, "a@b.com", s.Field(FieldLoginEmail))
	assert.False(t, s.ShowPassword)
}
