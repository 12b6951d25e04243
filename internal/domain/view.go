// Package domain contains the view-state model for the W Restaurant sign-in
// screen.
//
// This file defines the enumerations the screen is built from: which view is
// on screen, which form the sign-in view shows, and the controlled text fields
// the forms edit.
package domain

// =============================================================================
// View
// =============================================================================

// View selects which screen the card shows.
type View string

const (
	// ViewAuth shows the tabbed sign-in forms. Initial view.
	ViewAuth View = "auth"

	// ViewForgotPassword shows the password reset request form.
	ViewForgotPassword View = "forgotPassword"

	// ViewSuccess shows the confirmation message. Left only via Continue.
	ViewSuccess View = "success"
)

// String returns the string representation of the view.
func (v View) String() string {
	return string(v)
}

// IsValid returns true if the view is a recognized value.
func (v View) IsValid() bool {
	switch v {
	case ViewAuth, ViewForgotPassword, ViewSuccess:
		return true
	}
	return false
}

// =============================================================================
// Mode
// =============================================================================

// Mode selects which form the auth view renders.
type Mode string

const (
	ModeCustomerLogin    Mode = "customerLogin"
	ModeCustomerRegister Mode = "customerRegister"
	ModeEmployeeLogin    Mode = "employeeLogin"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid returns true if the mode is a recognized value.
func (m Mode) IsValid() bool {
	switch m {
	case ModeCustomerLogin, ModeCustomerRegister, ModeEmployeeLogin:
		return true
	}
	return false
}

// IsCustomer reports whether the mode belongs to the customer tabs.
func (m Mode) IsCustomer() bool {
	return m == ModeCustomerLogin || m == ModeCustomerRegister
}

// =============================================================================
// Field
// =============================================================================

// Field names one of the controlled text inputs. The value doubles as the
// input's form name.
type Field string

const (
	FieldLoginEmail          Field = "loginEmail"
	FieldLoginPassword       Field = "loginPassword"
	FieldRegisterName        Field = "registerName"
	FieldRegisterEmail       Field = "registerEmail"
	FieldRegisterPassword    Field = "registerPassword"
	FieldEmployeeIDOrEmail   Field = "employeeIdOrEmail"
	FieldForgotPasswordEmail Field = "forgotPasswordEmail"
)

// Fields lists every controlled field in form order.
var Fields = []Field{
	FieldLoginEmail,
	FieldLoginPassword,
	FieldRegisterName,
	FieldRegisterEmail,
	FieldRegisterPassword,
	FieldEmployeeIDOrEmail,
	FieldForgotPasswordEmail,
}

// String returns the string representation of the field.
func (f Field) String() string {
	return string(f)
}

// IsValid returns true if the field is a recognized value.
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// IsPassword reports whether the field is masked unless the shared
// visibility flag is set.
func (f Field) IsPassword() bool {
	return f == FieldLoginPassword || f == FieldRegisterPassword
}
