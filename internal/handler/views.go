package handler

import (
	"github.com/DukeRupert/wrestaurant/internal/domain"
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// =============================================================================
// Page and card data
// =============================================================================

// PageData is passed to the auth layout.
type PageData struct {
	Title      string
	CSRFToken  string
	Background *domain.ImageWithFallback
	Card       CardData
}

// CardData is everything the card partial needs. It is built from a state
// snapshot, never from the live state.
type CardData struct {
	State          *domain.State
	Subtitle       string
	ShowHeader     bool
	SuccessMessage string
	Alert          string
	CSRFToken      string
	Tabs           []Tab
	Inputs         []InputField
}

// IsAuth reports whether the login/register/employee forms are shown.
func (c CardData) IsAuth() bool { return c.State.View == domain.ViewAuth }

// IsForgotPassword reports whether the reset request form is shown.
func (c CardData) IsForgotPassword() bool { return c.State.View == domain.ViewForgotPassword }

// IsSuccess reports whether the confirmation is shown.
func (c CardData) IsSuccess() bool { return c.State.View == domain.ViewSuccess }

// IsCustomerMode reports whether the customer tabs are shown.
func (c CardData) IsCustomerMode() bool { return c.State.Mode.IsCustomer() }

// IsMode compares against a mode name, for use from templates.
func (c CardData) IsMode(m string) bool { return string(c.State.Mode) == m }

// Tab is one of the customer tabs above the auth forms.
type Tab struct {
	Mode   domain.Mode
	Label  string
	Active bool
}

const tabBaseClass = "pb-3 relative transition-colors font-semibold text-gray-500 hover:text-gray-700"

// Class returns the tab's classes, highlighted when active.
func (t Tab) Class() string {
	if t.Active {
		return twmerge.Merge(tabBaseClass, "text-red-600 hover:text-red-600")
	}
	return tabBaseClass
}

// InputField is a labeled input with an optional icon and password toggle.
type InputField struct {
	Label          string
	ID             string
	Name           domain.Field
	Type           string
	Placeholder    string
	Value          string
	Icon           string
	PasswordToggle bool
	ShowPassword   bool
	Error          string
}

const inputBaseClass = "w-full px-4 py-3 border border-gray-200 rounded-xl focus:outline-none focus:ring-2 focus:ring-red-500 focus:border-red-500 transition-all shadow-sm bg-gray-50"

// Class composes the input classes. Later classes win over the base ones.
func (f InputField) Class() string {
	var extra []string
	if f.Icon != "" {
		extra = append(extra, "pl-12")
	}
	if f.PasswordToggle {
		extra = append(extra, "pr-12")
	}
	if f.Error != "" {
		extra = append(extra, "border-red-500 bg-red-50")
	}
	return twmerge.Merge(append([]string{inputBaseClass}, extra...)...)
}

// =============================================================================
// Builders
// =============================================================================

// NewCardData builds the card for a state snapshot. fieldErrors maps field
// names to messages from a failed submission.
func NewCardData(state *domain.State, csrfToken, alert string, fieldErrors map[string]string) CardData {
	card := CardData{
		State:          state,
		Subtitle:       state.Subtitle(),
		ShowHeader:     state.View != domain.ViewSuccess,
		SuccessMessage: state.SuccessMessage,
		Alert:          alert,
		CSRFToken:      csrfToken,
	}

	switch state.View {
	case domain.ViewAuth:
		card.Tabs = customerTabs(state.Mode)
		card.Inputs = authInputs(state)
	case domain.ViewForgotPassword:
		card.Inputs = []InputField{
			{Label: "Email Address", ID: "forgot-email", Name: domain.FieldForgotPasswordEmail, Type: "email", Placeholder: "user@example.com", Icon: "mail"},
		}
	}

	for i := range card.Inputs {
		in := &card.Inputs[i]
		in.Value = state.Field(in.Name)
		in.Error = fieldErrors[string(in.Name)]
		if in.PasswordToggle {
			in.ShowPassword = state.ShowPassword
			in.Type = passwordInputType(state.ShowPassword)
		}
	}
	return card
}

func customerTabs(active domain.Mode) []Tab {
	return []Tab{
		{Mode: domain.ModeCustomerLogin, Label: "Customer Log In", Active: active == domain.ModeCustomerLogin},
		{Mode: domain.ModeCustomerRegister, Label: "Register", Active: active == domain.ModeCustomerRegister},
	}
}

func authInputs(state *domain.State) []InputField {
	switch state.Mode {
	case domain.ModeCustomerRegister:
		return []InputField{
			{Label: "Full Name", ID: "register-name", Name: domain.FieldRegisterName, Type: "text", Placeholder: "Your full name", Icon: "user"},
			{Label: "Email Address", ID: "register-email", Name: domain.FieldRegisterEmail, Type: "email", Placeholder: "user@example.com", Icon: "mail"},
			{Label: "Password", ID: "register-password", Name: domain.FieldRegisterPassword, Placeholder: "Create a password", Icon: "lock", PasswordToggle: true},
		}
	case domain.ModeEmployeeLogin:
		// Employees share the customer password field.
		return []InputField{
			{Label: "Employee ID or Email", ID: "employee-id-email", Name: domain.FieldEmployeeIDOrEmail, Type: "text", Placeholder: "Your ID or work email", Icon: "key"},
			{Label: "Password", ID: "employee-password", Name: domain.FieldLoginPassword, Placeholder: "Enter your password", Icon: "lock", PasswordToggle: true},
		}
	default:
		return []InputField{
			{Label: "Email Address", ID: "login-email", Name: domain.FieldLoginEmail, Type: "email", Placeholder: "user@example.com", Icon: "mail"},
			{Label: "Password", ID: "login-password", Name: domain.FieldLoginPassword, Placeholder: "Enter your password", Icon: "lock", PasswordToggle: true},
		}
	}
}

func passwordInputType(show bool) string {
	if show {
		return "text"
	}
	return "password"
}

// pageTitle is the document title for a state.
func pageTitle(state *domain.State) string {
	switch state.View {
	case domain.ViewForgotPassword:
		return "reset password"
	case domain.ViewSuccess:
		return "success"
	}
	switch state.Mode {
	case domain.ModeCustomerRegister:
		return "register"
	case domain.ModeEmployeeLogin:
		return "staff log in"
	}
	return "log in"
}
