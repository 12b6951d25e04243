package domain

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// The submission structs mirror the inputs marked required on each form.
// Only presence is checked; the browser enforces the same rule before
// submitting, so these only trip for clients that skip it.

type customerLoginForm struct {
	Email    string `form:"loginEmail" validate:"required"`
	Password string `form:"loginPassword" validate:"required"`
}

type employeeLoginForm struct {
	IDOrEmail string `form:"employeeIdOrEmail" validate:"required"`
	Password  string `form:"loginPassword" validate:"required"`
}

type registrationForm struct {
	Name     string `form:"registerName" validate:"required"`
	Email    string `form:"registerEmail" validate:"required"`
	Password string `form:"registerPassword" validate:"required"`
}

type passwordResetForm struct {
	Email string `form:"forgotPasswordEmail" validate:"required"`
}

const requiredMessage = "This field is required."

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name so errors line up with the inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validateSubmission converts validator failures into a ValidationError
// keyed by form field name.
func validateSubmission(op string, form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return Internal(err, op, "could not validate submission")
	}

	ve := NewValidationError(op, fieldErrs[0].Field(), requiredMessage)
	for _, fe := range fieldErrs[1:] {
		AddFieldError(ve, fe.Field(), requiredMessage)
	}
	return ve
}
