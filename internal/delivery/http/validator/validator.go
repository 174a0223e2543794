// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	domainerrors "warden/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// echoValidator wraps a single validator instance; it is safe for concurrent use.
type echoValidator struct {
	validate *playground.Validate
}

// New creates the echo request validator.
func New() *echoValidator {
	return &echoValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Violations surface as the domain's
// validation error so the central error handler renders them uniformly.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
