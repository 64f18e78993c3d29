package http

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs go-playground/validator into echo's Context.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the validator installed on the echo instance.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate validates i against its `validate` struct tags.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
