package handler

import (
	"github.com/99minutos/ims-console/internal/core/validation"
)

// echoValidator lets Echo call c.Validate(req) with the console's rules.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures match
// domain.ErrValidation.
func (ev *echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
