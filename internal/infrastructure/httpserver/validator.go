package httpserver

import (
	"github.com/go-playground/validator/v10"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
)

// Validator adapts go-playground/validator to echo.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the console's custom rules: fdi_tooth accepts FDI tooth numbers.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("fdi_tooth", func(fl validator.FieldLevel) bool {
		return medical.IsValidFDI(int(fl.Field().Int()))
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
