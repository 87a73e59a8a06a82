package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the supporter specific rules
// registered. "notblank" rejects strings made of whitespace only.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}
