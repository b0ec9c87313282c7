// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	iconNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("icon_name", validateIconName)
	}
}

// validateHexColor accepts the "#RRGGBB" form only.
func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateIconName(fl validator.FieldLevel) bool {
	return iconNameRegex.MatchString(fl.Field().String())
}
