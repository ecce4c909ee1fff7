package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// routeNamePattern matches "<dongle id>|<segment timestamp>"; "/" is accepted as separator.
var routeNamePattern = regexp.MustCompile(`^[0-9a-f]{16}[|/]\d{4}-\d{2}-\d{2}--\d{2}-\d{2}-\d{2}$`)

// New returns a validator with the custom route rules registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("route_name", validateRouteName)
	return v
}

var validate = New()

// ValidateRouteName checks a single route name.
func ValidateRouteName(name string) error {
	if err := validate.Var(name, "required,route_name"); err != nil {
		return fmt.Errorf("invalid route name %q: %w", name, err)
	}
	return nil
}

func validateRouteName(fl validator.FieldLevel) bool {
	return routeNamePattern.MatchString(fl.Field().String())
}
