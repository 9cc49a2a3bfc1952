package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// reservedUsernames are first path segments taken by fixed routes; a profile
// under one of them could never be reached.
var reservedUsernames = map[string]struct{}{
	"new": {}, "follow": {}, "group": {}, "media": {},
	"about": {}, "auth": {}, "admin": {}, "health": {},
}

// IsReservedUsername reports whether name collides with a fixed route.
func IsReservedUsername(name string) bool {
	_, ok := reservedUsernames[strings.ToLower(name)]
	return ok
}

// Validator plugs go-playground/validator into echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	// Report fields by their form name so errors line up with the inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("unreserved", func(fl validator.FieldLevel) bool {
		return !IsReservedUsername(fl.Field().String())
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return Describe(verrs)
		}
		return err
	}
	return nil
}

// FieldErrors maps a form field to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Describe converts validator errors into FieldErrors.
func Describe(errs validator.ValidationErrors) FieldErrors {
	out := FieldErrors{}
	for _, e := range errs {
		out.Add(e.Field(), message(e))
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", e.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", e.Param())
	case "email":
		return "Enter a valid email address."
	case "numeric":
		return "Select a valid choice."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only."
	case "unreserved":
		return "This username is reserved."
	}
	return fmt.Sprintf("Failed on the '%s' rule.", e.Tag())
}
