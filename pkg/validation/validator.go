package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single field-level violation as it appears on the wire:
// {"field": "...", "message": "..."}.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validator evaluates per-field rule sets declared as struct tags and
// collects every violation instead of stopping at the first failing field.
type Validator struct {
	v *validator.Validate
}

// New configures the validator used by the request pipelines.
// - Uses JSON tag names in errors.
// - Registers custom tags for username and password complexity.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// username: letters, digits and underscores only
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	// pwdcomplex: at least one lowercase, one uppercase and one digit,
	// position unconstrained
	_ = v.RegisterValidation("pwdcomplex", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") &&
			strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
			strings.ContainsAny(s, "0123456789")
	})

	return &Validator{v: v}
}

// Check validates the (already trimmed and normalized) payload and returns
// the ordered list of violations; nil means the payload is accepted.
func (va *Validator) Check(payload any) []FieldError {
	return ToFieldErrors(va.v.Struct(payload))
}

// ToFieldErrors converts validation/binding errors into the ordered
// field/message list used by API error bodies.
func ToFieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []FieldError{{Field: "payload", Message: "invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return out
	}

	return []FieldError{{Field: "payload", Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "username":
		return "may only contain letters, numbers and underscores"
	case "pwdcomplex":
		return "must contain at least one uppercase letter, one lowercase letter and one number"
	case "dive", "unique":
		return "contains invalid entries"
	}
	return "is invalid"
}
