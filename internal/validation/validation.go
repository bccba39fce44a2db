package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of the "details" array in a validation failure
// response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names, not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks v against its schema tags and returns one (field, message)
// pair per violation, or nil when the payload is valid.
func Validate(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: "Invalid payload"}}
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return details
}

func messageFor(fe validator.FieldError) string {
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please provide a valid email address"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if isString(fe) {
			return field + " must be at least " + fe.Param() + " characters long"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		if isString(fe) {
			return field + " cannot exceed " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return field + " cannot have more than " + fe.Param() + " items"
		}
		return field + " cannot exceed " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func isString(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

// label turns a wire name like "copiesAvailable" into "Copies available".
func label(field string) string {
	if field == "" {
		return field
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
