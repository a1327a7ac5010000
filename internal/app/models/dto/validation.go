package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterFieldNames makes validation errors report json/form names instead of Go field names
func RegisterFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// HandleValidationError converts a binding error into a failed envelope.
// validator errors get one entry per field; anything else (malformed JSON, bad form) is reported generically.
func HandleValidationError(err error) APIResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorResponse(ErrorCodeValidationFailed, "Invalid request format")
	}

	details := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := formatValidationError(fe)
		details = append(details, FieldError{Field: fe.Field(), Message: msg})
		messages = append(messages, msg)
	}

	return NewErrorResponse(ErrorCodeValidationFailed, strings.Join(messages, "; ")).WithDetails(details)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
