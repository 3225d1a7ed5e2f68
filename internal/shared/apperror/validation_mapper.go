package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns approver_id into "Approver Id".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts a binding error into an INVALID_INPUT AppError naming the first bad field.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		case "email":
			return invalidFieldf(field, "must be a valid email address")
		case "min":
			return invalidFieldf(field, "must be at least %s", e.Param())
		case "max":
			return invalidFieldf(field, "must be at most %s", e.Param())
		case "oneof":
			return invalidFieldf(field, "must be one of %s", strings.ReplaceAll(e.Param(), " ", ", "))
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
