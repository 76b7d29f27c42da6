package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// employee_id -> Employee Id
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns a binding failure into an INVALID_INPUT AppError naming the
// first offending field by its json name.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		case "oneof":
			return ErrInvalidInput.WithMessage("%s must be one of: %s", field, e.Param())
		case "date":
			return ErrInvalidInput.WithMessage("%s must be a date in YYYY-MM-DD format", field)
		case "min", "gte", "gt":
			return ErrInvalidInput.WithMessage("%s is below the allowed minimum", field)
		case "max", "lte", "lt":
			return ErrInvalidInput.WithMessage("%s is above the allowed maximum", field)
		default:
			return InvalidField(field)
		}
	}

	return ErrInvalidInput.WithMessage("Invalid input").WithCause(err)
}
