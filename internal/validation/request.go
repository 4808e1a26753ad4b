package validation

import (
	"errors"
	"fmt"
	"strings"

	"quiz-tube/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a request DTO using its `validate` tags and converts the
// first violation into an INVALID_INPUT domain error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return domain.NewError(domain.ErrInvalidInput, fieldMessage(fieldErrs[0]), err)
	}
	return domain.NewError(domain.ErrInvalidInput, "Invalid request body.", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: This field is required.", field)
	case "url", "http_url":
		return fmt.Sprintf("%s: Enter a valid URL.", field)
	case "max":
		return fmt.Sprintf("%s: Ensure this field has no more than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s: This field may not be blank.", field)
	default:
		return fmt.Sprintf("%s: Invalid value.", field)
	}
}
