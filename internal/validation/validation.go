package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CodeValidationFailed marks payloads that fail struct validation.
const CodeValidationFailed = "VALIDATION_FAILED"

// FieldError describes one invalid field using its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Struct validates s and returns field details for any failures.
func Struct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	details := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		details = append(details, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return details
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Respond writes the standard 400 body for validation failures.
func Respond(c *fiber.Ctx, details []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation failed",
		"code":    CodeValidationFailed,
		"details": details,
	})
}
