package validation

import (
	"fmt"
	"regexp"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by payload types bound straight from the
// request (query and path parameters) that know how to validate themselves.
//
// Typical pattern:
//   - Define a struct with `query`/`param` and `validate` tags
//   - Implement Validate() error that returns ValidateStruct(req)
//   - Return CustomValidationErrors for rules tags cannot express
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return errs.ValidationFailedMessage
}

// ValidateStruct runs the shared validator against v.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the struct from path params, query params and body.
//  2. payload.Validate() applies validation rules.
//  3. Returns *errs.HTTPError (400) with field-level errors if validation fails.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		message := "Invalid request parameters"
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
		}
		return errs.NewBadRequestError(message, false, nil, nil, nil)
	}

	if err := payload.Validate(); err != nil {
		fieldErrors, ok := extractValidationError(err)
		if !ok {
			return errors.Wrap(err, "validating request parameters")
		}
		return errs.NewBadRequestError(errs.ValidationFailedMessage, true, nil, fieldErrors, nil)
	}

	return nil
}

// extractValidationError converts validator and custom errors into field
// errors. It returns false for any other kind of error.
func extractValidationError(err error) ([]errs.FieldError, bool) {
	var fieldErrors []errs.FieldError

	switch e := err.(type) {
	case validator.ValidationErrors:
		for _, fe := range e {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Path:    namespacePath(fe.Namespace()),
				Message: tagMessage(fe),
			})
		}
	case CustomValidationErrors:
		for _, custom := range e {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Path:    custom.Field,
				Message: custom.Message,
			})
		}
	default:
		return nil, false
	}

	return fieldErrors, true
}

// uuidRegex matches standard UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID checks whether a string matches UUID format.
//
// Note: This validates format only. It does not validate UUID version/variant semantics.
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}

// RequireUUID returns a 400 HTTPError when value is not a UUID.
func RequireUUID(field, value string) error {
	if IsValidUUID(value) {
		return nil
	}
	return errs.NewBadRequestError(errs.ValidationFailedMessage, true, nil, []errs.FieldError{{
		Path:    field,
		Message: fmt.Sprintf("Invalid uuid: %q", value),
	}}, nil)
}
