package validation

import (
	"fmt"
	"strings"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/pkg/errors"
)

// Schema parses a raw value into its normalized form.
//
// Parse returns a *ValidationError when raw violates the schema. Any other
// error means the schema itself could not do its job and is never reported
// to the client as a validation failure.
//
// Implementations must be safe for concurrent use.
type Schema[T any] interface {
	Parse(raw any) (T, error)
}

// SchemaFunc adapts a plain function to Schema.
type SchemaFunc[T any] func(raw any) (T, error)

func (f SchemaFunc[T]) Parse(raw any) (T, error) {
	return f(raw)
}

// Issue is a single violated constraint.
type Issue struct {
	// Path is the dotted path of the field, "" for the root value.
	Path    string
	Message string
}

// ValidationError holds every issue found in one validation pass, in the
// order the schema engine reported them.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
	}
	return errs.ValidationFailedMessage + ": " + strings.Join(parts, "; ")
}

// FieldErrors converts the issues into the client-facing error shape.
func (e *ValidationError) FieldErrors() []errs.FieldError {
	fieldErrors := make([]errs.FieldError, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Path:    issue.Path,
			Message: issue.Message,
		})
	}
	return fieldErrors
}

func newValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// AsValidationError reports whether err is (or wraps) a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Validate runs raw through schema.
//
// On success it returns the normalized value. On a constraint violation the
// error is a *ValidationError with at least one issue. Everything else,
// including a panic inside the schema, comes back as an ordinary error that
// callers must forward to their generic error path.
func Validate[T any](schema Schema[T], raw any) (value T, err error) {
	var zero T

	defer func() {
		if r := recover(); r != nil {
			value = zero
			err = errors.Errorf("schema panicked: %v", r)
		}
	}()

	value, err = schema.Parse(raw)
	if err == nil {
		return value, nil
	}

	if vErr, ok := AsValidationError(err); ok {
		// A failure with nothing to report is a broken schema, not a bad request.
		if len(vErr.Issues) == 0 {
			return zero, errors.New("schema reported a validation failure without issues")
		}
		return zero, vErr
	}

	return zero, err
}
