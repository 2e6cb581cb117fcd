package errs

import "strings"

// FieldError represents a field-level error. Path is the dotted path of the
// offending field inside the request body.
//
//	{ "path": "address.city", "message": "Required" }
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	// Usually "Value" holds the URL or route.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction,
// e.g. redirect to login.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type for API responses.
//
// It is designed to be serialized directly to JSON by the global error handler.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the frontend show Message verbatim.
//   - Errors: list of per-field errors.
//   - Action: client instruction (optional).
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and Status are not
// compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// ValidationFailure is the body written by the validation gate when a request
// body does not conform to its schema.
//
//	{ "message": "Validation failed", "errors": [{ "path": "name", "message": "Required" }] }
type ValidationFailure struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// ValidationFailedMessage is the top-level message of every ValidationFailure.
const ValidationFailedMessage = "Validation failed"

// NewValidationFailure builds the validation payload. A nil slice is encoded
// as an empty array.
func NewValidationFailure(fieldErrors []FieldError) ValidationFailure {
	if fieldErrors == nil {
		fieldErrors = []FieldError{}
	}
	return ValidationFailure{
		Message: ValidationFailedMessage,
		Errors:  fieldErrors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
