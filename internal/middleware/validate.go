package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// ValidateBody returns middleware that validates the JSON request body
// against schema before the handler runs.
//
//   - valid: the handler sees a replaced request whose body and context
//     carry the normalized value (see Body)
//   - invalid: a single 400 ValidationFailure is written and the chain
//     stops with a nil error
//   - schema fault: the error goes to the global error handler unchanged
//
// An empty body validates as {}.
func ValidateBody[T any](schema validation.Schema[T]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := readJSONBody(c.Request())
			if err != nil {
				return err
			}

			value, err := validation.Validate(schema, raw)
			if err != nil {
				vErr, ok := validation.AsValidationError(err)
				if !ok {
					return err
				}
				rejectBody(c, vErr)
				return nil
			}

			req, err := withNormalizedBody(c.Request(), value)
			if err != nil {
				return err
			}
			c.SetRequest(req)

			return next(c)
		}
	}
}

// Body returns the normalized body stored by ValidateBody.
func Body[T any](c echo.Context) (T, bool) {
	return validation.BodyFrom[T](c.Request().Context())
}

func readJSONBody(req *http.Request) (any, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return map[string]any{}, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		// echo.ErrStatusRequestEntityTooLarge from BodyLimit ends up here.
		return nil, err
	}
	_ = req.Body.Close()

	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	if ctype := req.Header.Get(echo.HeaderContentType); ctype != "" {
		mediaType, _, err := mime.ParseMediaType(ctype)
		if err != nil || mediaType != echo.MIMEApplicationJSON {
			return nil, echo.ErrUnsupportedMediaType
		}
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errs.NewBadRequestError("Invalid JSON body", false, nil, nil, nil)
	}
	return raw, nil
}

// withNormalizedBody replaces req instead of mutating it: the clone carries
// the value in its context and its re-encoded form as body.
func withNormalizedBody(req *http.Request, value any) (*http.Request, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	next := req.Clone(validation.WithBody(req.Context(), value))
	next.Body = io.NopCloser(bytes.NewReader(encoded))
	next.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(encoded)), nil
	}
	next.ContentLength = int64(len(encoded))
	next.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return next, nil
}

// rejectBody writes the 400 response and reports the failure through the
// request logger and New Relic.
func rejectBody(c echo.Context, vErr *validation.ValidationError) {
	logger := GetLogger(c)
	logger.Warn().
		Int("issue_count", len(vErr.Issues)).
		Str("validation_errors", vErr.Error()).
		Msg("request body failed validation")

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("validation.failed", true)
		txn.AddAttribute("validation.issue_count", len(vErr.Issues))
		txn.NoticeError(newrelic.Error{
			Message: vErr.Error(),
			Class:   "ValidationError",
			Attributes: map[string]any{
				"path": c.Path(),
			},
		})
	}

	if c.Response().Committed {
		return
	}

	if err := c.JSON(http.StatusBadRequest, errs.NewValidationFailure(vErr.FieldErrors())); err != nil {
		logger.Error().Err(err).Msg("failed to write validation response")
	}
}
