package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, method string, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/", nil), rec)
	e.HTTPErrorHandler(err, c)
	return rec
}

func TestGlobalErrorHandler_HTTPError(t *testing.T) {
	rec := handleError(t, http.MethodGet, errs.NewForbiddenError("Nope", true))

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Nope", body.Message)
	assert.True(t, body.Override)
}

func TestGlobalErrorHandler_EchoError(t *testing.T) {
	rec := handleError(t, http.MethodGet, echo.ErrMethodNotAllowed)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "METHOD_NOT_ALLOWED", body.Code)
}

func TestGlobalErrorHandler_UnknownErrorIsInternal(t *testing.T) {
	rec := handleError(t, http.MethodGet, errors.New("disk on fire"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestGlobalErrorHandler_Head(t *testing.T) {
	rec := handleError(t, http.MethodHead, errs.NewNotFoundError("Gone", false, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGlobalErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, c.String(http.StatusOK, "done"))
	e.HTTPErrorHandler(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestRequestID(t *testing.T) {
	e := newTestEcho()
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	}, RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id", seen)
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequirePermission(t *testing.T) {
	auth := NewAuthMiddleware(newTestServer())

	tests := []struct {
		name        string
		userID      string
		permissions []string
		want        int
	}{
		{"anonymous", "", nil, http.StatusUnauthorized},
		{"missing permission", "user_1", []string{"org:speakers:read"}, http.StatusForbidden},
		{"granted", "user_1", []string{"org:speakers:read", "org:roles:manage"}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			e.POST("/", func(c echo.Context) error {
				return c.NoContent(http.StatusNoContent)
			}, func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					if tt.userID != "" {
						c.Set(UserIDKey, tt.userID)
						c.Set(PermissionsKey, tt.permissions)
					}
					return next(c)
				}
			}, auth.RequirePermission("org:roles:manage"))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
