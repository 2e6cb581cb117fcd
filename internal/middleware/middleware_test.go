package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "local"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

// newTestEcho returns an Echo instance using the global error handler.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(newTestServer()).GlobalErrorHandler
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
