package handler

import (
	"github.com/deppfellow/speakers-bff/internal/middleware"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

// Me returns the caller's session. The route runs behind RequireAuth.
func (h *AuthHandler) Me(c echo.Context, _ *noParams) (*service.Session, error) {
	return h.auth.CurrentSession(
		middleware.GetUserID(c),
		middleware.GetUserRole(c),
		middleware.GetPermissions(c),
	), nil
}
