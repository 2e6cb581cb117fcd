package handler

import (
	"github.com/deppfellow/speakers-bff/internal/middleware"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
	"github.com/labstack/echo/v4"
)

// noParams is the request type of routes without parameters.
type noParams struct{}

func (*noParams) Validate() error { return nil }

type RoleHandler struct {
	Handler
	roles *service.RoleService
}

func NewRoleHandler(s *server.Server, roles *service.RoleService) *RoleHandler {
	return &RoleHandler{
		Handler: NewHandler(s),
		roles:   roles,
	}
}

// CreateRole records the authenticated user as the role's creator.
func (h *RoleHandler) CreateRole(c echo.Context, req model.CreateRoleRequest) (*model.Role, error) {
	return h.roles.CreateRole(c.Request().Context(), middleware.GetUserID(c), req)
}

func (h *RoleHandler) ListRoles(c echo.Context, _ *noParams) ([]model.Role, error) {
	return h.roles.ListRoles(c.Request().Context())
}

func (h *RoleHandler) GetRole(c echo.Context, p *model.RoleNameParam) (*model.Role, error) {
	return h.roles.GetRole(c.Request().Context(), p.Name)
}
