// Package router builds the Echo router: global middleware, the error
// handler and the route groups.
package router

import (
	"net/http"

	"github.com/deppfellow/speakers-bff/internal/handler"
	"github.com/deppfellow/speakers-bff/internal/middleware"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/labstack/echo/v4"
)

// PermissionManageRoles is the Clerk organization permission required to
// create roles.
const PermissionManageRoles = "org:roles:manage"

// NewRouter wires every route. Global middleware order matters: the request
// id and New Relic transaction must exist before the request logger is
// built, and Recover must sit inside the logger so panics are logged as 500s.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1", middlewares.RateLimit.Limit())
	registerSpeakerRoutes(v1, h)
	registerRoleRoutes(v1, h, middlewares)
	registerEmailRoutes(v1, h, !s.Config.Observability.IsProduction())
	registerAuthRoutes(v1, h, middlewares)

	return router
}

func registerSpeakerRoutes(r *echo.Group, h *handler.Handlers) {
	speakers := r.Group("/speakers")

	speakers.POST("", handler.HandleBody(h.Speaker.Handler, h.Speaker.CreateSpeaker, http.StatusCreated),
		middleware.ValidateBody[model.CreateSpeakerRequest](model.CreateSpeakerSchema))
	speakers.GET("", handler.Handle(h.Speaker.Handler, h.Speaker.ListSpeakers, http.StatusOK))
	speakers.GET("/:id", handler.Handle(h.Speaker.Handler, h.Speaker.GetSpeaker, http.StatusOK))
	speakers.DELETE("/:id", handler.HandleNoContent(h.Speaker.Handler, h.Speaker.DeleteSpeaker, http.StatusNoContent))
}

func registerRoleRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	roles := r.Group("/roles")

	roles.GET("", handler.Handle(h.Role.Handler, h.Role.ListRoles, http.StatusOK))
	roles.GET("/:name", handler.Handle(h.Role.Handler, h.Role.GetRole, http.StatusOK))

	// Authentication runs before the gate so anonymous callers get 401, not
	// a validation report.
	roles.POST("", handler.HandleBody(h.Role.Handler, h.Role.CreateRole, http.StatusCreated),
		m.Auth.RequireAuth,
		m.Auth.RequirePermission(PermissionManageRoles),
		middleware.ValidateBody(model.CreateRoleSchema),
	)
}

func registerEmailRoutes(r *echo.Group, h *handler.Handlers, withPreview bool) {
	emails := r.Group("/emails")

	emails.POST("", handler.HandleBody(h.Email.Handler, h.Email.SendEmail, http.StatusAccepted),
		middleware.ValidateBody(model.SendEmailSchema))

	if withPreview {
		emails.GET("/preview/:template", handler.HandleHTML(h.Email.Handler, h.Email.PreviewEmail, http.StatusOK))
	}
}

func registerAuthRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/me", handler.Handle(h.Auth.Handler, h.Auth.Me, http.StatusOK), m.Auth.RequireAuth)
}
