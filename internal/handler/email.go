package handler

import (
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
	"github.com/labstack/echo/v4"
)

type EmailHandler struct {
	Handler
	emails *service.EmailService
}

func NewEmailHandler(s *server.Server, emails *service.EmailService) *EmailHandler {
	return &EmailHandler{
		Handler: NewHandler(s),
		emails:  emails,
	}
}

func (h *EmailHandler) SendEmail(c echo.Context, req model.SendEmailRequest) (*model.EmailQueued, error) {
	return h.emails.SendEmail(c.Request().Context(), req)
}

// PreviewEmail renders a template with sample data. Only routed outside
// production.
func (h *EmailHandler) PreviewEmail(c echo.Context, p *model.EmailPreviewParam) (string, error) {
	return h.emails.PreviewEmail(p.Template)
}
