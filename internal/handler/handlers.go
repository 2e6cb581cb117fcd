// Package handler is the first layer after the router.
//
// It parses requests, takes input validated by the validation package (or
// by the ValidateBody gate for JSON bodies), and calls the service layer.
package handler

import (
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Speaker *SpeakerHandler
	Role    *RoleHandler
	Email   *EmailHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Auth:    NewAuthHandler(s, services.Auth),
		Speaker: NewSpeakerHandler(s, services.Speaker),
		Role:    NewRoleHandler(s, services.Role),
		Email:   NewEmailHandler(s, services.Email),
	}
}
