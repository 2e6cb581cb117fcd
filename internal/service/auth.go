package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/speakers-bff/internal/server"
)

// AuthService configures Clerk for the middleware that verifies session
// tokens.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}

// Session describes the authenticated caller.
type Session struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// CurrentSession builds the Session from values the auth middleware stored.
func (a *AuthService) CurrentSession(userID, role string, permissions []string) *Session {
	if permissions == nil {
		permissions = []string{}
	}
	return &Session{
		UserID:      userID,
		Role:        role,
		Permissions: permissions,
	}
}
