// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler, performs business operations, and calls repository
// methods or enqueues background jobs.
package service

import (
	"github.com/deppfellow/speakers-bff/internal/lib/job"
	"github.com/deppfellow/speakers-bff/internal/repository"
	"github.com/deppfellow/speakers-bff/internal/server"
)

type Services struct {
	Auth    *AuthService
	Speaker *SpeakerService
	Role    *RoleService
	Email   *EmailService
	Job     *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	var enqueuer job.Enqueuer
	if s.Job != nil {
		enqueuer = s.Job.Client
	}

	return &Services{
		Auth:    authService,
		Speaker: NewSpeakerService(s.Logger, repos.Speaker, enqueuer),
		Role:    NewRoleService(s.Logger, repos.Role),
		Email:   NewEmailService(s.Logger, enqueuer),
		Job:     s.Job,
	}, nil
}
