package service

import (
	"context"
	"slices"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/deppfellow/speakers-bff/internal/lib/job"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EmailService struct {
	logger   *zerolog.Logger
	enqueuer job.Enqueuer
}

func NewEmailService(logger *zerolog.Logger, enqueuer job.Enqueuer) *EmailService {
	return &EmailService{
		logger:   logger,
		enqueuer: enqueuer,
	}
}

// SendEmail queues req for delivery by the job workers.
func (s *EmailService) SendEmail(ctx context.Context, req model.SendEmailRequest) (*model.EmailQueued, error) {
	if s.enqueuer == nil {
		return nil, errors.New("email queue is not configured")
	}

	task, err := job.NewSendEmailTask(job.SendEmailPayload{
		To:       req.To,
		ReplyTo:  req.ReplyTo,
		Subject:  req.Subject,
		Template: req.Template,
		Data:     req.Data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building send email task")
	}

	info, err := s.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		return nil, errors.Wrap(err, "enqueueing send email task")
	}

	s.logger.Info().
		Str("task_id", info.ID).
		Str("template", string(req.Template)).
		Msg("email queued")

	return &model.EmailQueued{
		ID:     info.ID,
		Queue:  info.Queue,
		Status: "queued",
	}, nil
}

// PreviewEmail renders a template with its sample data.
func (s *EmailService) PreviewEmail(name string) (string, error) {
	tmpl := email.Template(name)
	if !slices.Contains(email.Templates, tmpl) {
		return "", errs.NewNotFoundError("Email template not found", true, nil)
	}

	html, err := email.Preview(tmpl)
	if err != nil {
		return "", err
	}
	return html, nil
}
