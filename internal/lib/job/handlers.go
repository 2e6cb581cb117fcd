package job

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/hibiken/asynq"
)

// handleSendEmailTask sends the email described by the task payload. A
// payload that can never succeed is not retried.
func (j *JobService) handleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var p SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal send email payload: %v: %w", err, asynq.SkipRetry)
	}

	if !slices.Contains(email.Templates, p.Template) {
		return fmt.Errorf("unknown email template %q: %w", p.Template, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("template", string(p.Template)).
		Str("to", p.To).
		Msg("Processing send email task")

	err := j.emailClient.SendTemplate(ctx, email.TemplateEmail{
		To:       p.To,
		ReplyTo:  p.ReplyTo,
		Subject:  p.Subject,
		Template: p.Template,
		Data:     p.Data,
	})
	if err != nil {
		j.logger.Error().
			Str("template", string(p.Template)).
			Str("to", p.To).
			Err(err).
			Msg("Failed to send email")
		return err
	}

	j.logger.Info().
		Str("template", string(p.Template)).
		Str("to", p.To).
		Msg("Successfully sent email")

	return nil
}
