// Package email renders HTML email templates and sends them through the
// configured provider (Resend, or the logger for local development).
package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Message is a rendered email ready to send.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client renders templates and hands the result to a Sender.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient picks the Sender named by cfg.Integration.EmailProvider.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	var sender Sender
	switch cfg.Integration.EmailProvider {
	case config.EmailProviderResend:
		sender = NewResendSender(cfg.Integration.ResendAPIKey)
	case config.EmailProviderLog:
		sender = NewLogSender(logger)
	default:
		return nil, errors.Errorf("unknown email provider %q", cfg.Integration.EmailProvider)
	}

	return NewClientWithSender(sender, fromHeader(cfg.Integration), logger), nil
}

// NewClientWithSender builds a Client around an existing Sender.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{
		sender: sender,
		from:   from,
		logger: logger,
	}
}

func fromHeader(cfg config.IntegrationConfig) string {
	if cfg.FromName == "" {
		return cfg.FromAddress
	}
	return fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
}

// TemplateEmail is an email to render from a template.
type TemplateEmail struct {
	To       string
	ReplyTo  string
	Subject  string
	Template Template
	Data     map[string]any
}

// SendTemplate renders e.Template with e.Data and sends the result.
func (c *Client) SendTemplate(ctx context.Context, e TemplateEmail) error {
	html, err := Render(e.Template, e.Data)
	if err != nil {
		return err
	}

	msg := Message{
		From:    c.from,
		To:      []string{e.To},
		ReplyTo: e.ReplyTo,
		Subject: e.Subject,
		HTML:    html,
	}

	if err := c.sender.Send(ctx, msg); err != nil {
		return errors.Wrapf(err, "sending %s email", e.Template)
	}

	c.logger.Debug().
		Str("template", string(e.Template)).
		Str("to", e.To).
		Msg("email sent")

	return nil
}
