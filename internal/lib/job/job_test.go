package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []email.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg email.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func newTestJobService(sender email.Sender) *JobService {
	logger := zerolog.Nop()
	return &JobService{
		logger:      &logger,
		emailClient: email.NewClientWithSender(sender, "hello@example.com", &logger),
	}
}

func TestNewSendEmailTask(t *testing.T) {
	task, err := NewSendEmailTask(SendEmailPayload{
		To:       "ada@example.com",
		Subject:  "Hi",
		Template: email.TemplateContact,
		Data:     map[string]any{"name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, TaskSendEmail, task.Type())

	var p SendEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "ada@example.com", p.To)
	assert.Equal(t, email.TemplateContact, p.Template)
	assert.Equal(t, "Ada", p.Data["name"])
}

func TestHandleSendEmailTask(t *testing.T) {
	sender := &fakeSender{}
	j := newTestJobService(sender)

	task, err := NewSendEmailTask(SendEmailPayload{
		To:       "ada@example.com",
		ReplyTo:  "organizers@example.com",
		Subject:  "Thanks",
		Template: email.TemplateSpeakerConfirmation,
		Data:     map[string]any{"name": "Ada", "talk_title": "Engines"},
	})
	require.NoError(t, err)

	require.NoError(t, j.handleSendEmailTask(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "organizers@example.com", sender.sent[0].ReplyTo)
	assert.Contains(t, sender.sent[0].HTML, "Engines")
}

func TestHandleSendEmailTask_SkipsRetryOnBadPayload(t *testing.T) {
	j := newTestJobService(&fakeSender{})

	err := j.handleSendEmailTask(context.Background(), asynq.NewTask(TaskSendEmail, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	task, err := NewSendEmailTask(SendEmailPayload{To: "ada@example.com", Template: "invoice"})
	require.NoError(t, err)
	err = j.handleSendEmailTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSendEmailTask_RetriesProviderFailure(t *testing.T) {
	failure := errors.New("provider down")
	j := newTestJobService(&fakeSender{err: failure})

	task, err := NewSendEmailTask(SendEmailPayload{To: "ada@example.com", Template: email.TemplateWelcome})
	require.NoError(t, err)

	err = j.handleSendEmailTask(context.Background(), task)
	assert.ErrorIs(t, err, failure)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
