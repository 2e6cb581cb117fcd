package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/hibiken/asynq"
)

// TaskSendEmail renders a template and sends it.
const TaskSendEmail = "email:send"

// SendEmailPayload is the JSON payload of a TaskSendEmail task.
type SendEmailPayload struct {
	To       string         `json:"to"`
	ReplyTo  string         `json:"reply_to,omitempty"`
	Subject  string         `json:"subject"`
	Template email.Template `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewSendEmailTask builds a TaskSendEmail task retried up to 3 times with a
// 30s timeout per attempt. opts may override the defaults (queue, ...).
func NewSendEmailTask(p SendEmailPayload, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	options := append([]asynq.Option{
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30 * time.Second),
	}, opts...)

	return asynq.NewTask(TaskSendEmail, payload, options...), nil
}
