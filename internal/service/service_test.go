package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/deppfellow/speakers-bff/internal/lib/job"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: job.QueueDefault}, nil
}

type fakeSpeakerStore struct {
	created *model.Speaker
	err     error
}

func (f *fakeSpeakerStore) CreateSpeaker(_ context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &model.Speaker{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		TalkTitle: req.TalkTitle,
		Status:    req.Status,
	}
	return f.created, nil
}

func (f *fakeSpeakerStore) GetSpeakerByID(context.Context, uuid.UUID) (*model.Speaker, error) {
	return f.created, f.err
}

func (f *fakeSpeakerStore) ListSpeakers(context.Context, model.ListSpeakersQuery) (*model.SpeakerPage, error) {
	return &model.SpeakerPage{}, f.err
}

func (f *fakeSpeakerStore) DeleteSpeaker(context.Context, uuid.UUID) error {
	return f.err
}

type fakeRoleStore struct {
	err error
}

func (f *fakeRoleStore) CreateRole(_ context.Context, createdBy string, req model.CreateRoleRequest) (*model.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Role{Name: req.Name, Permissions: req.Permissions, CreatedBy: createdBy}, nil
}

func (f *fakeRoleStore) GetRoleByName(context.Context, string) (*model.Role, error) {
	return nil, f.err
}

func (f *fakeRoleStore) ListRoles(context.Context) ([]model.Role, error) {
	return nil, f.err
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func speakerRequest() model.CreateSpeakerRequest {
	return model.CreateSpeakerRequest{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		TalkTitle:  "Notes on the Engine",
		TalkLength: 30,
		Status:     model.SpeakerStatusDraft,
	}
}

func TestSpeakerService_CreateQueuesConfirmation(t *testing.T) {
	queue := &fakeEnqueuer{}
	svc := NewSpeakerService(nopLogger(), &fakeSpeakerStore{}, queue)

	speaker, err := svc.CreateSpeaker(context.Background(), speakerRequest())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", speaker.Email)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, job.TaskSendEmail, queue.tasks[0].Type())

	var payload job.SendEmailPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, email.TemplateSpeakerConfirmation, payload.Template)
	assert.Equal(t, "Notes on the Engine", payload.Data["talk_title"])
}

func TestSpeakerService_CreateSurvivesQueueFailure(t *testing.T) {
	svc := NewSpeakerService(nopLogger(), &fakeSpeakerStore{}, &fakeEnqueuer{err: errors.New("redis down")})

	speaker, err := svc.CreateSpeaker(context.Background(), speakerRequest())
	require.NoError(t, err)
	assert.NotNil(t, speaker)
}

func TestSpeakerService_CreateReturnsStoreError(t *testing.T) {
	queue := &fakeEnqueuer{}
	failure := errors.New("insert failed")
	svc := NewSpeakerService(nopLogger(), &fakeSpeakerStore{err: failure}, queue)

	_, err := svc.CreateSpeaker(context.Background(), speakerRequest())
	assert.ErrorIs(t, err, failure)
	assert.Empty(t, queue.tasks)
}

func TestRoleService_CreateConflicts(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		message    string
	}{
		{"duplicate name", "roles_pkey", "A role named editor already exists"},
		{"second default", singleDefaultRoleIndex, "A default role already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeRoleStore{err: &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint}}
			svc := NewRoleService(nopLogger(), store)

			_, err := svc.CreateRole(context.Background(), "user_1", model.CreateRoleRequest{Name: "editor"})

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusConflict, httpErr.Status)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestRoleService_CreatePassesOtherErrors(t *testing.T) {
	failure := errors.New("connection reset")
	svc := NewRoleService(nopLogger(), &fakeRoleStore{err: failure})

	_, err := svc.CreateRole(context.Background(), "user_1", model.CreateRoleRequest{Name: "editor"})
	assert.ErrorIs(t, err, failure)
}

func TestRoleService_Create(t *testing.T) {
	svc := NewRoleService(nopLogger(), &fakeRoleStore{})

	role, err := svc.CreateRole(context.Background(), "user_1", model.CreateRoleRequest{
		Name:        "editor",
		Permissions: []string{"org:speakers:edit"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user_1", role.CreatedBy)
}

func TestEmailService_SendEmail(t *testing.T) {
	queue := &fakeEnqueuer{}
	svc := NewEmailService(nopLogger(), queue)

	queued, err := svc.SendEmail(context.Background(), model.SendEmailRequest{
		To:       "ada@example.com",
		Subject:  "Hello",
		Template: email.TemplateContact,
		Data:     map[string]any{"name": "Ada", "message": "Hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", queued.ID)
	assert.Equal(t, "queued", queued.Status)
	require.Len(t, queue.tasks, 1)
}

func TestEmailService_SendEmailWithoutQueue(t *testing.T) {
	svc := NewEmailService(nopLogger(), nil)

	_, err := svc.SendEmail(context.Background(), model.SendEmailRequest{To: "ada@example.com"})
	assert.Error(t, err)
}

func TestEmailService_PreviewEmail(t *testing.T) {
	svc := NewEmailService(nopLogger(), nil)

	html, err := svc.PreviewEmail(string(email.TemplateWelcome))
	require.NoError(t, err)
	assert.Contains(t, html, "Ada")

	_, err = svc.PreviewEmail("invoice")
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
