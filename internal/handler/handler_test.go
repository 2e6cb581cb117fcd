package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/deppfellow/speakers-bff/internal/lib/job"
	"github.com/deppfellow/speakers-bff/internal/middleware"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *capturingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: job.QueueDefault}, nil
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "local"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleBody_ReceivesNormalizedEmail(t *testing.T) {
	s := newTestServer()
	queue := &capturingEnqueuer{}
	h := NewEmailHandler(s, service.NewEmailService(s.Logger, queue))

	e := newTestEcho(s)
	e.POST("/emails", HandleBody(h.Handler, h.SendEmail, http.StatusAccepted),
		middleware.ValidateBody(model.SendEmailSchema))

	req := httptest.NewRequest(http.MethodPost, "/emails",
		strings.NewReader(`{"to":"ada@example.com","subject":"Hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "task-1", decodeBody(t, rec)["id"])

	require.Len(t, queue.tasks, 1)
	var payload job.SendEmailPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, "contact", string(payload.Template))
}

func TestHandleBody_InvalidEmailNeverReachesService(t *testing.T) {
	s := newTestServer()
	queue := &capturingEnqueuer{}
	h := NewEmailHandler(s, service.NewEmailService(s.Logger, queue))

	e := newTestEcho(s)
	e.POST("/emails", HandleBody(h.Handler, h.SendEmail, http.StatusAccepted),
		middleware.ValidateBody(model.SendEmailSchema))

	req := httptest.NewRequest(http.MethodPost, "/emails",
		strings.NewReader(`{"to":"not-an-email","template":"invoice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", body["message"])

	var paths []string
	for _, issue := range body["errors"].([]any) {
		paths = append(paths, issue.(map[string]any)["path"].(string))
	}
	assert.ElementsMatch(t, []string{"to", "subject", "template"}, paths)
	assert.Empty(t, queue.tasks)
}

func TestHandleBody_WithoutGateIsServerError(t *testing.T) {
	s := newTestServer()
	h := NewEmailHandler(s, service.NewEmailService(s.Logger, &capturingEnqueuer{}))

	e := newTestEcho(s)
	e.POST("/emails", HandleBody(h.Handler, h.SendEmail, http.StatusAccepted))

	req := httptest.NewRequest(http.MethodPost, "/emails", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandle_BindsParams(t *testing.T) {
	s := newTestServer()
	h := NewSpeakerHandler(s, nil)

	var seen []string
	get := func(c echo.Context, p *model.SpeakerIDParam) (*model.Speaker, error) {
		seen = append(seen, p.ID)
		return &model.Speaker{Name: "Ada"}, nil
	}

	e := newTestEcho(s)
	e.GET("/speakers/:id", Handle(h.Handler, get, http.StatusOK))

	for _, id := range []string{
		"5b3f4c52-8c1a-4a8e-9d55-1f2e3d4c5b6a",
		"6c4f5d63-9d2b-4b9f-8e66-2a3f4e5d6c7b",
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/speakers/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []string{
		"5b3f4c52-8c1a-4a8e-9d55-1f2e3d4c5b6a",
		"6c4f5d63-9d2b-4b9f-8e66-2a3f4e5d6c7b",
	}, seen)
}

func TestHandle_RejectsInvalidParams(t *testing.T) {
	s := newTestServer()
	h := NewSpeakerHandler(s, nil)

	called := false
	get := func(c echo.Context, p *model.SpeakerIDParam) (*model.Speaker, error) {
		called = true
		return nil, nil
	}

	e := newTestEcho(s)
	e.GET("/speakers/:id", Handle(h.Handler, get, http.StatusOK))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/speakers/42", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
	errors := decodeBody(t, rec)["errors"].([]any)
	require.Len(t, errors, 1)
	assert.Equal(t, "id", errors[0].(map[string]any)["path"])
}

func TestHandle_ListQueryDefaults(t *testing.T) {
	s := newTestServer()
	h := NewSpeakerHandler(s, nil)

	var got model.ListSpeakersQuery
	list := func(c echo.Context, q *model.ListSpeakersQuery) (*model.SpeakerPage, error) {
		got = *q
		return &model.SpeakerPage{Data: []model.Speaker{}, Limit: q.Limit}, nil
	}

	e := newTestEcho(s)
	e.GET("/speakers", Handle(h.Handler, list, http.StatusOK))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/speakers?status=published", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "published", got.Status)
	assert.Equal(t, model.DefaultSpeakerPageSize, got.Limit)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/speakers?limit=500", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHTML_PreviewEmail(t *testing.T) {
	s := newTestServer()
	h := NewEmailHandler(s, service.NewEmailService(s.Logger, nil))

	e := newTestEcho(s)
	e.GET("/emails/preview/:template", HandleHTML(h.Handler, h.PreviewEmail, http.StatusOK))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails/preview/welcome", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "Welcome")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails/preview/invoice", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckHealth_NoDependencies(t *testing.T) {
	s := newTestServer()
	h := NewHealthHandler(s)

	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local", body["environment"])
}

func TestCheckHealth_UnreachableRedis(t *testing.T) {
	s := newTestServer()
	s.Config.Observability.HealthChecks.Checks = []string{"redis"}
	s.Config.Observability.HealthChecks.Timeout = time.Second
	s.Redis = redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer s.Redis.Close()

	h := NewHealthHandler(s)
	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "unhealthy", body["status"])
	check := body["checks"].(map[string]any)["redis"].(map[string]any)
	assert.Equal(t, "unhealthy", check["status"])
}
