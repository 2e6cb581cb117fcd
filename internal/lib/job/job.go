// Package job runs background work on Asynq, a Redis-backed task queue.
//
// Producers enqueue tasks through JobService.Client; the embedded worker
// server pulls them from Redis and dispatches them by task type.
package job

import (
	"context"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is the producer side of the queue. *asynq.Client implements it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue names, by priority.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// JobService holds the Asynq client (enqueue) and server (workers).
type JobService struct {
	Client *asynq.Client

	server      *asynq.Server
	logger      *zerolog.Logger
	emailClient *email.Client
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewJobService builds the client and a worker server with 10 workers
// shared 6/3/1 between the critical, default and low queues.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	client := asynq.NewClient(redisOpt(cfg))

	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers builds the dependencies used by task handlers.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) error {
	emailClient, err := email.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	j.emailClient = emailClient
	return nil
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, j.handleSendEmailTask)
	return mux
}

// Start runs the workers in the background. InitHandlers must be called
// first.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(j.mux())
}

// Stop waits for running tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
