package service

import (
	"context"

	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/deppfellow/speakers-bff/internal/lib/job"
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SpeakerStore is the persistence used by SpeakerService.
type SpeakerStore interface {
	CreateSpeaker(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error)
	GetSpeakerByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error)
	ListSpeakers(ctx context.Context, q model.ListSpeakersQuery) (*model.SpeakerPage, error)
	DeleteSpeaker(ctx context.Context, id uuid.UUID) error
}

type SpeakerService struct {
	logger   *zerolog.Logger
	store    SpeakerStore
	enqueuer job.Enqueuer
}

func NewSpeakerService(logger *zerolog.Logger, store SpeakerStore, enqueuer job.Enqueuer) *SpeakerService {
	return &SpeakerService{
		logger:   logger,
		store:    store,
		enqueuer: enqueuer,
	}
}

// CreateSpeaker stores the speaker and queues their confirmation email. A
// queue failure is logged; the speaker is created regardless.
func (s *SpeakerService) CreateSpeaker(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error) {
	speaker, err := s.store.CreateSpeaker(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.enqueuer == nil {
		return speaker, nil
	}

	task, err := job.NewSendEmailTask(job.SendEmailPayload{
		To:       speaker.Email,
		Subject:  "We received your talk proposal",
		Template: email.TemplateSpeakerConfirmation,
		Data: map[string]any{
			"name":       speaker.Name,
			"talk_title": speaker.TalkTitle,
			"status":     speaker.Status,
		},
	})
	if err == nil {
		_, err = s.enqueuer.EnqueueContext(ctx, task)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("speaker_id", speaker.ID.String()).
			Msg("failed to enqueue speaker confirmation email")
	}

	return speaker, nil
}

func (s *SpeakerService) GetSpeaker(ctx context.Context, id uuid.UUID) (*model.Speaker, error) {
	return s.store.GetSpeakerByID(ctx, id)
}

func (s *SpeakerService) ListSpeakers(ctx context.Context, q model.ListSpeakersQuery) (*model.SpeakerPage, error) {
	return s.store.ListSpeakers(ctx, q)
}

func (s *SpeakerService) DeleteSpeaker(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteSpeaker(ctx, id)
}
