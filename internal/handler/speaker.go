package handler

import (
	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/deppfellow/speakers-bff/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type SpeakerHandler struct {
	Handler
	speakers *service.SpeakerService
}

func NewSpeakerHandler(s *server.Server, speakers *service.SpeakerService) *SpeakerHandler {
	return &SpeakerHandler{
		Handler:  NewHandler(s),
		speakers: speakers,
	}
}

func (h *SpeakerHandler) CreateSpeaker(c echo.Context, req model.CreateSpeakerRequest) (*model.Speaker, error) {
	return h.speakers.CreateSpeaker(c.Request().Context(), req)
}

func (h *SpeakerHandler) ListSpeakers(c echo.Context, q *model.ListSpeakersQuery) (*model.SpeakerPage, error) {
	return h.speakers.ListSpeakers(c.Request().Context(), *q)
}

func (h *SpeakerHandler) GetSpeaker(c echo.Context, p *model.SpeakerIDParam) (*model.Speaker, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing speaker id")
	}
	return h.speakers.GetSpeaker(c.Request().Context(), id)
}

func (h *SpeakerHandler) DeleteSpeaker(c echo.Context, p *model.SpeakerIDParam) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return errors.Wrap(err, "parsing speaker id")
	}
	return h.speakers.DeleteSpeaker(c.Request().Context(), id)
}
