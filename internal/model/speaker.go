package model

import (
	"time"

	"github.com/deppfellow/speakers-bff/internal/validation"
	"github.com/google/uuid"
)

// Speaker statuses.
const (
	SpeakerStatusDraft     = "draft"
	SpeakerStatusPublished = "published"
)

// Speaker is a row of the speakers table.
type Speaker struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Bio        string    `json:"bio" db:"bio"`
	Company    string    `json:"company" db:"company"`
	Website    string    `json:"website" db:"website"`
	TalkTitle  string    `json:"talk_title" db:"talk_title"`
	TalkLength int       `json:"talk_length" db:"talk_length"`
	Topics     []string  `json:"topics" db:"topics"`
	Status     string    `json:"status" db:"status"`
	Featured   bool      `json:"featured" db:"featured"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CreateSpeakerRequest is the body of POST /api/v1/speakers. Form posts send
// numbers and booleans as strings, so the schema coerces.
type CreateSpeakerRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Bio        string   `json:"bio" validate:"max=2000"`
	Company    string   `json:"company" validate:"max=100"`
	Website    string   `json:"website" validate:"omitempty,url"`
	TalkTitle  string   `json:"talk_title" validate:"required,min=5,max=200"`
	TalkLength int      `json:"talk_length" default:"30" validate:"min=5,max=120"`
	Topics     []string `json:"topics" default:"[]" validate:"max=10,unique,dive,required,max=50"`
	Status     string   `json:"status" default:"draft" validate:"oneof=draft published"`
	Featured   bool     `json:"featured"`
}

// Refine rejects featuring a talk that is not published yet.
func (r *CreateSpeakerRequest) Refine() validation.CustomValidationErrors {
	if r.Featured && r.Status != SpeakerStatusPublished {
		return validation.CustomValidationErrors{{
			Field:   "featured",
			Message: "Only published speakers can be featured",
		}}
	}
	return nil
}

// CreateSpeakerSchema validates CreateSpeakerRequest bodies.
var CreateSpeakerSchema = validation.Struct[CreateSpeakerRequest](validation.Coerce())

// DefaultSpeakerPageSize applies when a list query sets no limit.
const DefaultSpeakerPageSize = 20

// ListSpeakersQuery holds the query parameters of GET /api/v1/speakers.
type ListSpeakersQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=draft published"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

func (q *ListSpeakersQuery) Validate() error {
	if err := validation.ValidateStruct(q); err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = DefaultSpeakerPageSize
	}
	return nil
}

// SpeakerIDParam is the :id path parameter of speaker routes.
type SpeakerIDParam struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (p *SpeakerIDParam) Validate() error {
	return validation.ValidateStruct(p)
}

// SpeakerPage is a page of speakers.
type SpeakerPage struct {
	Data   []Speaker `json:"data"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}
