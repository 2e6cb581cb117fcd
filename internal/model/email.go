package model

import (
	"encoding/json"
	"fmt"

	"github.com/deppfellow/speakers-bff/internal/lib/email"
	"github.com/deppfellow/speakers-bff/internal/validation"
)

// emailSchemaDefinition builds the JSON Schema of POST /api/v1/emails. The
// template enum is the list of embedded templates.
func emailSchemaDefinition() string {
	templates, _ := json.Marshal(email.Templates)

	return fmt.Sprintf(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["to", "subject"],
	"additionalProperties": false,
	"properties": {
		"to": {"type": "string", "format": "email"},
		"reply_to": {"type": "string", "format": "email"},
		"subject": {"type": "string", "minLength": 1, "maxLength": 200},
		"template": {"enum": %s, "default": %q},
		"data": {
			"type": "object",
			"default": {},
			"additionalProperties": {"type": ["string", "number", "boolean"]}
		}
	}
}`, templates, email.TemplateContact)
}

// SendEmailRequest is the typed view of a validated email body.
type SendEmailRequest struct {
	To       string         `json:"to"`
	ReplyTo  string         `json:"reply_to"`
	Subject  string         `json:"subject"`
	Template email.Template `json:"template"`
	Data     map[string]any `json:"data"`
}

// SendEmailSchema validates email bodies.
var SendEmailSchema = validation.Typed[SendEmailRequest](
	validation.MustCompile(validation.VersionDraft202012, emailSchemaDefinition()),
)

// EmailPreviewParam is the :template path parameter of the preview route.
type EmailPreviewParam struct {
	Template string `param:"template" validate:"required"`
}

func (p *EmailPreviewParam) Validate() error {
	return validation.ValidateStruct(p)
}

// EmailQueued acknowledges an accepted email.
type EmailQueued struct {
	ID     string `json:"id"`
	Queue  string `json:"queue"`
	Status string `json:"status"`
}
