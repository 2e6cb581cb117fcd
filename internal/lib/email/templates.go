package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names an embedded HTML template under templates/.
type Template string

const (
	TemplateContact             Template = "contact"
	TemplateWelcome             Template = "welcome"
	TemplateSpeakerConfirmation Template = "speaker_confirmation"
)

// Templates lists every template, in the order used by the email schema.
var Templates = []Template{TemplateContact, TemplateWelcome, TemplateSpeakerConfirmation}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes tmpl with data.
func Render(tmpl Template, data map[string]any) (string, error) {
	t := templates.Lookup(string(tmpl) + ".html")
	if t == nil {
		return "", errors.Errorf("unknown email template %q", tmpl)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", tmpl)
	}
	return body.String(), nil
}
