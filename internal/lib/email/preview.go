package email

// PreviewData holds sample data for every template, used by the preview
// endpoint outside production.
var PreviewData = map[Template]map[string]any{
	TemplateContact: {
		"name":    "Ada Lovelace",
		"message": "I would love to speak about analytical engines.",
	},
	TemplateWelcome: {
		"name": "Ada",
	},
	TemplateSpeakerConfirmation: {
		"name":       "Ada Lovelace",
		"talk_title": "Notes on the Analytical Engine",
		"status":     "draft",
	},
}

// Preview renders tmpl with its sample data.
func Preview(tmpl Template) (string, error) {
	return Render(tmpl, PreviewData[tmpl])
}
