package validation

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

// OpenAPISchema validates against an OpenAPI 3.0 schema object. Defaults
// declared on properties are written into the normalized value.
type OpenAPISchema struct {
	schema *openapi3.Schema
}

func NewOpenAPISchema(schemaDef string) (*OpenAPISchema, error) {
	schema := openapi3.NewSchema()
	if err := schema.UnmarshalJSON([]byte(schemaDef)); err != nil {
		return nil, errors.Wrap(err, "parsing openapi schema")
	}
	return &OpenAPISchema{schema: schema}, nil
}

func (s *OpenAPISchema) Parse(raw any) (any, error) {
	value := cloneJSON(raw)

	err := s.schema.VisitJSON(value,
		openapi3.MultiErrors(),
		openapi3.DisableReadOnlyValidation(),
		openapi3.VisitAsRequest(),
		openapi3.DefaultsSet(func() {}),
	)
	if err == nil {
		return value, nil
	}

	var issues []Issue
	var walk func(me openapi3.MultiError) error

	walk = func(me openapi3.MultiError) error {
		for _, err := range me {
			switch e := err.(type) {
			case openapi3.MultiError:
				if err := walk(e); err != nil {
					return err
				}
			case *openapi3.SchemaError:
				issues = append(issues, schemaErrorIssue(e))
			default:
				return e
			}
		}
		return nil
	}

	var walkErr error
	switch e := err.(type) {
	case openapi3.MultiError:
		walkErr = walk(e)
	case *openapi3.SchemaError:
		walkErr = walk(openapi3.MultiError{e})
	default:
		walkErr = e
	}
	if walkErr != nil {
		return nil, errors.Wrap(walkErr, "running openapi schema")
	}

	return nil, newValidationError(issues...)
}

func schemaErrorIssue(e *openapi3.SchemaError) Issue {
	issue := Issue{Path: joinPath(e.JSONPointer()...), Message: e.Reason}
	if e.SchemaField == "required" {
		issue.Message = "Required"
	}
	return issue
}
