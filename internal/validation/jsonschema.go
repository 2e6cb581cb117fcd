package validation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// JSONSchema validates against a JSON Schema document.
//
// Normalization applies `default` keywords of "properties" entries to
// missing keys, recursing into nested objects that are present. Defaults
// reachable only through $ref are not applied.
type JSONSchema struct {
	schema *jsonschema.Schema
	doc    any
}

// NewJSONSchema compiles schemaDef. Format keywords ("email", "uri", ...) are
// asserted, not just annotated.
func NewJSONSchema(draft *jsonschema.Draft, schemaDef string) (*JSONSchema, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(draft)
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaDef))
	if err != nil {
		return nil, errors.Wrap(err, "parsing json schema")
	}
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, errors.Wrap(err, "adding json schema resource")
	}
	schema, err := c.Compile("schema.json")
	if err != nil {
		return nil, errors.Wrap(err, "compiling json schema")
	}

	return &JSONSchema{schema: schema, doc: doc}, nil
}

func (s *JSONSchema) Parse(raw any) (any, error) {
	value := applyDefaults(s.doc, cloneJSON(raw))

	err := s.schema.Validate(value)
	if err == nil {
		return value, nil
	}

	var vErr *jsonschema.ValidationError
	if !errors.As(err, &vErr) {
		return nil, errors.Wrap(err, "running json schema")
	}

	return nil, newValidationError(jsonSchemaIssues(vErr)...)
}

// jsonSchemaIssues flattens the cause tree into leaf issues.
func jsonSchemaIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(e *jsonschema.ValidationError)

	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}

		base := joinPath(e.InstanceLocation...)
		switch k := e.ErrorKind.(type) {
		case *kind.Required:
			for _, missing := range k.Missing {
				issues = append(issues, Issue{Path: joinPath(base, missing), Message: "Required"})
			}
		case *kind.AdditionalProperties:
			for _, property := range k.Properties {
				issues = append(issues, Issue{Path: joinPath(base, property), Message: "Unrecognized key"})
			}
		case *kind.Type:
			issues = append(issues, Issue{
				Path:    base,
				Message: fmt.Sprintf("Expected %s, received %s", strings.Join(k.Want, " | "), k.Got),
			})
		default:
			issues = append(issues, Issue{Path: base, Message: e.ErrorKind.LocalizedString(printer)})
		}
	}

	walk(root)
	return issues
}

// applyDefaults fills missing object keys from the "default" keyword of the
// matching "properties" entry in schemaDoc.
func applyDefaults(schemaDoc, value any) any {
	schemaMap, ok := schemaDoc.(map[string]any)
	if !ok {
		return value
	}
	object, ok := value.(map[string]any)
	if !ok {
		return value
	}
	properties, ok := schemaMap["properties"].(map[string]any)
	if !ok {
		return value
	}

	for name, propertyDoc := range properties {
		property, ok := propertyDoc.(map[string]any)
		if !ok {
			continue
		}
		current, present := object[name]
		if !present {
			if def, hasDefault := property["default"]; hasDefault {
				object[name] = cloneJSON(def)
			}
			continue
		}
		object[name] = applyDefaults(property, current)
	}

	return object
}
