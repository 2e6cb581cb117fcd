package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagMessage converts a validator.FieldError into a user-friendly message.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "Required"

	case "min", "gte":
		return boundMessage(fe, "at least", "greater than or equal to")

	case "max", "lte":
		return boundMessage(fe, "at most", "less than or equal to")

	case "gt":
		return fmt.Sprintf("Number must be greater than %s", fe.Param())

	case "lt":
		return fmt.Sprintf("Number must be less than %s", fe.Param())

	case "len":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array {
			return fmt.Sprintf("Array must contain exactly %s element(s)", fe.Param())
		}
		return fmt.Sprintf("String must contain exactly %s character(s)", fe.Param())

	case "oneof":
		options := strings.Fields(fe.Param())
		for i, o := range options {
			options[i] = "'" + o + "'"
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(options, " | "), fe.Value())

	case "email":
		return "Invalid email"

	case "url", "http_url":
		return "Invalid url"

	case "uuid", "uuid4":
		return "Invalid uuid"

	case "e164":
		return "Invalid phone number, expected E.164 format"

	case "unique":
		return "Array items must be unique"

	case "lowercase":
		return "String must be lowercase"

	case "alphanum":
		return "String must only contain letters and digits"

	default:
		// Includes tag name and param (if any) to help debugging.
		if fe.Param() != "" {
			return fmt.Sprintf("Invalid input: %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("Invalid input: %s", fe.Tag())
	}
}

// boundMessage picks the wording for min/max style tags:
//   - strings: length
//   - slices/maps: number of elements
//   - numbers: value
func boundMessage(fe validator.FieldError, sizeWord, valueWord string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("String must contain %s %s character(s)", sizeWord, fe.Param())
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("Array must contain %s %s element(s)", sizeWord, fe.Param())
	case reflect.Map:
		return fmt.Sprintf("Object must contain %s %s key(s)", sizeWord, fe.Param())
	default:
		return fmt.Sprintf("Number must be %s %s", valueWord, fe.Param())
	}
}

const integerMessage = "Expected integer, received float"

// mapstructure reports decode failures as plain strings. These patterns
// depend on its message format and recover the field path from them.
var (
	unconvertiblePattern = regexp.MustCompile(`^'([^']*)' expected type '([^']*)', got unconvertible type '([^']*)'`)
	cannotParsePattern   = regexp.MustCompile(`^cannot parse '([^']*)' as ([a-z]+)`)
	invalidKeysPattern   = regexp.MustCompile(`^'([^']*)' has invalid keys: (.+)$`)
	expectedMapPattern   = regexp.MustCompile(`^'([^']*)' expected a map, got '([^']*)'`)
	expectedSlicePattern = regexp.MustCompile(`^'([^']*)': source data must be an array or slice, got (\S+)`)
	decodingPattern      = regexp.MustCompile(`^error decoding '([^']*)': (.*)$`)
	fieldPattern         = regexp.MustCompile(`^'([^']*)'`)
)

// decodeIssues turns one mapstructure error message into issues.
func decodeIssues(msg string) []Issue {
	if m := unconvertiblePattern.FindStringSubmatch(msg); m != nil {
		return []Issue{{
			Path:    dotted(m[1]),
			Message: fmt.Sprintf("Expected %s, received %s", jsonTypeName(m[2]), jsonTypeName(m[3])),
		}}
	}

	if m := cannotParsePattern.FindStringSubmatch(msg); m != nil {
		return []Issue{{
			Path:    dotted(m[1]),
			Message: fmt.Sprintf("Expected %s, received string", jsonTypeName(m[2])),
		}}
	}

	if m := invalidKeysPattern.FindStringSubmatch(msg); m != nil {
		keys := strings.Split(m[2], ", ")
		issues := make([]Issue, 0, len(keys))
		for _, key := range keys {
			issues = append(issues, Issue{
				Path:    joinPath(dotted(m[1]), key),
				Message: "Unrecognized key",
			})
		}
		return issues
	}

	if m := expectedMapPattern.FindStringSubmatch(msg); m != nil {
		return []Issue{{
			Path:    dotted(m[1]),
			Message: fmt.Sprintf("Expected object, received %s", jsonTypeName(m[2])),
		}}
	}

	if m := expectedSlicePattern.FindStringSubmatch(msg); m != nil {
		return []Issue{{
			Path:    dotted(m[1]),
			Message: fmt.Sprintf("Expected array, received %s", jsonTypeName(m[2])),
		}}
	}

	if m := decodingPattern.FindStringSubmatch(msg); m != nil {
		message := "Invalid input"
		switch {
		case strings.Contains(m[2], "parsing time"):
			message = "Invalid datetime"
		case strings.HasPrefix(m[2], integerMessage), strings.HasPrefix(m[2], "Number must be"):
			// Raised by wholeNumberHook, already worded for clients.
			message = m[2]
		}
		return []Issue{{Path: dotted(m[1]), Message: message}}
	}

	if m := fieldPattern.FindStringSubmatch(msg); m != nil {
		return []Issue{{Path: dotted(m[1]), Message: "Invalid input"}}
	}

	return []Issue{{Path: "", Message: msg}}
}

// jsonTypeName maps a Go type or kind name to the JSON type a client sent or
// should have sent.
func jsonTypeName(goType string) string {
	goType = strings.TrimLeft(goType, "*")

	switch {
	case strings.HasPrefix(goType, "[]"):
		return "array"
	case strings.HasPrefix(goType, "map["):
		return "object"
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"), strings.HasPrefix(goType, "float"):
		return "number"
	case goType == "bool":
		return "boolean"
	case goType == "string":
		return "string"
	case goType == "time.Time":
		return "date"
	case goType == "" || goType == "<nil>" || goType == "interface {}":
		return "null"
	default:
		return "object"
	}
}
