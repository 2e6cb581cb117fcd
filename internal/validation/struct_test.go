package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

type ageRequest struct {
	Age int `json:"age" validate:"required"`
}

type personRequest struct {
	Age  int    `json:"age" validate:"gte=0"`
	Name string `json:"name"`
}

type countRequest struct {
	Count uint8 `json:"count"`
}

type profileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=18"`
}

type draftRequest struct {
	Name   string   `json:"name" validate:"required"`
	Status string   `json:"status" default:"draft" validate:"oneof=draft published"`
	Topics []string `json:"topics" default:"[]"`
}

type linkRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type cityRequest struct {
	City string `json:"city" validate:"required"`
}

type nestedRequest struct {
	Address cityRequest   `json:"address"`
	Links   []linkRequest `json:"links" validate:"dive"`
}

type rangeRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r *rangeRequest) Refine() CustomValidationErrors {
	if r.To < r.From {
		return CustomValidationErrors{{Field: "to", Message: "Must not be before from"}}
	}
	return nil
}

func issuesOf(t *testing.T, err error) []Issue {
	t.Helper()
	vErr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	return vErr.Issues
}

func TestStruct_RequiredField(t *testing.T) {
	_, err := Validate[nameRequest](Struct[nameRequest](), map[string]any{})

	assert.Equal(t, []Issue{{Path: "name", Message: "Required"}}, issuesOf(t, err))
}

func TestStruct_CoercesWhenEnabled(t *testing.T) {
	out, err := Validate[ageRequest](Struct[ageRequest](Coerce()), map[string]any{"age": "12"})

	require.NoError(t, err)
	assert.Equal(t, 12, out.Age)
}

func TestStruct_RejectsWrongTypeWithoutCoercion(t *testing.T) {
	_, err := Validate[ageRequest](Struct[ageRequest](), map[string]any{"age": "12"})

	// The decode failure is reported once, not again as "Required".
	assert.Equal(t, []Issue{{Path: "age", Message: "Expected number, received string"}}, issuesOf(t, err))
}

func TestStruct_RejectsNonIntegerNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "fraction", input: 12.7},
		{name: "above int range", input: 1e300},
		{name: "below int range", input: -1e300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, schema := range []*StructSchema[personRequest]{Struct[personRequest](), Struct[personRequest](Coerce())} {
				_, err := Validate[personRequest](schema, map[string]any{"age": tt.input})
				assert.Equal(t, []Issue{{Path: "age", Message: "Expected integer, received float"}}, issuesOf(t, err))
			}
		})
	}
}

func TestStruct_AcceptsWholeFloats(t *testing.T) {
	out, err := Validate[personRequest](Struct[personRequest](), map[string]any{"age": float64(12)})

	require.NoError(t, err)
	assert.Equal(t, 12, out.Age)
}

func TestStruct_UnsignedBounds(t *testing.T) {
	_, err := Validate[countRequest](Struct[countRequest](), map[string]any{"count": float64(256)})
	assert.Equal(t, []Issue{{Path: "count", Message: "Expected integer, received float"}}, issuesOf(t, err))

	_, err = Validate[countRequest](Struct[countRequest](), map[string]any{"count": float64(-1)})
	assert.Equal(t, []Issue{{Path: "count", Message: "Number must be greater than or equal to 0"}}, issuesOf(t, err))

	out, err := Validate[countRequest](Struct[countRequest](), map[string]any{"count": float64(255)})
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.Count)
}

func TestStruct_KeysAreCaseSensitive(t *testing.T) {
	input := map[string]any{"AGE": float64(3), "NaMe": "x"}

	out, err := Validate[personRequest](Struct[personRequest](), input)
	require.NoError(t, err)
	assert.Equal(t, personRequest{}, out)

	_, err = Validate[personRequest](Struct[personRequest](Strict()), input)
	assert.Equal(t, []Issue{
		{Path: "AGE", Message: "Unrecognized key"},
		{Path: "NaMe", Message: "Unrecognized key"},
	}, issuesOf(t, err))
}

// Explicit null is read as an absent key: defaults fill it and required
// fields report "Required".
func TestStruct_NullIsAbsent(t *testing.T) {
	_, err := Validate[nameRequest](Struct[nameRequest](), map[string]any{"name": nil})
	assert.Equal(t, []Issue{{Path: "name", Message: "Required"}}, issuesOf(t, err))

	out, err := Validate[draftRequest](Struct[draftRequest](Strict()), map[string]any{"name": "Ada", "status": nil})
	require.NoError(t, err)
	assert.Equal(t, "draft", out.Status)
}

func TestStruct_UnparsableCoercion(t *testing.T) {
	_, err := Validate[ageRequest](Struct[ageRequest](Coerce()), map[string]any{"age": "twelve"})

	assert.Equal(t, []Issue{{Path: "age", Message: "Expected number, received string"}}, issuesOf(t, err))
}

func TestStruct_ReportsEveryViolation(t *testing.T) {
	_, err := Validate[profileRequest](Struct[profileRequest](), map[string]any{
		"age":   float64(3),
		"email": "not-an-email",
	})

	assert.Equal(t, []Issue{
		{Path: "name", Message: "Required"},
		{Path: "email", Message: "Invalid email"},
		{Path: "age", Message: "Number must be greater than or equal to 18"},
	}, issuesOf(t, err))
}

func TestStruct_ViolationCountIndependentOfInputOrder(t *testing.T) {
	inputs := []map[string]any{
		{"email": "x", "age": float64(1)},
		{"age": float64(1), "email": "x"},
	}

	for _, input := range inputs {
		_, err := Validate[profileRequest](Struct[profileRequest](), input)
		issues := issuesOf(t, err)
		assert.Len(t, issues, 3)
		paths := []string{issues[0].Path, issues[1].Path, issues[2].Path}
		assert.ElementsMatch(t, []string{"name", "email", "age"}, paths)
	}
}

func TestStruct_AppliesDefaults(t *testing.T) {
	out, err := Validate[draftRequest](Struct[draftRequest](), map[string]any{"name": "Ada"})

	require.NoError(t, err)
	assert.Equal(t, "draft", out.Status)
	assert.NotNil(t, out.Topics)
	assert.Empty(t, out.Topics)
}

func TestStruct_DefaultsDoNotOverrideInput(t *testing.T) {
	out, err := Validate[draftRequest](Struct[draftRequest](), map[string]any{
		"name":   "Ada",
		"status": "published",
		"topics": []any{"go"},
	})

	require.NoError(t, err)
	assert.Equal(t, "published", out.Status)
	assert.Equal(t, []string{"go"}, out.Topics)
}

func TestStruct_EnumMessage(t *testing.T) {
	_, err := Validate[draftRequest](Struct[draftRequest](), map[string]any{"name": "Ada", "status": "archived"})

	assert.Equal(t, []Issue{{
		Path:    "status",
		Message: "Invalid enum value. Expected 'draft' | 'published', received 'archived'",
	}}, issuesOf(t, err))
}

func TestStruct_Idempotent(t *testing.T) {
	schema := Struct[draftRequest](Coerce())

	first, err := Validate[draftRequest](schema, map[string]any{"name": "Ada"})
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	var again map[string]any
	require.NoError(t, json.Unmarshal(encoded, &again))

	second, err := Validate[draftRequest](schema, again)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStruct_NestedPaths(t *testing.T) {
	_, err := Validate[nestedRequest](Struct[nestedRequest](), map[string]any{
		"address": map[string]any{},
		"links":   []any{map[string]any{"url": "not a url"}},
	})

	assert.Equal(t, []Issue{
		{Path: "address.city", Message: "Required"},
		{Path: "links.0.url", Message: "Invalid url"},
	}, issuesOf(t, err))
}

func TestStruct_UnknownKeys(t *testing.T) {
	out, err := Validate[nameRequest](Struct[nameRequest](), map[string]any{"name": "Ada", "role": "admin"})
	require.NoError(t, err)
	assert.Equal(t, nameRequest{Name: "Ada"}, out)

	_, err = Validate[nameRequest](Struct[nameRequest](Strict()), map[string]any{"name": "Ada", "role": "admin"})
	assert.Equal(t, []Issue{{Path: "role", Message: "Unrecognized key"}}, issuesOf(t, err))
}

func TestStruct_NonObjectBody(t *testing.T) {
	_, err := Validate[nameRequest](Struct[nameRequest](), []any{"Ada"})

	assert.Equal(t, []Issue{{Path: "", Message: "Expected object, received array"}}, issuesOf(t, err))
}

func TestStruct_Refine(t *testing.T) {
	schema := Struct[rangeRequest]()

	_, err := Validate[rangeRequest](schema, map[string]any{"from": float64(5), "to": float64(1)})
	assert.Equal(t, []Issue{{Path: "to", Message: "Must not be before from"}}, issuesOf(t, err))

	out, err := Validate[rangeRequest](schema, map[string]any{"from": float64(1), "to": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, rangeRequest{From: 1, To: 5}, out)
}

func TestDecodeIssues(t *testing.T) {
	tests := []struct {
		msg  string
		want []Issue
	}{
		{
			msg:  "'speaker.age' expected type 'int', got unconvertible type 'string', value: 'x'",
			want: []Issue{{Path: "speaker.age", Message: "Expected number, received string"}},
		},
		{
			msg:  "'featured' expected type 'bool', got unconvertible type 'float64', value: '1'",
			want: []Issue{{Path: "featured", Message: "Expected boolean, received number"}},
		},
		{
			msg: "'address' has invalid keys: zip, country",
			want: []Issue{
				{Path: "address.zip", Message: "Unrecognized key"},
				{Path: "address.country", Message: "Unrecognized key"},
			},
		},
		{
			msg:  "'topics': source data must be an array or slice, got string",
			want: []Issue{{Path: "topics", Message: "Expected array, received string"}},
		},
		{
			msg:  "error decoding 'starts_at': parsing time \"x\" as \"2006-01-02T15:04:05Z07:00\": cannot parse",
			want: []Issue{{Path: "starts_at", Message: "Invalid datetime"}},
		},
		{
			msg:  "error decoding 'talk_length': Expected integer, received float",
			want: []Issue{{Path: "talk_length", Message: "Expected integer, received float"}},
		},
		{
			msg:  "something else entirely",
			want: []Issue{{Path: "", Message: "something else entirely"}},
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeIssues(tt.msg), tt.msg)
	}
}
