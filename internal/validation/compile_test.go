package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailRequest struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
}

func TestCompile(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{version: VersionDraft04},
		{version: VersionDraft06},
		{version: VersionDraft07},
		{version: VersionDraft201909},
		{version: VersionDraft202012},
		{version: VersionOpenAPI30},
		{version: "draft-99", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			schema, err := Compile(tt.version, `{"type": "object"}`)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, schema)
				return
			}
			require.NoError(t, err)
			_, err = Validate[any](schema, map[string]any{})
			assert.NoError(t, err)
		})
	}
}

func TestCompile_Caches(t *testing.T) {
	first, err := Compile(VersionDraft07, mailSchema)
	require.NoError(t, err)
	second, err := Compile(VersionDraft07, mailSchema)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := Compile(VersionDraft202012, mailSchema)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(VersionDraft202012, `not json`)
	})
}

func TestTyped(t *testing.T) {
	schema := Typed[mailRequest](MustCompile(VersionDraft202012, mailSchema))

	out, err := Validate[mailRequest](schema, map[string]any{"to": "ada@example.com", "subject": "Hi"})
	require.NoError(t, err)
	assert.Equal(t, mailRequest{To: "ada@example.com", Subject: "Hi", Template: "contact"}, out)

	_, err = Validate[mailRequest](schema, map[string]any{"subject": "Hi"})
	assert.Equal(t, []Issue{{Path: "to", Message: "Required"}}, issuesOf(t, err))
}

func TestTyped_ProjectionMismatchIsUnexpected(t *testing.T) {
	type strictNumber struct {
		Subject int `json:"subject"`
	}
	schema := Typed[strictNumber](MustCompile(VersionDraft202012, mailSchema))

	_, err := Validate[strictNumber](schema, map[string]any{"to": "ada@example.com", "subject": "Hi"})
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.False(t, ok)
}
