package secret

import (
	"context"
	"testing"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapProvider map[string]string

func (m mapProvider) GetValue(_ context.Context, key string) (string, error) {
	value, ok := m[key]
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

func TestReference(t *testing.T) {
	key, ok := Reference("aws-sm:prod/speakers-bff/resend")
	assert.True(t, ok)
	assert.Equal(t, "prod/speakers-bff/resend", key)

	_, ok = Reference("re_123")
	assert.False(t, ok)

	_, ok = Reference("aws-sm:")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	provider := mapProvider{"prod/resend": "re_live"}

	apiKey := "aws-sm:prod/resend"
	plain := "keep-me"
	require.NoError(t, Resolve(context.Background(), provider, &apiKey, &plain))

	assert.Equal(t, "re_live", apiKey)
	assert.Equal(t, "keep-me", plain)
}

func TestResolve_Missing(t *testing.T) {
	value := "aws-sm:nope"
	err := Resolve(context.Background(), mapProvider{}, &value)

	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.Equal(t, "aws-sm:nope", value)
}

func TestResolveIntegration_NoReferences(t *testing.T) {
	cfg := &config.IntegrationConfig{ResendAPIKey: "re_123"}

	require.NoError(t, ResolveIntegration(context.Background(), cfg))
	assert.Equal(t, "re_123", cfg.ResendAPIKey)
}
