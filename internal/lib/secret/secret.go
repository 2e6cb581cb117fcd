// Package secret resolves configuration values kept in AWS Secrets Manager.
package secret

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/pkg/errors"
)

var ErrSecretNotFound = errors.New("secret not found")

// Provider looks up a secret value by key.
type Provider interface {
	GetValue(ctx context.Context, key string) (string, error)
}

type AWSProvider struct {
	client *secretsmanager.Client
}

// NewAWSProvider builds a Secrets Manager client. Static credentials are used
// when both keys are set, the default credential chain otherwise.
func NewAWSProvider(ctx context.Context, cfg config.AWSConfig) (*AWSProvider, error) {
	opts := make([]func(*awsconfig.LoadOptions) error, 0)
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}

	return &AWSProvider{client: secretsmanager.NewFromConfig(awsCfg)}, nil
}

func (p *AWSProvider) GetValue(ctx context.Context, key string) (string, error) {
	result, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(key)})
	if err != nil {
		var awsErr *types.ResourceNotFoundException
		if errors.As(err, &awsErr) {
			return "", ErrSecretNotFound
		}
		return "", err
	}
	if result.SecretString == nil {
		return "", errors.Errorf("secret %s has no string value", key)
	}
	return *result.SecretString, nil
}

// Reference reports whether value is a secret reference and returns its key.
func Reference(value string) (string, bool) {
	key, ok := strings.CutPrefix(value, config.SecretRefPrefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Resolve replaces every reference in values with the secret it points to.
// Plain values are left as they are.
func Resolve(ctx context.Context, p Provider, values ...*string) error {
	for _, value := range values {
		key, ok := Reference(*value)
		if !ok {
			continue
		}

		resolved, err := p.GetValue(ctx, key)
		if err != nil {
			return errors.Wrapf(err, "resolving secret %s", key)
		}
		*value = resolved
	}
	return nil
}

// ResolveIntegration resolves the secret references of cfg. No AWS client is
// built when nothing references a secret.
func ResolveIntegration(ctx context.Context, cfg *config.IntegrationConfig) error {
	refs := cfg.SecretRefs()

	needed := false
	for _, ref := range refs {
		if _, ok := Reference(*ref); ok {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	provider, err := NewAWSProvider(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	return Resolve(ctx, provider, refs...)
}
