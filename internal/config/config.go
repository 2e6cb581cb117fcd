// Package config loads the service configuration from the environment.
//
// Values come from process env vars (and a `.env` file when present),
// are mapped into typed structs and validated so the service fails fast on
// missing or malformed configuration.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix is stripped from every env var read by LoadConfig.
	EnvPrefix = "BFF_"

	// ServiceName tags logs, traces and APM data.
	ServiceName = "speakers-bff"
)

/*
	Env var naming:

	- every variable starts with BFF_
	- a double underscore separates nesting levels, a single underscore is
	  part of the key

	BFF_SERVER__READ_TIMEOUT            -> server.read_timeout
	BFF_OBSERVABILITY__NEW_RELIC__LICENSE_KEY -> observability.new_relic.license_key
*/

// Config is the root configuration object.
//
// Observability is a pointer because it is optional; when absent LoadConfig
// injects defaults. RateLimit keys not set in the environment take the values
// of DefaultRateLimitConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server. Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// ConnMaxLifetime and ConnMaxIdleTime are seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AuthConfig stores the Clerk secret key.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// Email providers. "log" only writes the rendered email to the logger.
const (
	EmailProviderResend = "resend"
	EmailProviderLog    = "log"
)

// SecretRefPrefix marks a value stored in AWS Secrets Manager:
// "aws-sm:prod/speakers-bff/resend" is resolved at startup.
const SecretRefPrefix = "aws-sm:"

// IntegrationConfig configures third-party services used by background jobs.
type IntegrationConfig struct {
	EmailProvider string    `koanf:"email_provider" validate:"required,oneof=resend log"`
	FromAddress   string    `koanf:"from_address" validate:"required,email"`
	FromName      string    `koanf:"from_name"`
	ResendAPIKey  string    `koanf:"resend_api_key" validate:"required_if=EmailProvider resend"`
	AWS           AWSConfig `koanf:"aws"`
}

// AWSConfig is used to resolve SecretRefPrefix values. Empty credentials fall
// back to the default AWS credential chain (instance role, shared config).
type AWSConfig struct {
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// Rate limit stores.
const (
	RateLimitStoreRedis  = "redis"
	RateLimitStoreMemory = "memory"
)

// RateLimitConfig controls request limiting on the API group. Requests are
// allowed per client IP per Window.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Store    string        `koanf:"store" validate:"oneof=redis memory"`
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window" validate:"min=1s"`
	Burst    int           `koanf:"burst" validate:"min=0"`
}

// DefaultRateLimitConfig allows 100 requests per minute per client.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:  true,
		Store:    RateLimitStoreRedis,
		Requests: 100,
		Window:   time.Minute,
		Burst:    20,
	}
}

// setDefaults seeds k with the rate limit defaults so env vars only need to
// override what differs.
func setDefaults(k *koanf.Koanf) error {
	d := DefaultRateLimitConfig()
	defaults := map[string]any{
		"rate_limit.enabled":  d.Enabled,
		"rate_limit.store":    d.Store,
		"rate_limit.requests": d.Requests,
		"rate_limit.window":   d.Window.String(),
		"rate_limit.burst":    d.Burst,
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// envKey maps BFF_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig reads, validates and defaults the configuration.
//
// Behavior summary:
//   - loads env vars with prefix BFF_
//   - unmarshals them into Config
//   - validates required blocks and fields
//   - fills unset rate limit keys and a missing observability block with defaults
//   - forces the observability service name and environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := setDefaults(k); err != nil {
		return nil, errors.Wrap(err, "could not set config defaults")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if err := mainConfig.Integration.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid integration config")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}

// Validate checks requirements that tags cannot express.
func (c *IntegrationConfig) Validate() error {
	if strings.HasPrefix(c.ResendAPIKey, SecretRefPrefix) && c.AWS.Region == "" {
		return errors.New("aws.region is required when resend_api_key references a secret")
	}
	return nil
}

// SecretRefs returns pointers to the fields that may hold a SecretRefPrefix
// reference.
func (c *IntegrationConfig) SecretRefs() []*string {
	return []*string{&c.ResendAPIKey}
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
