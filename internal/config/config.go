package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"

	"github.com/easytrans/easytrans-go/pkg/easytrans"
)

// Config holds all configuration for the CLI and tooling built on the
// EasyTrans client. Credentials come from the environment so they never
// appear on the command line.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// EasyTrans
	Server             string `envconfig:"EASYTRANS_SERVER" required:"true"`
	Environment        string `envconfig:"EASYTRANS_ENVIRONMENT" default:"demo"`
	Username           string `envconfig:"EASYTRANS_USERNAME" required:"true"`
	Password           string `envconfig:"EASYTRANS_PASSWORD" required:"true"`
	Mode               string `envconfig:"EASYTRANS_MODE" default:"test"`
	TimeoutSeconds     int    `envconfig:"EASYTRANS_TIMEOUT_SECONDS" default:"30"`
	InsecureSkipVerify bool   `envconfig:"EASYTRANS_INSECURE_SKIP_VERIFY" default:"false"`
	WebhookAPIKey      string `envconfig:"EASYTRANS_WEBHOOK_API_KEY"`

	// Telemetry
	ServiceName string `envconfig:"SERVICE_NAME" default:"easytrans-cli"`
	Version     string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// ClientConfig converts the environment settings into a client Config.
func (c *Config) ClientConfig() easytrans.Config {
	return easytrans.Config{
		Server:             c.Server,
		Environment:        c.Environment,
		Username:           c.Username,
		Password:           c.Password,
		DefaultMode:        easytrans.Mode(c.Mode),
		Timeout:            time.Duration(c.TimeoutSeconds) * time.Second,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("easytrans.server", c.Server),
		attribute.String("easytrans.environment", c.Environment),
	}
}
