package config

import (
	"fmt"
	"os"
	"strconv"

	"smsrelay/internal/constants"
	"smsrelay/internal/models"

	"github.com/joho/godotenv"
)

var (
	ErrMissingAccountSID = models.ConfigError{Message: "missing TWILIO_ACCOUNT_SID"}
	ErrMissingAuthToken  = models.ConfigError{Message: "missing TWILIO_AUTH_TOKEN"}
	ErrMissingFromNumber = models.ConfigError{Message: "missing TWILIO_NUMBER"}
)

type Config struct {
	Twilio   TwilioConfig
	Server   ServerConfig
	Database DatabaseConfig
	Tracing  TracingConfig
	LogLevel string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	// APIBaseURL overrides the carrier endpoint, mainly for tests.
	APIBaseURL string
	TimeoutSec int
}

type ServerConfig struct {
	Port int
	// PublicBaseURL is the externally reachable address used to build
	// the delivery status-callback URL. When empty, sends carry no
	// callback and delivery updates are never received.
	PublicBaseURL string
}

type DatabaseConfig struct {
	Path string
}

type TracingConfig struct {
	Enabled      bool
	UseStdout    bool
	OTLPEndpoint string
	SampleRate   float64
	Environment  string
}

// Load reads configuration from the environment. A local .env file is
// honored when present, matching how the service is run in development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_NUMBER"),
			APIBaseURL: getEnv("TWILIO_API_BASE_URL", constants.TwilioAPIBaseURL),
			TimeoutSec: getEnvInt("TWILIO_TIMEOUT_SEC", constants.DefaultProviderTimeoutSec),
		},
		Server: ServerConfig{
			Port:          getEnvInt("PORT", constants.DefaultServerPort),
			PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "sms.db"),
		},
		Tracing: TracingConfig{
			Enabled:      os.Getenv("TRACING_ENABLED") == "true",
			UseStdout:    getEnv("TRACING_STDOUT", "true") == "true",
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4318"),
			SampleRate:   getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
			Environment:  getEnv("SMSRELAY_ENV", "development"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(c *Config) error {
	if c.Twilio.AccountSID == "" {
		return ErrMissingAccountSID
	}
	if c.Twilio.AuthToken == "" {
		return ErrMissingAuthToken
	}
	if c.Twilio.FromNumber == "" {
		return ErrMissingFromNumber
	}
	if c.Database.Path == "" {
		return models.ConfigError{Message: "missing database path"}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return models.ConfigError{Message: fmt.Sprintf("invalid port: %d", c.Server.Port)}
	}
	if c.Twilio.TimeoutSec <= 0 {
		c.Twilio.TimeoutSec = constants.DefaultProviderTimeoutSec
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
