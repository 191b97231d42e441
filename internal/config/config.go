// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// post mode, server mode, and the catalog/transport/observability features.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ValidationMode selects which settings are required at load time.
type ValidationMode int

const (
	// ServerMode requires transport credentials, channels, and a catalog location.
	ServerMode ValidationMode = iota

	// PostMode is the one-shot posting run; same requirements as ServerMode
	// minus the HTTP surface.
	PostMode

	// VerifyMode only needs a catalog location; no credentials required.
	VerifyMode
)

// Transport identifiers accepted by TIPBOT_TRANSPORT.
const (
	TransportSlack = "slack"
	TransportLine  = "line"
)

// Catalog source identifiers accepted by TIPBOT_CATALOG_SOURCE.
const (
	CatalogSourceFile = "file"
	CatalogSourceR2   = "r2"
)

// R2Config holds object storage settings for the R2 catalog source.
type R2Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	CatalogKey      string
}

// Config holds all application configuration
type Config struct {
	// Transport Configuration
	Transport        string // "slack" or "line"
	SlackBotToken    string
	LineChannelToken string
	Channels         string // comma-separated destination channel IDs

	// Catalog Configuration
	CatalogSource string // "file" or "r2"
	CatalogPath   string // path for the file source

	// Rotation Configuration
	Timezone string // IANA timezone for "today"; empty = process-local

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	PostCron        string // cron spec for the daily posting job
	RunAuthToken    string // bearer token guarding POST /run (empty = disabled)

	// R2 Catalog Feature
	R2 R2Config

	// Sentry Feature (Better Stack errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack Logging Feature
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsAuthEnabled bool
	MetricsUsername    string
	MetricsPassword    string
}

// Load reads configuration from environment variables for server mode.
// It attempts to load .env file first, then reads from env vars.
func Load() (*Config, error) {
	return LoadForMode(ServerMode)
}

// LoadForMode reads configuration and validates it for the given mode.
func LoadForMode(mode ValidationMode) (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Transport:        getEnv(EnvTransport, TransportSlack),
		SlackBotToken:    getEnv(EnvSlackBotToken, ""),
		LineChannelToken: getEnv(EnvLineChannelToken, ""),
		Channels:         getEnv(EnvChannels, ""),

		CatalogSource: getEnv(EnvCatalogSource, CatalogSourceFile),
		CatalogPath:   getEnv(EnvCatalogPath, "data/catalog.json"),

		Timezone: getEnv(EnvTimezone, ""),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		PostCron:        getEnv(EnvPostCron, "0 9 * * *"), // daily 09:00 in TIPBOT_TIMEZONE
		RunAuthToken:    getEnv(EnvRunAuthToken, ""),

		R2: R2Config{
			Endpoint:        getEnv(EnvR2Endpoint, ""),
			AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
			SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
			BucketName:      getEnv(EnvR2BucketName, ""),
			CatalogKey:      getEnv(EnvR2CatalogKey, "catalog.json"),
		},

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsAuthEnabled: getBoolEnv(EnvMetricsAuthEnabled, false),
		MetricsUsername:    getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword:    getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(mode); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set for the mode.
func (c *Config) Validate(mode ValidationMode) error {
	var errs []error

	switch c.Transport {
	case TransportSlack, TransportLine:
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q",
			EnvTransport, TransportSlack, TransportLine, c.Transport))
	}

	if mode == ServerMode || mode == PostMode {
		if c.Transport == TransportSlack && c.SlackBotToken == "" {
			errs = append(errs, errors.New(EnvSlackBotToken+" is required"))
		}
		if c.Transport == TransportLine && c.LineChannelToken == "" {
			errs = append(errs, errors.New(EnvLineChannelToken+" is required"))
		}
		if c.Channels == "" {
			errs = append(errs, errors.New(EnvChannels+" is required"))
		}
	}

	switch c.CatalogSource {
	case CatalogSourceFile:
		if c.CatalogPath == "" {
			errs = append(errs, errors.New(EnvCatalogPath+" is required"))
		}
	case CatalogSourceR2:
		if c.R2.Endpoint == "" || c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.BucketName == "" {
			errs = append(errs, errors.New("r2 catalog source requires "+
				EnvR2Endpoint+", "+EnvR2AccessKeyID+", "+EnvR2SecretAccessKey+", "+EnvR2BucketName))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q",
			EnvCatalogSource, CatalogSourceFile, CatalogSourceR2, c.CatalogSource))
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid timezone %q", EnvTimezone, c.Timezone))
		}
	}

	if mode == ServerMode {
		if c.Port == "" {
			errs = append(errs, errors.New(EnvPort+" is required"))
		}
		if c.PostCron == "" {
			errs = append(errs, errors.New(EnvPostCron+" is required"))
		}
		if c.ShutdownTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
		}
	}

	if c.MetricsAuthEnabled && c.MetricsPassword == "" {
		errs = append(errs, errors.New(EnvMetricsPassword+" is required when metrics auth is enabled"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Location resolves the configured timezone.
// Falls back to the process-local zone when unset.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
