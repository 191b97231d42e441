// Package sentry wraps Sentry SDK initialization for Better Stack error
// tracking. The DSN is assembled from a Better Stack token and ingest host.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/garyellow/whs-tipbot-go/internal/ctxutil"
)

// Config holds the Better Stack error tracking settings.
type Config struct {
	// Token is the Better Stack Errors application token.
	Token string

	// Host is the Better Stack Errors ingest host (e.g. "errors.betterstack.com").
	Host string

	// Environment identifies the deployment environment.
	Environment string

	// Release identifies the application release version.
	Release string

	// SampleRate controls error sampling (0.0-1.0, default 1.0).
	SampleRate float64

	// Debug enables Sentry SDK debug logging.
	Debug bool
}

// Initialize sets up the Sentry SDK. An empty Token disables error
// tracking and returns nil.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}

	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	// Better Stack ignores the project ID but the SDK requires one.
	dsn := fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to be sent to the server.
// Returns true if all events were sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureExceptionWithContext captures an error, tagging it with the
// posting run and destination channel carried on the context.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		if runID := ctxutil.GetRunID(ctx); runID != "" {
			scope.SetTag("run_id", runID)
		}
		if channelID := ctxutil.GetChannelID(ctx); channelID != "" {
			scope.SetTag("channel_id", channelID)
		}
		hub.CaptureException(err)
	})
}
