// Package config provides centralized timeout constants for the application.
//
// These values are tuned for a low-traffic notification service:
//   - chat API calls (Slack chat.postMessage, LINE push) complete in a few
//     seconds under normal conditions
//   - catalog sources are a local file or a single small R2 object
//   - the HTTP surface only serves health probes, metrics, and a manual
//     run trigger
package config

import "time"

// Posting run timeouts
const (
	// PostRun is the timeout for a complete posting run: catalog load,
	// rotation, formatting, and delivery to every configured channel.
	// Generous relative to the work involved so a slow chat API never
	// strands a cron slot.
	PostRun = 2 * time.Minute

	// DeliverySend is the timeout for a single chat API delivery call.
	DeliverySend = 15 * time.Second

	// CatalogFetch is the timeout for fetching the catalog from object
	// storage. Local file reads ignore it.
	CatalogFetch = 30 * time.Second
)

// HTTP server timeouts
const (
	// ServerHTTPRead is the HTTP server read timeout. Health probes and
	// the run trigger carry no meaningful body.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWrite is the HTTP server write timeout. Must accommodate
	// a synchronous manual run triggered via POST /run.
	ServerHTTPWrite = PostRun + 10*time.Second

	// ServerHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ServerHTTPIdle = 120 * time.Second

	// ReadinessCheckTimeout bounds the catalog probe performed by /readyz.
	ReadinessCheckTimeout = 5 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows an in-flight posting run to complete before forceful termination.
	GracefulShutdown = 30 * time.Second

	// SentryFlush is how long shutdown waits for buffered Sentry events.
	SentryFlush = 2 * time.Second
)
