// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Transport (Required for post/server modes)
	EnvTransport        = "TIPBOT_TRANSPORT"
	EnvSlackBotToken    = "TIPBOT_SLACK_BOT_TOKEN"
	EnvLineChannelToken = "TIPBOT_LINE_CHANNEL_ACCESS_TOKEN"
	EnvChannels         = "TIPBOT_CHANNELS"

	// Catalog
	EnvCatalogSource = "TIPBOT_CATALOG_SOURCE"
	EnvCatalogPath   = "TIPBOT_CATALOG_PATH"

	// Rotation
	EnvTimezone = "TIPBOT_TIMEZONE"

	// Server
	EnvPort            = "TIPBOT_PORT"
	EnvLogLevel        = "TIPBOT_LOG_LEVEL"
	EnvShutdownTimeout = "TIPBOT_SHUTDOWN_TIMEOUT"
	EnvPostCron        = "TIPBOT_POST_CRON"
	EnvRunAuthToken    = "TIPBOT_RUN_AUTH_TOKEN"

	// R2 Catalog Feature
	EnvR2Endpoint        = "TIPBOT_R2_ENDPOINT"
	EnvR2AccessKeyID     = "TIPBOT_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "TIPBOT_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "TIPBOT_R2_BUCKET_NAME"
	EnvR2CatalogKey      = "TIPBOT_R2_CATALOG_KEY"

	// Sentry Feature
	EnvSentryToken       = "TIPBOT_SENTRY_TOKEN"
	EnvSentryHost        = "TIPBOT_SENTRY_HOST"
	EnvSentryEnvironment = "TIPBOT_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "TIPBOT_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "TIPBOT_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "TIPBOT_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsAuthEnabled = "TIPBOT_METRICS_AUTH_ENABLED"
	EnvMetricsUsername    = "TIPBOT_METRICS_USERNAME"
	EnvMetricsPassword    = "TIPBOT_METRICS_PASSWORD"
)
