// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyellow/whs-tipbot-go/internal/buildinfo"
	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	"github.com/garyellow/whs-tipbot-go/internal/config"
	"github.com/garyellow/whs-tipbot-go/internal/dispatch"
	"github.com/garyellow/whs-tipbot-go/internal/format"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/metrics"
	"github.com/garyellow/whs-tipbot-go/internal/objstore"
	"github.com/garyellow/whs-tipbot-go/internal/rotation"
	"github.com/garyellow/whs-tipbot-go/internal/scheduler"
	"github.com/garyellow/whs-tipbot-go/internal/sentry"
	"github.com/garyellow/whs-tipbot-go/internal/tip"
	"github.com/garyellow/whs-tipbot-go/internal/transport"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg       *config.Config
	logger    *logger.Logger
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	runner    *tip.Runner
	scheduler *scheduler.Scheduler
	server    *http.Server
	source    catalog.Source
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "whs-tipbot-go")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Default logger so package-level slog.*Context() calls pick up
	// run_id and channel_id via ContextHandler.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Error tracking initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("host", cfg.SentryHost).Info("Error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	source, err := BuildSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}
	log.WithField("source", source.Name()).Info("Catalog source configured")

	sender, err := BuildSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	log.WithField("transport", sender.Name()).Info("Transport configured")

	runner := tip.NewRunner(tip.RunnerConfig{
		Source:     source,
		Engine:     rotation.NewEngine(rotation.DefaultRules(), log, m),
		Formatter:  format.NewDefaultFormatter(),
		Dispatcher: dispatch.New(sender, log, m),
		Channels:   dispatch.ParseChannels(cfg.Channels),
		Logger:     log,
		Metrics:    m,
	})

	app := &Application{
		cfg:      cfg,
		logger:   log,
		metrics:  m,
		registry: registry,
		runner:   runner,
		source:   source,
	}

	sched, err := scheduler.New(cfg.PostCron, cfg.Location(), app.scheduledRun, log)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	app.scheduler = sched

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	router.GET("/", app.redirectToGitHub)
	router.GET("/livez", app.livenessCheck)
	router.HEAD("/livez", app.livenessCheck)
	router.GET("/readyz", app.readinessCheck)
	router.HEAD("/readyz", app.readinessCheck)
	router.POST("/run", runAuthMiddleware(cfg.RunAuthToken), app.triggerRun)
	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsAuthEnabled, cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: config.ServerHTTPRead,
		ReadTimeout:       config.ServerHTTPRead,
		WriteTimeout:      config.ServerHTTPWrite,
		IdleTimeout:       config.ServerHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// BuildSource creates the configured catalog source. The source is
// wrapped with load deduplication so overlapping readiness probes and
// posting runs share a single read.
func BuildSource(ctx context.Context, cfg *config.Config) (catalog.Source, error) {
	switch cfg.CatalogSource {
	case config.CatalogSourceFile:
		source, err := catalog.NewFileSource(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		return catalog.NewSharedSource(source), nil
	case config.CatalogSourceR2:
		client, err := objstore.New(ctx, objstore.Config{
			Endpoint:    cfg.R2.Endpoint,
			AccessKeyID: cfg.R2.AccessKeyID,
			SecretKey:   cfg.R2.SecretAccessKey,
			BucketName:  cfg.R2.BucketName,
		})
		if err != nil {
			return nil, fmt.Errorf("create R2 client: %w", err)
		}
		source, err := catalog.NewObjectSource(client, cfg.R2.CatalogKey, config.CatalogFetch)
		if err != nil {
			return nil, err
		}
		return catalog.NewSharedSource(source), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

// BuildSender creates the configured transport sender.
func BuildSender(cfg *config.Config) (transport.Sender, error) {
	switch cfg.Transport {
	case config.TransportSlack:
		return transport.NewSlackSender(cfg.SlackBotToken), nil
	case config.TransportLine:
		return transport.NewLineSender(cfg.LineChannelToken)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func (a *Application) redirectToGitHub(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "https://github.com/garyellow/whs-tipbot-go")
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ReadinessCheckTimeout)
	defer cancel()

	cat, err := a.source.Load(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: catalog unavailable")
		a.metrics.RecordHTTPError("catalog_unavailable", "/readyz")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"catalog":  a.source.Name(),
		"topics":   len(cat.Topics),
		"messages": cat.MessageCount(),
		"next_run": a.scheduler.NextRun().Format(time.RFC3339),
	})
}

// triggerRun executes a posting run on demand. An optional ?date=YYYY-MM-DD
// query overrides the evaluation date, which otherwise is today in the
// configured timezone.
func (a *Application) triggerRun(c *gin.Context) {
	date := time.Now().In(a.cfg.Location())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, a.cfg.Location())
		if err != nil {
			a.metrics.RecordHTTPError("bad_date", "/run")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid date %q, want YYYY-MM-DD", raw),
			})
			return
		}
		date = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.PostRun)
	defer cancel()

	report, err := a.runner.Run(ctx, date, "http")
	if err != nil && report.Selection == nil {
		a.metrics.RecordHTTPError("run_failed", "/run")
		c.JSON(http.StatusInternalServerError, gin.H{
			"run_id": report.RunID,
			"error":  err.Error(),
		})
		return
	}

	body := gin.H{
		"run_id":      report.RunID,
		"date":        report.Date.Format(time.DateOnly),
		"week_number": report.Selection.WeekNumber,
		"topic_code":  report.Selection.TopicCode,
		"title":       report.Selection.Title,
		"attempted":   report.Dispatch.Attempted,
		"delivered":   report.Dispatch.Delivered,
	}
	if err != nil {
		body["error"] = err.Error()
		c.JSON(http.StatusBadGateway, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (a *Application) scheduledRun(ctx context.Context, date time.Time, trigger string) error {
	_, err := a.runner.Run(ctx, date, trigger)
	return err
}

// Run starts the HTTP server and the cron scheduler, then blocks until a
// shutdown signal arrives.
func (a *Application) Run() error {
	a.scheduler.Start()
	a.startHTTPServer()

	sig := a.waitForShutdownSignal()
	a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	return a.shutdown()
}

func (a *Application) startHTTPServer() {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server error")
		}
	}()
}

func (a *Application) waitForShutdownSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// shutdown stops the scheduler first so no new run starts mid-shutdown,
// then drains in-flight HTTP requests, then flushes logging.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping scheduler...")
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Scheduler stop timed out")
	}

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	if sentry.IsEnabled() && !sentry.Flush(config.SentryFlush) {
		a.logger.Warn("Error tracking flush timed out")
	}

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	a.logger.Info("Shutdown complete")
	return nil
}
