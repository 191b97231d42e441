// Package main provides the one-shot posting run used by cron-style
// deployments and manual operation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/app"
	"github.com/garyellow/whs-tipbot-go/internal/buildinfo"
	"github.com/garyellow/whs-tipbot-go/internal/config"
	"github.com/garyellow/whs-tipbot-go/internal/dispatch"
	"github.com/garyellow/whs-tipbot-go/internal/format"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/rotation"
	"github.com/garyellow/whs-tipbot-go/internal/sentry"
	"github.com/garyellow/whs-tipbot-go/internal/tip"
)

func main() {
	var (
		dateFlag = flag.String("date", "", "evaluation date as YYYY-MM-DD (default: today in the configured timezone)")
		dryRun   = flag.Bool("dry-run", false, "compose and print the message without sending")
	)
	flag.Parse()

	cfg, err := config.LoadForMode(config.PostMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log = log.WithField("service", "whs-tipbot-go")

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Error tracking initialization failed")
	}

	date := time.Now().In(cfg.Location())
	if *dateFlag != "" {
		date, err = time.ParseInLocation(time.DateOnly, *dateFlag, cfg.Location())
		if err != nil {
			log.WithError(err).Fatal("Invalid -date, want YYYY-MM-DD")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.PostRun)
	defer cancel()

	source, err := app.BuildSource(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure catalog source")
	}

	engine := rotation.NewEngine(rotation.DefaultRules(), log, nil)
	formatter := format.NewDefaultFormatter()

	if *dryRun {
		runner := tip.NewRunner(tip.RunnerConfig{
			Source:    source,
			Engine:    engine,
			Formatter: formatter,
			Logger:    log,
		})
		sel, err := runner.Compose(ctx, date)
		if err != nil {
			log.WithError(err).Fatal("Compose failed")
		}
		fmt.Printf("date:  %s (week %d)\ntopic: %s (%s)\ntitle: %s\n\n%s\n",
			date.Format(time.DateOnly), sel.WeekNumber, sel.TopicName, sel.TopicCode, sel.Title, sel.Text)
		return
	}

	sender, err := app.BuildSender(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure transport")
	}

	runner := tip.NewRunner(tip.RunnerConfig{
		Source:     source,
		Engine:     engine,
		Formatter:  formatter,
		Dispatcher: dispatch.New(sender, log, nil),
		Channels:   dispatch.ParseChannels(cfg.Channels),
		Logger:     log,
	})

	_, runErr := runner.Run(ctx, date, "manual")

	flushCtx, flushCancel := context.WithTimeout(context.Background(), config.GracefulShutdown)
	defer flushCancel()
	if err := log.Shutdown(flushCtx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Logger shutdown: %v\n", err)
	}
	sentry.Flush(config.SentryFlush)

	if runErr != nil {
		os.Exit(1)
	}
}
