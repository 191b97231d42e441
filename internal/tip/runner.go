// Package tip orchestrates a posting run: load the catalog, pick the
// week's topic and the day's message, compose the text, and broadcast it.
package tip

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garyellow/whs-tipbot-go/internal/catalog"
	"github.com/garyellow/whs-tipbot-go/internal/ctxutil"
	"github.com/garyellow/whs-tipbot-go/internal/dispatch"
	"github.com/garyellow/whs-tipbot-go/internal/format"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/metrics"
	"github.com/garyellow/whs-tipbot-go/internal/rotation"
	"github.com/garyellow/whs-tipbot-go/internal/sentry"
)

// Selection records which topic and message a run picked.
type Selection struct {
	WeekNumber   int
	TopicCode    string
	TopicName    string
	MessageIndex int
	Title        string
	Text         string
}

// Report summarizes a completed run.
type Report struct {
	RunID     string
	Date      time.Time
	Trigger   string
	Selection *Selection
	Dispatch  *dispatch.Report
	Duration  time.Duration
}

// Runner wires the catalog source, rotation engine, formatter, and
// dispatcher into a single posting pipeline.
type Runner struct {
	source     catalog.Source
	engine     *rotation.Engine
	formatter  *format.Formatter
	dispatcher *dispatch.Dispatcher
	channels   []string
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// RunnerConfig holds dependencies for creating a Runner.
type RunnerConfig struct {
	Source     catalog.Source
	Engine     *rotation.Engine
	Formatter  *format.Formatter
	Dispatcher *dispatch.Dispatcher
	Channels   []string
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// NewRunner creates a runner. Metrics may be nil.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		source:     cfg.Source,
		engine:     cfg.Engine,
		formatter:  cfg.Formatter,
		dispatcher: cfg.Dispatcher,
		channels:   cfg.Channels,
		logger:     cfg.Logger.WithModule("tip"),
		metrics:    cfg.Metrics,
	}
}

// Compose loads the catalog and resolves the selection for date without
// sending anything. Used by dry runs and the verify tool.
func (r *Runner) Compose(ctx context.Context, date time.Time) (*Selection, error) {
	cat, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return r.compose(cat, date)
}

// Run executes a full posting run for date. The trigger label
// ("cron", "manual", "http") is recorded in logs and metrics. A run
// where at least one channel fails returns the report alongside an
// error so callers can exit non-zero.
func (r *Runner) Run(ctx context.Context, date time.Time, trigger string) (*Report, error) {
	runID := uuid.NewString()
	ctx = ctxutil.WithRunID(ctx, runID)
	log := r.logger.WithRunID(runID).WithField("trigger", trigger)

	start := time.Now()
	log.WithField("date", date.Format(time.DateOnly)).Info("Starting run")

	report := &Report{RunID: runID, Date: date, Trigger: trigger}

	sel, err := r.Compose(ctx, date)
	if err != nil {
		r.recordRun(trigger, "error", time.Since(start))
		log.WithError(err).Error("Run failed before dispatch")
		sentry.CaptureExceptionWithContext(ctx, err)
		return report, err
	}
	report.Selection = sel

	log.WithFields(map[string]any{
		"week_number": sel.WeekNumber,
		"topic_code":  sel.TopicCode,
		"title":       sel.Title,
	}).Info("Selection resolved")

	report.Dispatch = r.dispatcher.Broadcast(ctx, r.channels, sel.Text)
	report.Duration = time.Since(start)

	status := "success"
	if report.Dispatch.Failed() {
		if report.Dispatch.Delivered > 0 {
			status = "partial"
		} else {
			status = "error"
		}
	}
	r.recordRun(trigger, status, report.Duration)

	log.WithFields(map[string]any{
		"status":      status,
		"delivered":   report.Dispatch.Delivered,
		"attempted":   report.Dispatch.Attempted,
		"duration_ms": report.Duration.Milliseconds(),
	}).Info("Run finished")

	if report.Dispatch.Failed() {
		return report, fmt.Errorf("delivery failed on %d of %d channels",
			len(report.Dispatch.Failures), report.Dispatch.Attempted)
	}
	return report, nil
}

func (r *Runner) compose(cat *catalog.Catalog, date time.Time) (*Selection, error) {
	topic, err := r.engine.PickWeeklyTopic(cat, date)
	if err != nil {
		return nil, fmt.Errorf("pick weekly topic: %w", err)
	}
	msg, msgIndex, err := r.engine.PickDailyMessage(topic, date)
	if err != nil {
		return nil, fmt.Errorf("pick daily message: %w", err)
	}

	return &Selection{
		WeekNumber:   r.engine.WeekNumber(date),
		TopicCode:    topic.Code,
		TopicName:    topic.Name,
		MessageIndex: msgIndex,
		Title:        msg.Title,
		Text:         r.formatter.Compose(topic, msg),
	}, nil
}

func (r *Runner) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := r.source.Load(ctx)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordCatalogLoad(r.source.Name(), "error")
		}
		return nil, fmt.Errorf("load catalog from %s: %w", r.source.Name(), err)
	}
	if r.metrics != nil {
		r.metrics.RecordCatalogLoad(r.source.Name(), "success")
		r.metrics.SetCatalogSize(len(cat.Topics), cat.MessageCount())
	}
	return cat, nil
}

func (r *Runner) recordRun(trigger, status string, elapsed time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordRun(trigger, status, elapsed.Seconds())
	}
}
