// Package scheduler runs the daily posting job on a cron schedule in the
// configured timezone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/garyellow/whs-tipbot-go/internal/config"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
)

// RunFunc executes one posting run for the given date.
type RunFunc func(ctx context.Context, date time.Time, trigger string) error

// Scheduler wraps a cron instance with a single daily job.
type Scheduler struct {
	c        *cron.Cron
	location *time.Location
	spec     string
	run      RunFunc
	logger   *logger.Logger
}

// New creates a scheduler. The spec is a standard five-field cron
// expression evaluated in loc.
func New(spec string, loc *time.Location, run RunFunc, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		c:        cron.New(cron.WithLocation(loc)),
		location: loc,
		spec:     spec,
		run:      run,
		logger:   log.WithModule("scheduler"),
	}

	if _, err := s.c.AddFunc(spec, s.fire); err != nil {
		return nil, fmt.Errorf("register cron job %q: %w", spec, err)
	}
	return s, nil
}

// Start begins scheduling in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.WithFields(map[string]any{
		"spec":     s.spec,
		"timezone": s.location.String(),
	}).Info("Scheduler started")
	s.c.Start()
}

// Stop halts scheduling and waits for a running job to finish or the
// context to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.c.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// NextRun returns the next scheduled fire time.
func (s *Scheduler) NextRun() time.Time {
	entries := s.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), config.PostRun)
	defer cancel()

	date := time.Now().In(s.location)
	if err := s.run(ctx, date, "cron"); err != nil {
		s.logger.WithError(err).Error("Scheduled run failed")
	}
}
