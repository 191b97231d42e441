package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/logger"
)

func noopRun(_ context.Context, _ time.Time, _ string) error { return nil }

func TestNewRejectsBadSpec(t *testing.T) {
	t.Parallel()

	_, err := New("not a cron spec", time.UTC, noopRun, logger.New("error"))
	if err == nil {
		t.Error("expected error for invalid cron spec")
	}
}

func TestNextRunAfterStart(t *testing.T) {
	t.Parallel()

	s, err := New("0 9 * * *", time.UTC, noopRun, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	next := s.NextRun()
	if next.IsZero() {
		t.Fatal("NextRun() is zero after Start")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun() = %v, want a future time", next)
	}
	if got := next.Hour(); got != 9 {
		t.Errorf("NextRun().Hour() = %d, want 9", got)
	}
}

func TestNextRunHonorsLocation(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}

	s, err := New("30 7 * * *", loc, noopRun, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	next := s.NextRun().In(loc)
	if next.Hour() != 7 || next.Minute() != 30 {
		t.Errorf("NextRun() in %s = %v, want 07:30 local", loc, next)
	}
}

func TestStopWithoutRunningJob(t *testing.T) {
	t.Parallel()

	s, err := New("0 9 * * *", time.UTC, noopRun, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() = %v, want nil", err)
	}
}
