package sentry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/ctxutil"
)

func TestInitializeEmptyTokenDisables(t *testing.T) {
	if err := Initialize(Config{Token: ""}); err != nil {
		t.Errorf("Initialize() error = %v, want nil for empty token", err)
	}
	if IsEnabled() {
		t.Error("IsEnabled() = true, want false when token is empty")
	}
}

func TestInitializeMissingHost(t *testing.T) {
	if err := Initialize(Config{Token: "test-token", Host: ""}); err == nil {
		t.Error("expected error when host is missing")
	}
}

func TestInitializeValidConfig(t *testing.T) {
	// Sentry uses global state, so no t.Parallel() here.
	err := Initialize(Config{
		Token:       "test-token",
		Host:        "errors.betterstack.com",
		Environment: "test",
		SampleRate:  1.0,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !IsEnabled() {
		t.Error("IsEnabled() = false after initialization")
	}

	Flush(time.Second)
}

func TestInitializeDefaultSampleRate(t *testing.T) {
	// Zero sample rate should default to full sampling.
	err := Initialize(Config{
		Token:      "test-token-2",
		Host:       "errors.betterstack.com",
		SampleRate: 0,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	Flush(time.Second)
}

func TestCaptureExceptionWithContextWhenDisabled(t *testing.T) {
	// Capturing must not panic regardless of hub state.
	ctx := ctxutil.WithRunID(context.Background(), "run-1")
	ctx = ctxutil.WithChannelID(ctx, "C123")
	CaptureExceptionWithContext(ctx, errors.New("delivery failed"))
}

func TestFlushWithNothingPending(t *testing.T) {
	if !Flush(100 * time.Millisecond) {
		t.Error("Flush() = false, want true with no events pending")
	}
}
