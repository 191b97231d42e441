// Package dispatch fans a composed message out to the configured channels.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/config"
	"github.com/garyellow/whs-tipbot-go/internal/ctxutil"
	domerrors "github.com/garyellow/whs-tipbot-go/internal/errors"
	"github.com/garyellow/whs-tipbot-go/internal/logger"
	"github.com/garyellow/whs-tipbot-go/internal/metrics"
	"github.com/garyellow/whs-tipbot-go/internal/sentry"
	"github.com/garyellow/whs-tipbot-go/internal/transport"
)

// ParseChannels splits a comma-separated channel list, trimming
// whitespace and dropping empty entries. Order is preserved.
func ParseChannels(raw string) []string {
	parts := strings.Split(raw, ",")
	channels := make([]string, 0, len(parts))
	for _, p := range parts {
		if ch := strings.TrimSpace(p); ch != "" {
			channels = append(channels, ch)
		}
	}
	return channels
}

// Report summarizes a broadcast across all channels.
type Report struct {
	Attempted int
	Delivered int
	Failures  []*domerrors.DeliveryError
}

// Failed reports whether any channel delivery failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Dispatcher delivers a message to every configured channel through a
// single transport.
type Dispatcher struct {
	sender  transport.Sender
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates a dispatcher. metrics may be nil.
func New(sender transport.Sender, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		logger:  log.WithModule("dispatch"),
		metrics: m,
	}
}

// Broadcast sends text to each channel in order. A failure for one
// channel is recorded and delivery continues with the remaining
// channels; the report carries every failure.
func (d *Dispatcher) Broadcast(ctx context.Context, channels []string, text string) *Report {
	report := &Report{Attempted: len(channels)}

	for _, channelID := range channels {
		chCtx := ctxutil.WithChannelID(ctx, channelID)
		log := d.logger.WithField("channel_id", channelID)

		start := time.Now()
		sendCtx, cancel := context.WithTimeout(chCtx, config.DeliverySend)
		err := d.sender.Send(sendCtx, channelID, text)
		cancel()
		elapsed := time.Since(start)

		if d.metrics != nil {
			d.metrics.RecordDeliveryDuration(d.sender.Name(), elapsed.Seconds())
		}

		if err != nil {
			derr := domerrors.NewDeliveryError(channelID, classify(err), err)
			report.Failures = append(report.Failures, derr)
			log.WithError(err).
				WithField("reason", derr.Reason).
				Error("Delivery failed")
			if d.metrics != nil {
				d.metrics.RecordDelivery(channelID, "error")
			}
			sentry.CaptureExceptionWithContext(chCtx, derr)
			continue
		}

		report.Delivered++
		log.WithField("duration_ms", elapsed.Milliseconds()).Info("Delivered")
		if d.metrics != nil {
			d.metrics.RecordDelivery(channelID, "success")
		}
	}

	return report
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "send_error"
	}
}
