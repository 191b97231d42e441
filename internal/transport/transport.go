// Package transport provides chat-platform senders behind a common interface.
package transport

import "context"

// Sender delivers a composed text blob to a single channel.
type Sender interface {
	// Name returns the transport identifier used in logs and metrics.
	Name() string

	// Send posts text to the given channel. Implementations must honor
	// context cancellation and return an error describing the failure
	// without affecting other channels.
	Send(ctx context.Context, channelID, text string) error
}
