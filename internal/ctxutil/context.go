// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	runIDKey     contextKey = "ctxutil.runID"
	channelIDKey contextKey = "ctxutil.channelID"
)

// WithRunID adds a run ID to the context.
// A run ID is generated once per posting run and is used to correlate
// catalog loading, rotation, and per-channel delivery log entries.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
// Returns the run ID if found, empty string otherwise.
func GetRunID(ctx context.Context) string {
	if v := ctx.Value(runIDKey); v != nil {
		if runID, ok := v.(string); ok && runID != "" {
			return runID
		}
	}
	return ""
}

// WithChannelID adds the destination channel ID to the context.
// Set by the dispatcher around each delivery attempt.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

// GetChannelID retrieves the channel ID from the context.
// Returns the channel ID if found, empty string otherwise.
func GetChannelID(ctx context.Context) string {
	if v := ctx.Value(channelIDKey); v != nil {
		if channelID, ok := v.(string); ok && channelID != "" {
			return channelID
		}
	}
	return ""
}
