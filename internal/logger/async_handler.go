package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultAsyncBufferSize   = 1024
	defaultAsyncFlushTimeout = 5 * time.Second
)

// AsyncOptions configures the async log pipeline. Zero values pick
// sensible defaults.
type AsyncOptions struct {
	BufferSize   int
	FlushTimeout time.Duration
}

type queuedRecord struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// logQueue is a buffered single-goroutine drain shared by every
// AsyncHandler derived from the same root handler. When the buffer is
// full new records are dropped rather than blocking the caller.
type logQueue struct {
	ch           chan queuedRecord
	flushTimeout time.Duration
	closed       atomic.Bool
	drained      sync.WaitGroup
	dropped      atomic.Uint64
}

func newLogQueue(opts AsyncOptions) *logQueue {
	size := opts.BufferSize
	if size <= 0 {
		size = defaultAsyncBufferSize
	}
	flushTimeout := opts.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = defaultAsyncFlushTimeout
	}

	q := &logQueue{
		ch:           make(chan queuedRecord, size),
		flushTimeout: flushTimeout,
	}
	q.drained.Add(1)
	go q.drain()
	return q
}

func (q *logQueue) drain() {
	defer q.drained.Done()
	for rec := range q.ch {
		_ = rec.handler.Handle(rec.ctx, rec.record)
	}
}

func (q *logQueue) enqueue(ctx context.Context, record slog.Record, handler slog.Handler) {
	if q.closed.Load() {
		return
	}
	select {
	case q.ch <- queuedRecord{ctx: ctx, record: record, handler: handler}:
	default:
		q.dropped.Add(1)
	}
}

func (q *logQueue) shutdown(ctx context.Context) error {
	if q.closed.Swap(true) {
		return nil
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flushTimeout)
		defer cancel()
	}
	close(q.ch)

	finished := make(chan struct{})
	go func() {
		q.drained.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler decouples remote log shipping from the caller: records
// are enqueued and drained by a background goroutine so a slow Better
// Stack endpoint never stalls a posting run.
type AsyncHandler struct {
	queue   *logQueue
	handler slog.Handler
}

// NewAsyncHandler wraps a handler with an asynchronous queue.
func NewAsyncHandler(handler slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{
		queue:   newLogQueue(opts),
		handler: handler,
	}
}

// Enabled reports whether the underlying handler accepts the level.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enqueues the record for background delivery.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.handler.Enabled(ctx, r.Level) {
		return nil
	}
	h.queue.enqueue(ctx, r.Clone(), h.handler)
	return nil
}

// WithAttrs returns a handler sharing the same queue with the
// attributes applied.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{
		queue:   h.queue,
		handler: h.handler.WithAttrs(attrs),
	}
}

// WithGroup returns a handler sharing the same queue with the group
// applied.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{
		queue:   h.queue,
		handler: h.handler.WithGroup(name),
	}
}

// Shutdown flushes pending records, waiting up to the configured timeout.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.queue == nil {
		return nil
	}
	return h.queue.shutdown(ctx)
}
