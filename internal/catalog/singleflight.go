package catalog

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SharedSource wraps a Source with singleflight so concurrent loads
// collapse into a single read of the backing document. Readiness probes
// and posting runs can overlap without fetching the catalog twice.
type SharedSource struct {
	inner Source
	group singleflight.Group
}

// NewSharedSource wraps a catalog source with load deduplication.
func NewSharedSource(inner Source) *SharedSource {
	return &SharedSource{inner: inner}
}

// Name implements Source.
func (s *SharedSource) Name() string { return s.inner.Name() }

// Load implements Source. Concurrent callers share one underlying load;
// each caller's context is only checked before the load starts, so a
// caller-canceled context does not abort a load others are waiting on.
func (s *SharedSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err, _ := s.group.Do(s.inner.Name(), func() (interface{}, error) {
		return s.inner.Load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return result.(*Catalog), nil
}
