package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/garyellow/whs-tipbot-go/internal/objstore"
)

// Source loads the catalog from its backing document.
// Absence or malformed content is a fatal configuration error for callers.
type Source interface {
	// Load reads and validates the catalog.
	Load(ctx context.Context) (*Catalog, error)

	// Name identifies the source kind for logs and metrics ("file", "r2").
	Name() string
}

// FileSource loads the catalog from a local JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed catalog source.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, errors.New("catalog: file path is required")
	}
	return &FileSource{path: path}, nil
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Load implements Source.
func (s *FileSource) Load(_ context.Context) (*Catalog, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", s.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return decode(f, s.path)
}

// objectDownloader is the subset of objstore.Client the object source needs.
// Declared here so tests can substitute a fake.
type objectDownloader interface {
	OpenDecoded(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectSource loads the catalog from S3-compatible object storage.
// Keys ending in ".zst" are decoded transparently by the client.
type ObjectSource struct {
	client  objectDownloader
	key     string
	timeout time.Duration
}

// NewObjectSource creates an object-storage-backed catalog source.
func NewObjectSource(client objectDownloader, key string, timeout time.Duration) (*ObjectSource, error) {
	if client == nil {
		return nil, errors.New("catalog: object client is required")
	}
	if key == "" {
		return nil, errors.New("catalog: object key is required")
	}
	return &ObjectSource{client: client, key: key, timeout: timeout}, nil
}

// Name implements Source.
func (s *ObjectSource) Name() string { return "r2" }

// Load implements Source.
func (s *ObjectSource) Load(ctx context.Context) (*Catalog, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, err := s.client.OpenDecoded(ctx, s.key)
	if err != nil {
		if errors.Is(err, objstore.ErrNotFound) {
			return nil, fmt.Errorf("catalog: object %q not found: %w", s.key, err)
		}
		return nil, fmt.Errorf("catalog: download %q: %w", s.key, err)
	}
	defer func() {
		_ = body.Close()
	}()

	return decode(body, s.key)
}

// decode parses, normalizes, and validates a catalog document.
func decode(r io.Reader, origin string) (*Catalog, error) {
	var cat Catalog
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cat); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", origin, err)
	}

	cat.normalize()

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: invalid document %q: %w", origin, err)
	}
	return &cat, nil
}
