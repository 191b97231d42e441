// Package objstore provides a read-side client for S3-compatible object
// storage (Cloudflare R2). It wraps the AWS S3 SDK and adds transparent
// zstd decoding for compressed catalog objects.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("objstore: object not found")

// Config holds client configuration.
type Config struct {
	Endpoint    string // endpoint URL (e.g., https://account-id.r2.cloudflarestorage.com)
	AccessKeyID string
	SecretKey   string
	BucketName  string
}

// Client provides object storage read operations.
type Client struct {
	s3     *s3.Client
	bucket string
}

// New creates a new object storage client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretKey == "" || cfg.BucketName == "" {
		return nil, errors.New("objstore: all config fields are required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("objstore: load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Required for R2
	})

	return &Client{
		s3:     s3Client,
		bucket: cfg.BucketName,
	}, nil
}

// Download downloads an object.
// Returns the object body and ETag. Caller must close the body.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("objstore: download %q: %w", key, err)
	}

	etag := ""
	if result.ETag != nil {
		etag = strings.Trim(*result.ETag, "\"")
	}
	return result.Body, etag, nil
}

// OpenDecoded downloads an object and transparently decodes it when the key
// carries a ".zst" suffix. Caller must close the returned reader.
func (c *Client) OpenDecoded(ctx context.Context, key string) (io.ReadCloser, error) {
	body, _, err := c.Download(ctx, key)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(key, ".zst") {
		return body, nil
	}

	decoder, err := zstd.NewReader(body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("objstore: zstd decoder for %q: %w", key, err)
	}
	return &decodedReader{decoder: decoder, body: body}, nil
}

// decodedReader couples a zstd decoder with the underlying object body so a
// single Close releases both.
type decodedReader struct {
	decoder *zstd.Decoder
	body    io.ReadCloser
}

func (r *decodedReader) Read(p []byte) (int, error) {
	return r.decoder.Read(p)
}

func (r *decodedReader) Close() error {
	r.decoder.Close()
	return r.body.Close()
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}
	return false
}
