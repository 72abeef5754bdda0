package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Bucket represents a logical storage zone.
type Bucket string

const (
	// BucketIncoming: Private, 24h retention policy.
	// Browsers upload raw cover images here with a presigned POST policy.
	BucketIncoming Bucket = "incoming-files"

	// BucketPublic: Public Read.
	// Processed covers live here and are served as-is.
	BucketPublic Bucket = "public-files"
)

var (
	ErrNotFound     = errors.New("storage: file not found")
	ErrAccessDenied = errors.New("storage: access denied")
	ErrUploadFailed = errors.New("storage: upload failed")
)

type UploadConfig struct {
	Bucket      Bucket
	Key         string
	ContentType string
	MaxFileSize int64
	Expiry      time.Duration
}

// Object describes a blob written through Put.
type Object struct {
	Bucket      Bucket
	Key         string
	ContentType string
	Size        int64
}

// Provider abstracts S3 or MinIO.
type Provider interface {
	// GenerateUploadURL returns a POST URL and the form fields the browser must send with it.
	GenerateUploadURL(ctx context.Context, cfg UploadConfig) (string, map[string]string, error)

	// Put streams size bytes from r into bucket/key.
	Put(ctx context.Context, obj Object, r io.Reader) error

	Delete(ctx context.Context, bucket Bucket, key string) error

	// Get returns a stream, so large uploads are never held in memory whole.
	Get(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error)
}
