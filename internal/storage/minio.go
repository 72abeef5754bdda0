package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ Provider = (*MinioProvider)(nil)

type MinioProvider struct {
	client *minio.Client
}

// NewMinioProvider initializes the MinIO client.
// In production, pass 'useSSL: true' for S3/Cloud.
func NewMinioProvider(endpoint, accessKeyID, secretAccessKey string, useSSL bool) (*MinioProvider, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioProvider{client: client}, nil
}

// GenerateUploadURL creates a POST Policy for direct browser uploads.
func (m *MinioProvider) GenerateUploadURL(ctx context.Context, cfg UploadConfig) (string, map[string]string, error) {
	policy := minio.NewPostPolicy()

	if err := policy.SetBucket(string(cfg.Bucket)); err != nil {
		return "", nil, fmt.Errorf("failed to set bucket: %w", err)
	}

	if err := policy.SetKey(cfg.Key); err != nil {
		return "", nil, fmt.Errorf("failed to set key: %w", err)
	}

	if err := policy.SetExpires(time.Now().Add(cfg.Expiry).UTC()); err != nil {
		return "", nil, fmt.Errorf("failed to set expiry: %w", err)
	}

	// 1KB floor rejects empty uploads
	if err := policy.SetContentLengthRange(1024, cfg.MaxFileSize); err != nil {
		return "", nil, fmt.Errorf("failed to set size limit: %w", err)
	}

	if err := policy.SetContentType(cfg.ContentType); err != nil {
		return "", nil, fmt.Errorf("failed to set content type: %w", err)
	}

	url, formData, err := m.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate post policy: %w", err)
	}

	return url.String(), formData, nil
}

// Put uploads a fully known-length stream.
func (m *MinioProvider) Put(ctx context.Context, obj Object, r io.Reader) error {
	opts := minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		CacheControl: "public, max-age=31536000, immutable",
	}

	if _, err := m.client.PutObject(ctx, string(obj.Bucket), obj.Key, r, obj.Size, opts); err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, mapMinioError(err))
	}
	return nil
}

// Delete removes a file.
func (m *MinioProvider) Delete(ctx context.Context, bucket Bucket, key string) error {
	opts := minio.RemoveObjectOptions{
		GovernanceBypass: true,
	}

	err := m.client.RemoveObject(ctx, string(bucket), key, opts)
	if err != nil {
		return mapMinioError(err)
	}
	return nil
}

// Get returns the file stream.
func (m *MinioProvider) Get(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, string(bucket), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(err)
	}

	// GetObject is lazy; Stat surfaces NoSuchKey before the caller starts reading.
	if _, err = obj.Stat(); err != nil {
		obj.Close()
		return nil, mapMinioError(err)
	}

	return obj, nil
}

// mapMinioError translates MinIO SDK errors into our domain errors
func mapMinioError(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)

	switch errResp.Code {
	case "NoSuchKey":
		return ErrNotFound
	case "AccessDenied":
		return ErrAccessDenied
	}

	if errResp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if errResp.StatusCode == http.StatusForbidden {
		return ErrAccessDenied
	}

	return fmt.Errorf("storage provider error: %w", err)
}

// EnsureBuckets creates any missing bucket. Called once at startup.
func (m *MinioProvider) EnsureBuckets(ctx context.Context, buckets ...Bucket) error {
	for _, b := range buckets {
		exists, err := m.client.BucketExists(ctx, string(b))
		if err != nil {
			return mapMinioError(err)
		}
		if exists {
			continue
		}
		if err := m.client.MakeBucket(ctx, string(b), minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b, err)
		}
	}
	return nil
}
