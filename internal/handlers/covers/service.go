package covers

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"filemarket/internal/errors"
	"filemarket/internal/imaging"
	"filemarket/internal/storage"

	"github.com/google/uuid"
)

type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type PresignResponse struct {
	UploadURL string            `json:"uploadUrl"`
	FormData  map[string]string `json:"fields"`
	Key       string            `json:"key"`
}

type Config struct {
	MaxSize      int64
	UploadWindow time.Duration
}

type Service struct {
	storage storage.Provider
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(provider storage.Provider, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = imaging.MaxInputBytes
	}
	if cfg.UploadWindow == 0 {
		cfg.UploadWindow = 15 * time.Minute
	}
	return &Service{
		storage: provider,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// PresignUpload issues a POST policy into the incoming bucket. The returned key
// is later sent back as cover_key and claimed by Claim.
func (s *Service) PresignUpload(ctx context.Context, ownerID string, req PresignRequest) (*PresignResponse, error) {
	if !slices.Contains(imaging.AllowedContentTypes(), req.ContentType) {
		return nil, errors.Validation("content_type", fmt.Sprintf("File type '%s' is not allowed for covers", req.ContentType), nil)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if ext == "" {
		return nil, errors.Validation("filename", "Filename must have an extension", nil)
	}

	// Pattern: YYYY/MM/DD/owner/upload-id/sha1(filename).ext
	key := path.Join(datePrefix(s.now()), ownerID, uuid.NewString(), hashName(req.Filename)+ext)

	url, formData, err := s.storage.GenerateUploadURL(ctx, storage.UploadConfig{
		Bucket:      storage.BucketIncoming,
		Key:         key,
		ContentType: req.ContentType,
		MaxFileSize: s.cfg.MaxSize,
		Expiry:      s.cfg.UploadWindow,
	})
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Failed to generate upload signature", err)
	}

	return &PresignResponse{
		UploadURL: url,
		FormData:  formData,
		Key:       key,
	}, nil
}

// Upload normalizes a cover streamed through the API and stores it in the
// public bucket. It returns the stored object key.
func (s *Service) Upload(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	return s.store(ctx, ownerID, hashName(filename), r)
}

// Claim moves a presigned upload owned by ownerID into the public bucket.
func (s *Service) Claim(ctx context.Context, ownerID, incomingKey string) (string, error) {
	hash, ok := parseIncomingKey(ownerID, incomingKey)
	if !ok {
		return "", errors.Validation("cover_key", "Unknown upload", nil)
	}

	obj, err := s.storage.Get(ctx, storage.BucketIncoming, incomingKey)
	if stderrors.Is(err, storage.ErrNotFound) {
		return "", errors.Validation("cover_key", "Upload not found or expired", err)
	}
	if err != nil {
		return "", errors.New(errors.ErrInternal, "Failed to read upload", err)
	}
	defer obj.Close()

	key, err := s.store(ctx, ownerID, hash, obj)
	if err != nil {
		return "", err
	}

	// The incoming bucket expires objects on its own; a failed delete only leaves garbage.
	if err := s.storage.Delete(ctx, storage.BucketIncoming, incomingKey); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete claimed upload", "key", incomingKey, "error", err)
	}

	return key, nil
}

// Delete removes a stored cover from the public bucket. Keys that Upload or
// Claim could not have produced are ignored.
func (s *Service) Delete(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, "covers/") || key != path.Clean(key) {
		return nil
	}
	if err := s.storage.Delete(ctx, storage.BucketPublic, key); err != nil {
		return fmt.Errorf("failed to delete cover %s: %w", key, err)
	}
	s.logger.InfoContext(ctx, "Deleted cover", "key", key)
	return nil
}

func (s *Service) store(ctx context.Context, ownerID, hash string, r io.Reader) (string, error) {
	cover, err := imaging.ProcessCover(r, s.cfg.MaxSize)
	switch {
	case stderrors.Is(err, imaging.ErrTooLarge):
		return "", errors.Validation("cover", "Cover image is too large", err)
	case stderrors.Is(err, imaging.ErrUnsupportedFormat):
		return "", errors.Validation("cover", "Cover must be a JPEG, PNG or WebP image", err)
	case err != nil:
		return "", errors.New(errors.ErrInternal, "Failed to process cover", err)
	}

	// A fresh directory per upload: a queued cover must never overwrite the live one.
	key := path.Join("covers", datePrefix(s.now()), ownerID, uuid.NewString(), hash+".jpg")

	err = s.storage.Put(ctx, storage.Object{
		Bucket:      storage.BucketPublic,
		Key:         key,
		ContentType: cover.MIME,
		Size:        int64(len(cover.Data)),
	}, cover.Reader())
	if err != nil {
		return "", errors.New(errors.ErrInternal, "Failed to store cover", err)
	}

	s.logger.InfoContext(ctx, "Stored cover", "key", key, "width", cover.Width, "height", cover.Height)
	return key, nil
}

// parseIncomingKey checks that key was issued to ownerID by PresignUpload and
// returns its filename hash.
func parseIncomingKey(ownerID, key string) (string, bool) {
	if key != path.Clean(key) {
		return "", false
	}
	parts := strings.Split(key, "/")
	if len(parts) != 6 || parts[3] != ownerID {
		return "", false
	}
	if _, err := uuid.Parse(parts[4]); err != nil {
		return "", false
	}
	hash := strings.TrimSuffix(parts[5], path.Ext(parts[5]))
	if len(hash) != sha1.Size*2 {
		return "", false
	}
	return hash, true
}

func datePrefix(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d/%02d/%02d", t.Year(), t.Month(), t.Day())
}

func hashName(filename string) string {
	sum := sha1.Sum([]byte(filename))
	return hex.EncodeToString(sum[:])
}
