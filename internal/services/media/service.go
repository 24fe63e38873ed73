package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
)

var (
	ErrMediaTooLarge    = errors.New("media exceeds the upload limit")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// extByMIME doubles as the allowlist. Anything absent is rejected
// before a single byte reaches storage.
var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

type BlobStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

type UploadResult struct {
	URL       string
	Key       string
	MediaKind enums.MediaKind
}

type Service struct {
	storage  BlobStorage
	logger   *zap.Logger
	maxBytes int64
}

func NewService(storage BlobStorage, logger *zap.Logger, maxBytes int64) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("blob storage is nil")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage:  storage,
		logger:   logger,
		maxBytes: maxBytes,
	}, nil
}

// KindForMIME maps an allowed MIME type to its media kind.
func KindForMIME(contentType string) (enums.MediaKind, bool) {
	if _, ok := extByMIME[contentType]; !ok {
		return "", false
	}
	switch contentType {
	case "video/mp4", "video/webm":
		return enums.MediaKindVideo, true
	default:
		return enums.MediaKindImage, true
	}
}

// Upload stores one media blob under a fresh object key. Only the
// admin attaches media, the declared size is checked before upload and
// a limit reader guards against an understated Content-Length.
func (s *Service) Upload(ctx context.Context, actor auth.Identity, contentType string, size int64, reader io.Reader) (UploadResult, error) {
	if !actor.IsAdmin() {
		return UploadResult{}, auth.ErrForbidden
	}

	kind, ok := KindForMIME(contentType)
	if !ok {
		return UploadResult{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
	}
	if size <= 0 || size > s.maxBytes {
		return UploadResult{}, ErrMediaTooLarge
	}

	key := uuid.NewString() + extByMIME[contentType]
	limited := io.LimitReader(reader, s.maxBytes)

	url, err := s.storage.Put(ctx, key, limited, size, contentType)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store media: %w", err)
	}

	s.logger.Info("media uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("size", size),
	)

	return UploadResult{URL: url, Key: key, MediaKind: kind}, nil
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}
