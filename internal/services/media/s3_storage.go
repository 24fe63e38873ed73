package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// ObjectInfo describes one stored blob for the cleanup job.
type ObjectInfo struct {
	Key          string
	URL          string
	LastModified time.Time
}

// S3Storage wraps a minio client around one bucket and knows how to
// build the public URL the dashboard embeds.
type S3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string

	ensureOnce sync.Once
	ensureErr  error
}

func NewS3Storage(client *minio.Client, bucket, publicURL string) (*S3Storage, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}

	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = fmt.Errorf("check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.ensureErr = fmt.Errorf("create bucket: %w", err)
		}
	})
	return s.ensureErr
}

func (s *S3Storage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := s.EnsureBucket(ctx); err != nil {
		return "", err
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.ObjectURL(key), nil
}

func (s *S3Storage) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

func (s *S3Storage) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	var objects []ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			URL:          s.ObjectURL(object.Key),
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

func (s *S3Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
