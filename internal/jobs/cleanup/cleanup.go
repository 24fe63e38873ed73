package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/services/media"
)

type ObjectStorage interface {
	ListObjects(ctx context.Context) ([]media.ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

type ReferenceChecker interface {
	MediaURLReferenced(ctx context.Context, mediaURL string) (bool, error)
}

// Job removes uploaded media that no content item ever ended up
// pointing at. Fresh objects inside the retention window are spared so
// an in-flight submission cannot lose its upload.
type Job struct {
	storage   ObjectStorage
	refs      ReferenceChecker
	logger    *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewJob(storage ObjectStorage, refs ReferenceChecker, logger *zap.Logger, interval, retention time.Duration) (*Job, error) {
	if storage == nil {
		return nil, fmt.Errorf("object storage is nil")
	}
	if refs == nil {
		return nil, fmt.Errorf("reference checker is nil")
	}
	if interval <= 0 || retention <= 0 {
		return nil, fmt.Errorf("interval and retention must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		storage:   storage,
		refs:      refs,
		logger:    logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}, nil
}

// Run blocks until the context ends, sweeping on every tick.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := j.RunOnce(ctx)
			if err != nil {
				j.logger.Warn("media cleanup sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				j.logger.Info("media cleanup sweep done", zap.Int("removed", removed))
			}
		}
	}
}

// RunOnce sweeps the bucket a single time and reports how many orphans
// were removed.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	objects, err := j.storage.ListObjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("list media objects: %w", err)
	}

	cutoff := j.now().Add(-j.retention)
	removed := 0

	for _, object := range objects {
		if object.LastModified.After(cutoff) {
			continue
		}

		referenced, err := j.refs.MediaURLReferenced(ctx, object.URL)
		if err != nil {
			return removed, fmt.Errorf("check media reference: %w", err)
		}
		if referenced {
			continue
		}

		if err := j.storage.Remove(ctx, object.Key); err != nil {
			return removed, fmt.Errorf("remove orphaned object %s: %w", object.Key, err)
		}
		removed++
	}

	return removed, nil
}
