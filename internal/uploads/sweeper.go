package uploads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/logger"
)

const sweepBatchSize = 100

type staleLister interface {
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Upload, error)
	MarkOrphaned(ctx context.Context, ids []uuid.UUID) error
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, bucket, object string) error
	DefaultBucket() string
}

// Sweeper reclaims pending uploads whose session never checked out. Stale
// objects are deleted from storage and their rows flagged orphaned.
type Sweeper struct {
	repo     staleLister
	storage  objectDeleter
	maxAge   time.Duration
	interval time.Duration
	logg     *logger.Logger
}

func NewSweeper(repo staleLister, storage objectDeleter, maxAge, interval time.Duration, logg *logger.Logger) (*Sweeper, error) {
	if repo == nil {
		return nil, fmt.Errorf("sweeper requires a repository")
	}
	if storage == nil {
		return nil, fmt.Errorf("sweeper requires a storage client")
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("sweeper requires a positive max age")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sweeper requires a positive interval")
	}
	if logg == nil {
		return nil, fmt.Errorf("sweeper requires a logger")
	}
	return &Sweeper{
		repo:     repo,
		storage:  storage,
		maxAge:   maxAge,
		interval: interval,
		logg:     logg,
	}, nil
}

// Run sweeps on the configured interval until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "upload sweeper stopped")
			return
		case <-ticker.C:
			swept, err := s.SweepOnce(ctx)
			if err != nil {
				s.logg.Error(ctx, "upload sweep failed", err)
				continue
			}
			if swept > 0 {
				logCtx := s.logg.WithField(ctx, "swept", swept)
				s.logg.Info(logCtx, "orphaned uploads reclaimed")
			}
		}
	}
}

// SweepOnce reclaims one batch of stale pending uploads and reports how many
// rows it flagged. An object delete failure skips the row so a later sweep
// retries it.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.maxAge)
	stale, err := s.repo.ListStalePending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	orphaned := make([]uuid.UUID, 0, len(stale))
	for _, upload := range stale {
		if err := s.storage.DeleteObject(ctx, s.storage.DefaultBucket(), upload.ObjectPath); err != nil {
			logCtx := s.logg.WithField(ctx, "upload_id", upload.ID.String())
			s.logg.Warn(logCtx, "stale upload object delete failed")
			continue
		}
		orphaned = append(orphaned, upload.ID)
	}
	if len(orphaned) == 0 {
		return 0, nil
	}

	if err := s.repo.MarkOrphaned(ctx, orphaned); err != nil {
		return 0, err
	}
	return len(orphaned), nil
}
