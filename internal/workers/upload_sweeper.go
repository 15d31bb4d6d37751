package workers

import (
	"context"
	"minisocial/internal/ports/media"
	"time"

	"go.uber.org/zap"
)

// ImageReferences reports which image paths are still set on a post.
type ImageReferences interface {
	ReferencedImagePaths(ctx context.Context, paths []string) ([]string, error)
}

// Store is the part of the media store the sweeper needs.
type Store interface {
	media.Lister
	Delete(ctx context.Context, path string) error
}

// UploadSweeper removes uploaded files that no post points at any more, for
// example when a best-effort delete after account removal failed. Files
// younger than Grace are left alone: an upload is stored before the post row
// is updated.
type UploadSweeper struct {
	Store     Store
	Posts     ImageReferences
	Interval  time.Duration
	Grace     time.Duration
	BatchSize int
	Logger    *zap.Logger
	now       func() time.Time
}

func NewUploadSweeper(store Store, posts ImageReferences, interval, grace time.Duration, batchSize int, logger *zap.Logger) *UploadSweeper {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &UploadSweeper{
		Store:     store,
		Posts:     posts,
		Interval:  interval,
		Grace:     grace,
		BatchSize: batchSize,
		Logger:    logger,
		now:       time.Now,
	}
}

// Run sweeps once per Interval until ctx is cancelled.
func (w *UploadSweeper) Run(ctx context.Context) {
	w.Logger.Info("Upload sweeper started", zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("Upload sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
				w.Logger.Error("Upload sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one pass and returns the number of files removed.
func (w *UploadSweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := w.Store.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := w.now().Add(-w.Grace)
	var candidates []string
	for _, o := range objects {
		if o.ModTime.Before(cutoff) {
			candidates = append(candidates, o.Path)
		}
	}

	removed := 0
	for i := 0; i < len(candidates); i += w.BatchSize {
		end := min(i+w.BatchSize, len(candidates))
		n, err := w.sweepBatch(ctx, candidates[i:end])
		removed += n
		if err != nil {
			return removed, err
		}
	}
	if removed > 0 {
		w.Logger.Info("Removed orphaned uploads", zap.Int("count", removed))
	}
	return removed, nil
}

func (w *UploadSweeper) sweepBatch(ctx context.Context, batch []string) (int, error) {
	referenced, err := w.Posts.ReferencedImagePaths(ctx, batch)
	if err != nil {
		return 0, err
	}
	keep := make(map[string]bool, len(referenced))
	for _, p := range referenced {
		keep[p] = true
	}

	removed := 0
	for _, path := range batch {
		if keep[path] {
			continue
		}
		if err := w.Store.Delete(ctx, path); err != nil {
			w.Logger.Warn("Could not remove orphaned upload", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
