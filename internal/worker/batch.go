package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"framesrt/internal/ffmpeg"
)

// ItemStatus is the outcome of one batch item.
type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemFailed    ItemStatus = "failed"
	ItemSkipped   ItemStatus = "skipped"
)

// Ledger records processed sources so unchanged files can be skipped.
type Ledger interface {
	Unchanged(ctx context.Context, source string, info os.FileInfo) (bool, error)
	RecordSuccess(ctx context.Context, source string, info os.FileInfo, srtPath string, fps float64, cues int) error
	RecordFailure(ctx context.Context, source string, info os.FileInfo, runErr error) error
}

// BatchOptions configures folder processing.
type BatchOptions struct {
	MaxConcurrent   int
	RateLimitPerMin int
	// Force reprocesses sources the ledger reports as unchanged.
	Force  bool
	Ledger Ledger
}

// Item is the result for one source in a batch.
type Item struct {
	Source  string
	Status  ItemStatus
	Output  *Output
	Err     error
	Elapsed time.Duration
}

// BatchResult collects every item of a batch run in input order.
type BatchResult struct {
	RunID string
	Items []Item
}

// Failed returns how many items failed.
func (b *BatchResult) Failed() int {
	n := 0
	for _, item := range b.Items {
		if item.Status == ItemFailed {
			n++
		}
	}
	return n
}

// DiscoverVideos lists the video files directly inside dir, sorted by name.
func DiscoverVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !ffmpeg.IsVideoExtension(filepath.Ext(entry.Name())) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		videos = append(videos, path)
	}
	sort.Strings(videos)
	return videos, nil
}

// RunBatch processes every source and never stops at the first failure.
// Sources run concurrently when MaxConcurrent is above one.
func (r *Runner) RunBatch(ctx context.Context, sources []string, bopts BatchOptions) *BatchResult {
	result := &BatchResult{
		RunID: uuid.NewString(),
		Items: make([]Item, len(sources)),
	}
	logger := slog.With("run", result.RunID)
	logger.Info("starting batch",
		"files", len(sources),
		"max_concurrent", bopts.MaxConcurrent,
		"rate_limit_rpm", bopts.RateLimitPerMin)

	if bopts.MaxConcurrent > 1 && len(sources) > 1 {
		r.processConcurrent(ctx, sources, bopts, result.Items, logger)
	} else {
		r.processSequential(ctx, sources, bopts, result.Items, logger)
	}

	logger.Info("batch complete", "files", len(sources), "failed", result.Failed())
	return result
}

// ProcessOne runs a single source through the ledger check and Video.
func (r *Runner) ProcessOne(ctx context.Context, source string, bopts BatchOptions) Item {
	return r.processItem(ctx, source, bopts, slog.Default())
}

func (r *Runner) processItem(ctx context.Context, source string, bopts BatchOptions, logger *slog.Logger) Item {
	started := time.Now()
	item := Item{Source: source}
	if err := ctx.Err(); err != nil {
		item.Status = ItemFailed
		item.Err = err
		return item
	}

	info, err := os.Stat(source)
	if err != nil {
		item.Status = ItemFailed
		item.Err = fmt.Errorf("stat source: %w", err)
		return item
	}

	if bopts.Ledger != nil && !bopts.Force {
		unchanged, err := bopts.Ledger.Unchanged(ctx, source, info)
		if err != nil {
			logger.Warn("ledger lookup failed", "file", filepath.Base(source), "err", err)
		} else if unchanged {
			logger.Info("skipping unchanged file", "file", filepath.Base(source))
			item.Status = ItemSkipped
			return item
		}
	}

	out, err := r.Video(ctx, source)
	item.Elapsed = time.Since(started)
	if err != nil {
		item.Status = ItemFailed
		item.Err = err
		logger.Error("file failed", "file", filepath.Base(source), "err", err)
		if bopts.Ledger != nil && !errors.Is(err, context.Canceled) {
			if lerr := bopts.Ledger.RecordFailure(ctx, source, info, err); lerr != nil {
				logger.Warn("ledger update failed", "file", filepath.Base(source), "err", lerr)
			}
		}
		return item
	}

	item.Status = ItemSucceeded
	item.Output = out
	logger.Info("file completed",
		"file", filepath.Base(source),
		"cues", out.Stats.Cues,
		"elapsed", item.Elapsed.Round(time.Millisecond))
	if bopts.Ledger != nil {
		if lerr := bopts.Ledger.RecordSuccess(ctx, source, info, out.SRTPath, out.FPS, out.Stats.Cues); lerr != nil {
			logger.Warn("ledger update failed", "file", filepath.Base(source), "err", lerr)
		}
	}
	return item
}
