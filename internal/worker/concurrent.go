package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// processConcurrent processes sources with bounded parallelism. When
// RateLimitPerMin is positive, job starts are paced to that rate. Items
// that fail while others succeed are retried once sequentially, since
// parallel WhisperX runs can exhaust GPU memory.
func (r *Runner) processConcurrent(ctx context.Context, sources []string, bopts BatchOptions, items []Item, logger *slog.Logger) {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if bopts.RateLimitPerMin > 0 {
		// Tokens per second = RPM / 60.
		limiter = rate.NewLimiter(rate.Limit(float64(bopts.RateLimitPerMin)/60.0), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bopts.MaxConcurrent)

	for i, source := range sources {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				items[i] = Item{Source: source, Status: ItemFailed, Err: fmt.Errorf("rate limiter: %w", err)}
				return nil
			}
			logger.Info("starting file",
				"file", filepath.Base(source),
				"item", fmt.Sprintf("%d/%d", i+1, len(sources)))
			items[i] = r.processItem(gctx, source, bopts, logger)
			return nil
		})
	}
	// Item errors are recorded per item; the group itself never fails.
	_ = g.Wait()

	var failed []int
	succeeded := 0
	for i, item := range items {
		switch item.Status {
		case ItemFailed:
			failed = append(failed, i)
		case ItemSucceeded:
			succeeded++
		}
	}
	if len(failed) == 0 || succeeded == 0 || ctx.Err() != nil {
		return
	}

	logger.Warn("concurrent processing partially failed, retrying sequentially",
		"failed", len(failed),
		"total", len(sources),
		"failure_pct", fmt.Sprintf("%.0f%%", float64(len(failed))/float64(len(sources))*100))
	for _, i := range failed {
		if ctx.Err() != nil {
			return
		}
		logger.Info("sequential retry", "file", filepath.Base(sources[i]))
		items[i] = r.processItem(ctx, sources[i], bopts, logger)
	}
}
