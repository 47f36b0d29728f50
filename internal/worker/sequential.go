package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// processSequential processes sources one at a time, writing each result
// into items at the source's index.
func (r *Runner) processSequential(ctx context.Context, sources []string, bopts BatchOptions, items []Item, logger *slog.Logger) {
	for i, source := range sources {
		logger.Info("processing file",
			"file", filepath.Base(source),
			"item", fmt.Sprintf("%d/%d", i+1, len(sources)))
		items[i] = r.processItem(ctx, source, bopts, logger)
	}
}
