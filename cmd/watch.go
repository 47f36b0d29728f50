package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"framesrt/internal/ffmpeg"
	"framesrt/internal/watcher"
	"framesrt/internal/worker"
)

var watchCmd = &cobra.Command{
	Use:   "watch [input-dir]",
	Short: "Process existing videos, then watch the folder for new ones",
	Long: `Watch first processes every video already in the input folder, then
waits for new or changed videos. A file is processed once it has not
changed for the configured debounce interval. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var (
	watchTiming   timingFlags
	watchWhisperX whisperxFlags
	watchFolder   batchFlags
	watchDebounce time.Duration
)

func init() {
	watchTiming.register(watchCmd)
	watchWhisperX.register(watchCmd)
	watchFolder.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before a changed file is processed (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	inputDir, err := prepareFolder(cmd, args, &watchTiming, &watchWhisperX, &watchFolder)
	if err != nil {
		return err
	}

	l, err := watchFolder.openLedger(cfg)
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
	}

	ctx, stop := signalContext()
	defer stop()

	runner := newVideoRunner()
	bopts := watchFolder.options(cfg, l)

	existing, err := worker.DiscoverVideos(inputDir)
	if err == nil && len(existing) > 0 {
		result := runner.RunBatch(ctx, existing, bopts)
		if !quiet {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, worker.RenderSummary(result, worker.ShouldColorize(out)))
		}
	}

	debounce := time.Duration(cfg.Batch.DebounceMS) * time.Millisecond
	if cmd.Flags().Changed("debounce") {
		debounce = watchDebounce
	}

	w := watcher.New(inputDir, debounce,
		func(path string) bool { return ffmpeg.IsVideoExtension(filepath.Ext(path)) },
		func(ctx context.Context, path string) {
			item := runner.ProcessOne(ctx, path, bopts)
			if item.Status == worker.ItemFailed {
				slog.Error("watch: file failed", "file", filepath.Base(path), "err", item.Err)
			}
		})
	return w.Run(ctx)
}
