package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"framesrt/internal/config"
	"framesrt/internal/ffmpeg"
	"framesrt/internal/ledger"
	"framesrt/internal/whisperx"
	"framesrt/internal/worker"
)

// ledgerFile is the default ledger name inside the output directory.
const ledgerFile = ".framesrt.db"

var batchCmd = &cobra.Command{
	Use:   "batch [input-dir]",
	Short: "Generate subtitles for every video in a folder",
	Long: `Batch processes every video directly inside the input folder (default
from config). Files already processed with the same size and modification
time are skipped unless --force is given. A failed file does not stop the
batch; the command exits non-zero if any file failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

var (
	batchTiming   timingFlags
	batchWhisperX whisperxFlags
	folderFlags   batchFlags
)

// batchFlags are shared by batch and watch.
type batchFlags struct {
	jobs      int
	rateLimit int
	force     bool
	noLedger  bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	b := config.Default().Batch
	fl := cmd.Flags()
	fl.IntVarP(&f.jobs, "jobs", "j", b.MaxConcurrent, "files processed concurrently")
	fl.IntVar(&f.rateLimit, "rate-limit", b.RateLimitPerMin, "max file starts per minute (0 = unlimited)")
	fl.BoolVar(&f.force, "force", false, "reprocess files the ledger reports as unchanged")
	fl.BoolVar(&f.noLedger, "no-ledger", false, "do not read or record processed files")
}

func (f *batchFlags) apply(cmd *cobra.Command, c *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("jobs") {
		c.Batch.MaxConcurrent = f.jobs
	}
	if fl.Changed("rate-limit") {
		c.Batch.RateLimitPerMin = f.rateLimit
	}
	return c.Validate()
}

// openLedger opens the configured ledger, or returns nil when disabled.
func (f *batchFlags) openLedger(c *config.Config) (*ledger.Ledger, error) {
	if f.noLedger {
		return nil, nil
	}
	path := c.Batch.LedgerPath
	if path == "" {
		path = filepath.Join(c.Batch.OutputDir, ledgerFile)
	}
	l, err := ledger.Open(path, slog.Default())
	if err != nil {
		return nil, err
	}
	slog.Debug("ledger opened", "path", path)
	return l, nil
}

func (f *batchFlags) options(c *config.Config, l *ledger.Ledger) worker.BatchOptions {
	opts := worker.BatchOptions{
		MaxConcurrent:   c.Batch.MaxConcurrent,
		RateLimitPerMin: c.Batch.RateLimitPerMin,
		Force:           f.force,
	}
	// A nil *ledger.Ledger must not become a non-nil interface.
	if l != nil {
		opts.Ledger = l
	}
	return opts
}

func init() {
	batchTiming.register(batchCmd)
	batchWhisperX.register(batchCmd)
	folderFlags.register(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

// prepareFolder applies flags and resolves the input directory.
func prepareFolder(cmd *cobra.Command, args []string, timing *timingFlags, wx *whisperxFlags, folder *batchFlags) (string, error) {
	if err := timing.apply(cmd, cfg); err != nil {
		return "", err
	}
	wx.apply(cmd, cfg)
	if err := folder.apply(cmd, cfg); err != nil {
		return "", err
	}

	inputDir := cfg.Batch.InputDir
	if len(args) == 1 {
		inputDir = args[0]
	}
	absDir, err := filepath.Abs(inputDir)
	if err != nil {
		return "", fmt.Errorf("resolve input dir: %w", err)
	}
	return absDir, nil
}

func newVideoRunner() *worker.Runner {
	return worker.NewRunner(workerOptions(cfg),
		whisperx.NewService(cfg.WhisperX),
		ffmpeg.NewProber(cfg.FFprobe))
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir, err := prepareFolder(cmd, args, &batchTiming, &batchWhisperX, &folderFlags)
	if err != nil {
		return err
	}

	videos, err := worker.DiscoverVideos(inputDir)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		slog.Warn("no video files found", "dir", inputDir)
		return nil
	}

	l, err := folderFlags.openLedger(cfg)
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
	}

	ctx, stop := signalContext()
	defer stop()

	result := newVideoRunner().RunBatch(ctx, videos, folderFlags.options(cfg, l))

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, worker.RenderSummary(result, worker.ShouldColorize(out)))
	}
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(result.Items))
	}
	return ctx.Err()
}
