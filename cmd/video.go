package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"framesrt/internal/ffmpeg"
	"framesrt/internal/whisperx"
	"framesrt/internal/worker"
)

var videoCmd = &cobra.Command{
	Use:   "video <input-file>",
	Short: "Transcribe one video with WhisperX and write SRT subtitles",
	Long: `Video detects the frame rate with ffprobe, runs WhisperX to get word
timestamps, and writes <stem>_davinci.srt into the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

var (
	videoFlags    timingFlags
	videoWhisperX whisperxFlags
)

func init() {
	videoFlags.register(videoCmd)
	videoWhisperX.register(videoCmd)
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) error {
	absPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}
	if !ffmpeg.IsVideoExtension(filepath.Ext(absPath)) {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(absPath))
	}

	if err := videoFlags.apply(cmd, cfg); err != nil {
		return err
	}
	videoWhisperX.apply(cmd, cfg)

	ctx, stop := signalContext()
	defer stop()

	runner := worker.NewRunner(workerOptions(cfg),
		whisperx.NewService(cfg.WhisperX),
		ffmpeg.NewProber(cfg.FFprobe))
	out, err := runner.Video(ctx, absPath)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), out.SRTPath)
	}
	return nil
}
