package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"framesrt/internal/config"
)

var (
	verbose    bool
	quiet      bool
	configPath string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "framesrt",
	Short: "Generate frame-accurate SRT subtitles for editing timelines",
	Long: `framesrt turns WhisperX word timestamps into short one- or two-word
subtitle cues aligned to exact frame boundaries, with deliberate overlap
between adjacent cues so the timeline never shows a gap.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		if exists {
			slog.Debug("loaded config", "path", path)
		} else {
			slog.Debug("no config file found, using defaults", "path", path)
		}
		return nil
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/framesrt/config.toml or ./framesrt.toml)")
}
