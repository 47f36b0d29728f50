package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framesrt/internal/ffmpeg"
)

var fpsCmd = &cobra.Command{
	Use:   "fps <video>",
	Short: "Print the frame rate subtitles would be aligned to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return fmt.Errorf("file not found: %s", args[0])
		}
		ctx, stop := signalContext()
		defer stop()

		fps := ffmpeg.NewProber(cfg.FFprobe).FrameRate(ctx, args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "%.3f\n", fps)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fpsCmd)
}
