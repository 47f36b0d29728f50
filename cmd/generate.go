package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"framesrt/internal/worker"
)

var generateCmd = &cobra.Command{
	Use:   "generate <transcript.json>",
	Short: "Convert an existing WhisperX JSON transcript to SRT",
	Long: `Generate reads a WhisperX JSON transcript with word-level timestamps and
writes <stem>_davinci.srt next to it, or into --output-dir. Without --fps
the frame rate defaults to 23.976.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	generateFlags  timingFlags
	generateOutput string
)

func init() {
	generateFlags.register(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output SRT path (default: <stem>_davinci.srt)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	absPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}

	if err := generateFlags.apply(cmd, cfg); err != nil {
		return err
	}
	opts := workerOptions(cfg)
	if !cmd.Flags().Changed("output-dir") {
		opts.OutputDir = ""
	}

	ctx, stop := signalContext()
	defer stop()

	out, err := worker.NewRunner(opts, nil, nil).Generate(ctx, absPath, generateOutput)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), out.SRTPath)
	}
	return nil
}
