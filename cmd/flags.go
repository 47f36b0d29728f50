package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"framesrt/internal/config"
	"framesrt/internal/worker"
)

// timingFlags override config values for a single run. Only flags the user
// actually set are applied, so config file values survive.
type timingFlags struct {
	fps         float64
	outputDir   string
	report      bool
	phraseGap   float64
	extension   float64
	minDuration float64
	emphasis    float64
	overlapMS   float64
	maxGapMS    float64
	maxCueMS    float64
	placeholder string
}

func (f *timingFlags) register(cmd *cobra.Command) {
	defaults := config.Default()
	t := defaults.Timing

	fl := cmd.Flags()
	fl.Float64Var(&f.fps, "fps", 0, "frame rate (default: detect with ffprobe, else 23.976)")
	fl.StringVarP(&f.outputDir, "output-dir", "d", "", "directory for generated files")
	fl.BoolVar(&f.report, "report", false, "write a YAML timing report next to each SRT")

	// Timing tuning flags.
	fl.Float64Var(&f.phraseGap, "phrase-gap-frames", t.PhraseGapFrames, "gap in frames that marks a clean phrase boundary")
	fl.Float64Var(&f.extension, "extension-frames", t.ExtensionFrames, "frames a cue is extended past a phrase boundary")
	fl.Float64Var(&f.minDuration, "min-duration-frames", t.MinDurationFrames, "minimum cue length in frames")
	fl.Float64Var(&f.emphasis, "emphasis-frames", t.EmphasisFrames, "words longer than this many frames stay alone")
	fl.Float64Var(&f.overlapMS, "overlap-ms", t.OverlapMS, "overlap into the next cue in milliseconds")
	fl.Float64Var(&f.maxGapMS, "max-gap-ms", t.MaxGapMS, "largest gap bridged by merging or overlap")
	fl.Float64Var(&f.maxCueMS, "max-cue-ms", t.MaxCueMS, "maximum overlapped cue length in milliseconds")
	fl.StringVar(&f.placeholder, "placeholder", t.PlaceholderText, "text of the leading placeholder cue")
}

// apply copies changed flags into c and re-validates it.
func (f *timingFlags) apply(cmd *cobra.Command, c *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("fps") {
		c.FPS = f.fps
	}
	if fl.Changed("output-dir") {
		c.Batch.OutputDir = f.outputDir
	}
	if fl.Changed("report") {
		c.Report = f.report
	}
	t := &c.Timing
	if fl.Changed("phrase-gap-frames") {
		t.PhraseGapFrames = f.phraseGap
	}
	if fl.Changed("extension-frames") {
		t.ExtensionFrames = f.extension
	}
	if fl.Changed("min-duration-frames") {
		t.MinDurationFrames = f.minDuration
	}
	if fl.Changed("emphasis-frames") {
		t.EmphasisFrames = f.emphasis
	}
	if fl.Changed("overlap-ms") {
		t.OverlapMS = f.overlapMS
	}
	if fl.Changed("max-gap-ms") {
		t.MaxGapMS = f.maxGapMS
	}
	if fl.Changed("max-cue-ms") {
		t.MaxCueMS = f.maxCueMS
	}
	if fl.Changed("placeholder") {
		t.PlaceholderText = f.placeholder
	}
	return c.Validate()
}

// whisperxFlags override the transcription settings.
type whisperxFlags struct {
	model         string
	language      string
	computeType   string
	initialPrompt string
	diarize       bool
}

func (f *whisperxFlags) register(cmd *cobra.Command) {
	w := config.Default().WhisperX
	fl := cmd.Flags()
	fl.StringVarP(&f.model, "model", "m", w.Model, "WhisperX model")
	fl.StringVarP(&f.language, "language", "l", w.Language, "spoken language (ISO 639 code, or auto)")
	fl.StringVar(&f.computeType, "compute-type", w.ComputeType, "WhisperX compute type")
	fl.StringVar(&f.initialPrompt, "initial-prompt", "", "prompt with names and terms to bias recognition")
	fl.BoolVar(&f.diarize, "diarize", w.Diarize, "enable speaker diarization")
}

func (f *whisperxFlags) apply(cmd *cobra.Command, c *config.Config) {
	fl := cmd.Flags()
	w := &c.WhisperX
	if fl.Changed("model") {
		w.Model = f.model
	}
	if fl.Changed("language") {
		w.Language = config.NormalizeLanguage(f.language)
	}
	if fl.Changed("compute-type") {
		w.ComputeType = f.computeType
	}
	if fl.Changed("initial-prompt") {
		w.InitialPrompt = f.initialPrompt
	}
	if fl.Changed("diarize") {
		w.Diarize = f.diarize
	}
}

func workerOptions(c *config.Config) worker.Options {
	return worker.Options{
		FPS:       c.FPS,
		OutputDir: c.Batch.OutputDir,
		Report:    c.Report,
		Settings:  &c.Timing,
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
