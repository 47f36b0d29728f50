package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"framesrt/internal/config"
	"framesrt/internal/ffmpeg"
	"framesrt/internal/fileutil"
	"framesrt/internal/pipeline"
	"framesrt/internal/report"
	"framesrt/internal/whisperx"
)

// srtSuffix is appended to the source stem for generated subtitle files.
const srtSuffix = "_davinci"

// Transcriber turns a media file into a word-level JSON transcript and
// returns the transcript path.
type Transcriber interface {
	Transcribe(ctx context.Context, source, outputDir string) (string, error)
}

// MediaProber reports media properties for a video file. It returns nil
// when the file cannot be probed.
type MediaProber interface {
	LogMediaInfo(ctx context.Context, path string) *ffmpeg.MediaInfo
}

// Options configures the worker.
type Options struct {
	// FPS overrides detection when positive.
	FPS       float64
	OutputDir string
	Report    bool
	Settings  *config.SubtitleSettings
}

// Output describes the files produced for one source.
type Output struct {
	Source     string
	SRTPath    string
	ReportPath string
	FPS        float64
	Stats      pipeline.Stats
}

// Runner produces subtitle files from transcripts or videos.
type Runner struct {
	opts        Options
	transcriber Transcriber
	prober      MediaProber
}

// NewRunner returns a Runner. transcriber and prober may be nil when only
// Generate is used.
func NewRunner(opts Options, transcriber Transcriber, prober MediaProber) *Runner {
	if opts.Settings == nil {
		settings := config.DefaultSubtitleSettings()
		opts.Settings = &settings
	}
	return &Runner{opts: opts, transcriber: transcriber, prober: prober}
}

// SRTPath returns the subtitle path for source inside outputDir.
func SRTPath(source, outputDir string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, stem+srtSuffix+".srt")
}

// ReportPath returns the timing report path that accompanies srtPath.
func ReportPath(srtPath string) string {
	return strings.TrimSuffix(srtPath, filepath.Ext(srtPath)) + ".yaml"
}

// Generate converts an existing WhisperX JSON transcript into SRT. An empty
// outputPath writes next to the transcript, or into the configured output
// directory when one is set.
func (r *Runner) Generate(ctx context.Context, jsonPath, outputPath string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if outputPath == "" {
		dir := r.opts.OutputDir
		if dir == "" {
			dir = filepath.Dir(jsonPath)
		}
		outputPath = SRTPath(jsonPath, dir)
	}

	fps := r.opts.FPS
	if fps <= 0 {
		fps = ffmpeg.DefaultFPS
		slog.Info("no frame rate given, using default", "fps", fps)
	}

	words, err := whisperx.LoadWords(jsonPath)
	if err != nil {
		return nil, err
	}
	return r.render(jsonPath, words, fps, outputPath)
}

// Video transcribes a video with WhisperX and writes its subtitles into the
// configured output directory.
func (r *Runner) Video(ctx context.Context, videoPath string) (*Output, error) {
	if r.transcriber == nil {
		return nil, errors.New("no transcriber configured")
	}
	outputDir := r.opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(videoPath)
	}

	fps := r.opts.FPS
	var info *ffmpeg.MediaInfo
	if r.prober != nil {
		info = r.prober.LogMediaInfo(ctx, videoPath)
	}
	if fps <= 0 {
		if info != nil && info.FPS > 0 {
			fps = info.FPS
		} else {
			fps = ffmpeg.DefaultFPS
			slog.Warn("could not detect frame rate, using default",
				"file", filepath.Base(videoPath), "fps", fps)
		}
	}

	jsonPath, err := r.transcriber.Transcribe(ctx, videoPath, outputDir)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	words, err := whisperx.LoadWords(jsonPath)
	if err != nil {
		return nil, err
	}
	return r.render(videoPath, words, fps, SRTPath(videoPath, outputDir))
}

func (r *Runner) render(source string, words []pipeline.Word, fps float64, srtPath string) (*Output, error) {
	if len(words) == 0 {
		slog.Warn("transcript has no timed words", "file", filepath.Base(source))
	}

	res, err := pipeline.Process(words, fps, r.opts.Settings)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", filepath.Base(source), err)
	}
	pipeline.LogTiming(res.Clock, r.opts.Settings)
	pipeline.LogStats(res.Stats)

	if err := fileutil.WriteFileAtomic(srtPath, []byte(res.SRT()), 0o644); err != nil {
		return nil, fmt.Errorf("write SRT file: %w", err)
	}
	slog.Info("SRT file saved", "path", srtPath, "cues", len(res.Entries))

	out := &Output{
		Source:  source,
		SRTPath: srtPath,
		FPS:     fps,
		Stats:   res.Stats,
	}

	if r.opts.Report {
		data, err := report.New(source, res).Marshal()
		if err != nil {
			return nil, err
		}
		out.ReportPath = ReportPath(srtPath)
		if err := fileutil.WriteFileAtomic(out.ReportPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("write timing report: %w", err)
		}
		slog.Info("timing report saved", "path", out.ReportPath)
	}
	return out, nil
}
