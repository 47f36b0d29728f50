package whisperx

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"framesrt/internal/config"
)

// ErrOutputMissing is returned when WhisperX exits cleanly without writing
// the expected JSON file.
var ErrOutputMissing = errors.New("whisperx output missing")

// tailLines is how much subprocess output is kept for error messages.
const tailLines = 20

// CommandRunner executes name with args. It replaces the subprocess in tests.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service provides WhisperX transcription.
type Service struct {
	cfg           config.WhisperX
	commandRunner CommandRunner
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg config.WhisperX) *Service {
	if cfg.Binary == "" {
		cfg.Binary = "whisperx"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// OutputPath returns where WhisperX writes the JSON transcript for source.
func OutputPath(source, outputDir string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, stem+".json")
}

// BuildArgs returns the WhisperX command-line arguments for source.
func (s *Service) BuildArgs(source, outputDir string) []string {
	cfg := s.cfg
	args := []string{
		source,
		"--model", cfg.Model,
		"--output_dir", outputDir,
		"--compute_type", cfg.ComputeType,
		"--output_format", "json",
	}
	if cfg.AlignModel != "" {
		args = append(args, "--align_model", cfg.AlignModel)
	}
	if lang := config.NormalizeLanguage(cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if cfg.UseVAD {
		args = append(args,
			"--vad_onset", formatFloat(cfg.VADOnset),
			"--vad_offset", formatFloat(cfg.VADOffset))
	}
	if cfg.Diarize {
		args = append(args,
			"--diarize",
			"--min_speakers", strconv.Itoa(cfg.MinSpeakers),
			"--max_speakers", strconv.Itoa(cfg.MaxSpeakers))
		if cfg.HFToken != "" {
			args = append(args, "--hf_token", cfg.HFToken)
		}
	}
	args = append(args,
		"--batch_size", strconv.Itoa(cfg.BatchSize),
		"--temperature", formatFloat(cfg.Temperature))
	if cfg.InitialPrompt != "" {
		args = append(args, "--initial_prompt", cfg.InitialPrompt)
	}
	return args
}

// Transcribe runs WhisperX on source and returns the path of the JSON
// transcript written into outputDir.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	args := s.BuildArgs(source, outputDir)
	slog.Info("running whisperx",
		"file", filepath.Base(source),
		"model", s.cfg.Model,
		"compute_type", s.cfg.ComputeType,
		"language", s.cfg.Language)
	if s.cfg.InitialPrompt != "" {
		slog.Info("using initial prompt", "chars", len(s.cfg.InitialPrompt))
	}

	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return "", fmt.Errorf("whisperx %s: %w", filepath.Base(source), err)
	}

	jsonPath := OutputPath(source, outputDir)
	if _, err := os.Stat(jsonPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, jsonPath)
	}
	slog.Info("whisperx completed", "json", jsonPath)
	return jsonPath, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	return runStreaming(ctx, name, args...)
}

// runStreaming runs the command, forwarding each output line to the debug
// log and keeping the last few lines for the error message.
func runStreaming(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return err
	}

	tail := make([]string, 0, tailLines)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			slog.Debug("whisperx", "line", line)
			if len(tail) == tailLines {
				tail = tail[1:]
			}
			tail = append(tail, line)
		}
		_, _ = io.Copy(io.Discard, pr)
	}()

	err := cmd.Wait()
	pw.Close()
	<-done
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.Join(tail, "\n"))
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
