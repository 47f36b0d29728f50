package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultFPS is returned when the frame rate cannot be detected.
const DefaultFPS = 23.976

// snapRates are broadcast rates reported by ffprobe as rationals
// (24000/1001 etc.) that are snapped to their conventional value.
var snapRates = []float64{23.976, 29.97, 59.94}

// OutputRunner runs a command and returns its stdout.
type OutputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// MediaInfo holds the probed properties used for subtitle timing.
type MediaInfo struct {
	FPS      float64
	Duration float64
	Codec    string
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName  string `json:"codec_name"`
		CodecType  string `json:"codec_type"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Prober wraps ffprobe.
type Prober struct {
	binary string
	run    OutputRunner
}

// NewProber returns a Prober for the given ffprobe binary ("" means ffprobe on PATH).
func NewProber(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary, run: execOutput}
}

// WithRunner replaces the subprocess (for testing).
func (p *Prober) WithRunner(run OutputRunner) {
	p.run = run
}

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
}

// ProbeMedia uses ffprobe to read the first video stream's frame rate and
// the container duration.
func (p *Prober) ProbeMedia(ctx context.Context, path string) (*MediaInfo, error) {
	out, err := p.run(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, _ := strconv.ParseFloat(probe.Format.Duration, 64)
	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		fps, err := ParseFrameRate(stream.RFrameRate)
		if err != nil {
			return nil, err
		}
		return &MediaInfo{FPS: SnapFrameRate(fps), Duration: dur, Codec: stream.CodecName}, nil
	}
	return nil, errors.New("no video stream found")
}

// FrameRate returns the detected frame rate, or DefaultFPS with a warning
// when probing fails.
func (p *Prober) FrameRate(ctx context.Context, path string) float64 {
	info, err := p.ProbeMedia(ctx, path)
	if err != nil {
		slog.Warn("could not detect frame rate, using default",
			"file", filepath.Base(path), "fps", DefaultFPS, "err", err)
		return DefaultFPS
	}
	return info.FPS
}

// ParseFrameRate parses an ffprobe rational such as "24000/1001" or "60/1".
func ParseFrameRate(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = "24000/1001"
	}
	num, den, found := strings.Cut(value, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", value, err)
	}
	d := 1.0
	if found {
		if d, err = strconv.ParseFloat(den, 64); err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", value, err)
		}
	}
	if d == 0 || n <= 0 {
		return 0, fmt.Errorf("invalid frame rate %q", value)
	}
	return n / d, nil
}

// SnapFrameRate maps near-NTSC rates to their conventional value and rounds
// everything else to three decimals.
func SnapFrameRate(fps float64) float64 {
	for _, rate := range snapRates {
		if math.Abs(fps-rate) < 0.01 {
			return rate
		}
	}
	return math.Round(fps*1000) / 1000
}

// IsVideoExtension returns true for the video extensions batch mode picks up.
func IsVideoExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".wmv", ".flv", ".3gp":
		return true
	}
	return false
}

// LogMediaInfo logs file size and probed media information.
func (p *Prober) LogMediaInfo(ctx context.Context, path string) *MediaInfo {
	stat, err := os.Stat(path)
	if err != nil {
		slog.Warn("cannot stat file", "path", path, "err", err)
		return nil
	}

	attrs := []any{"file", filepath.Base(path), "size", humanize.Bytes(uint64(stat.Size()))}
	info, err := p.ProbeMedia(ctx, path)
	if err == nil && info != nil {
		minutes := int(info.Duration) / 60
		seconds := int(info.Duration) % 60
		attrs = append(attrs,
			"duration", fmt.Sprintf("%02d:%02d", minutes, seconds),
			"codec", info.Codec,
			"fps", info.FPS)
	}
	slog.Info("media info", attrs...)
	return info
}
