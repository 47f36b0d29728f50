package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesrt/internal/config"
)

func TestBuildArgs_Defaults(t *testing.T) {
	svc := NewService(config.Default().WhisperX)
	args := strings.Join(svc.BuildArgs("/in/clip.mp4", "/out"), " ")

	assert.True(t, strings.HasPrefix(args, "/in/clip.mp4 --model large-v3 --output_dir /out --compute_type float32 --output_format json"))
	assert.Contains(t, args, "--align_model WAV2VEC2_ASR_LARGE_LV60K_960H")
	assert.Contains(t, args, "--language en")
	assert.Contains(t, args, "--vad_onset 0.5 --vad_offset 0.363")
	assert.Contains(t, args, "--batch_size 16 --temperature 0")
	assert.NotContains(t, args, "--diarize")
	assert.NotContains(t, args, "--initial_prompt")
}

func TestBuildArgs_Options(t *testing.T) {
	cfg := config.Default().WhisperX
	cfg.Language = "auto"
	cfg.AlignModel = ""
	cfg.UseVAD = false
	cfg.Diarize = true
	cfg.MinSpeakers = 2
	cfg.MaxSpeakers = 3
	cfg.HFToken = "hf_abc"
	cfg.InitialPrompt = "Acme, Kubernetes"
	args := NewService(cfg).BuildArgs("clip.mov", "out")

	joined := strings.Join(args, " ")
	assert.NotContains(t, joined, "--language")
	assert.NotContains(t, joined, "--align_model")
	assert.NotContains(t, joined, "--vad_onset")
	assert.Contains(t, joined, "--diarize --min_speakers 2 --max_speakers 3 --hf_token hf_abc")
	assert.Equal(t, "Acme, Kubernetes", args[len(args)-1])
}

func TestTranscribe_ReturnsJSONPath(t *testing.T) {
	outDir := t.TempDir()
	svc := NewService(config.Default().WhisperX)

	var gotName string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		return os.WriteFile(filepath.Join(outDir, "clip.json"), []byte(`{"segments":[]}`), 0o644)
	})

	path, err := svc.Transcribe(context.Background(), "/videos/clip.mp4", outDir)
	require.NoError(t, err)
	assert.Equal(t, "whisperx", gotName)
	assert.Equal(t, filepath.Join(outDir, "clip.json"), path)
}

func TestTranscribe_MissingOutput(t *testing.T) {
	svc := NewService(config.Default().WhisperX)
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error { return nil })

	_, err := svc.Transcribe(context.Background(), "clip.mp4", t.TempDir())
	assert.True(t, errors.Is(err, ErrOutputMissing))
}

func TestTranscribe_CommandFails(t *testing.T) {
	svc := NewService(config.Default().WhisperX)
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})

	_, err := svc.Transcribe(context.Background(), "clip.mp4", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}
