package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesrt/internal/config"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(tempHome, ".config", "framesrt", "config.toml"), resolved)

	def := config.DefaultSubtitleSettings()
	assert.Equal(t, def.PhraseGapFrames, cfg.Timing.PhraseGapFrames)
	assert.Equal(t, "delete me", cfg.Timing.PlaceholderText)
	assert.Equal(t, "whisperx", cfg.WhisperX.Binary)
	assert.Equal(t, "en", cfg.WhisperX.Language)
	assert.Equal(t, 1, cfg.Batch.MaxConcurrent)
	assert.True(t, filepath.IsAbs(cfg.Batch.InputDir))
	assert.Zero(t, cfg.FPS)
}

func TestLoadOverridesAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "framesrt.toml")
	content := `
fps = 29.97
report = true

[timing]
overlap_ms = 20
separator = "_"

[timing.lexicon]
articles = ["der", "die", "das"]
phrases = [["zum", "Beispiel"]]
stand_alone = ["Polizei"]

[whisperx]
model = "medium"
language = "deu"

[batch]
input_dir = "~/clips"
max_concurrent = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, 29.97, cfg.FPS)
	assert.True(t, cfg.Report)
	assert.Equal(t, 20.0, cfg.Timing.OverlapMS)
	assert.Equal(t, "_", cfg.Timing.Separator)
	// Untouched keys keep their defaults.
	assert.Equal(t, 500.0, cfg.Timing.MaxGapMS)
	assert.Equal(t, []string{"der", "die", "das"}, cfg.Timing.Lexicon.Articles)
	assert.Equal(t, [][]string{{"zum", "Beispiel"}}, cfg.Timing.Lexicon.Phrases)
	assert.NotEmpty(t, cfg.Timing.Lexicon.Prepositions)
	assert.Equal(t, "medium", cfg.WhisperX.Model)
	assert.Equal(t, "de", cfg.WhisperX.Language)
	assert.Equal(t, filepath.Join(tempHome, "clips"), cfg.Batch.InputDir)
	assert.Equal(t, 2, cfg.Batch.MaxConcurrent)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framesrt.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timing]\nframes_per_gap = 3\n"), 0o644))

	_, _, _, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative fps", func(c *config.Config) { c.FPS = -24 }, "fps"},
		{"zero min duration", func(c *config.Config) { c.Timing.MinDurationFrames = 0 }, "min_duration_frames"},
		{"negative overlap", func(c *config.Config) { c.Timing.OverlapMS = -1 }, "overlap_ms"},
		{"empty placeholder", func(c *config.Config) { c.Timing.PlaceholderText = "  " }, "placeholder_text"},
		{"three word phrase", func(c *config.Config) {
			c.Timing.Lexicon.Phrases = append(c.Timing.Lexicon.Phrases, []string{"as", "well", "as"})
		}, "lexicon.phrases"},
		{"no workers", func(c *config.Config) { c.Batch.MaxConcurrent = 0 }, "max_concurrent"},
		{"speaker range", func(c *config.Config) {
			c.WhisperX.Diarize = true
			c.WhisperX.MinSpeakers = 5
		}, "min_speakers"},
	}

	require.NoError(t, config.Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"auto":  "",
		"None":  "",
		"en":    "en",
		"EN-us": "en",
		"pt_BR": "pt",
		"eng":   "en",
		"ger":   "de",
		"jpn":   "ja",
		"xx":    "xx",
	}
	for in, want := range tests {
		assert.Equal(t, want, config.NormalizeLanguage(in), "input %q", in)
	}
}
