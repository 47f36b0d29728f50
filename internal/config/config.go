package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Lexicon holds the language-specific word tables used by phrase grouping.
type Lexicon struct {
	Prepositions  []string   `toml:"prepositions"`
	Articles      []string   `toml:"articles"`
	Phrases       [][]string `toml:"phrases"`
	StandAlone    []string   `toml:"stand_alone"`
	TerminalPunct string     `toml:"terminal_punctuation"`
	// CapitalExempt lists capitalized words that do not signal a new sentence.
	CapitalExempt []string `toml:"capital_exempt"`
}

// SubtitleSettings holds all cue grouping and timing parameters.
type SubtitleSettings struct {
	PhraseGapFrames   float64 `toml:"phrase_gap_frames"`
	ExtensionFrames   float64 `toml:"extension_frames"`
	MinDurationFrames float64 `toml:"min_duration_frames"`
	EmphasisFrames    float64 `toml:"emphasis_frames"`

	OverlapMS            float64 `toml:"overlap_ms"`
	MaxGapMS             float64 `toml:"max_gap_ms"`
	MaxCueMS             float64 `toml:"max_cue_ms"`
	PhraseGapToleranceMS float64 `toml:"phrase_gap_tolerance_ms"`
	PrepositionGapMS     float64 `toml:"preposition_gap_ms"`
	ShortWordRunes       int     `toml:"short_word_runes"`

	Separator       string `toml:"separator"`
	PlaceholderText string `toml:"placeholder_text"`

	Lexicon Lexicon `toml:"lexicon"`
}

// WhisperX configures the transcription subprocess.
type WhisperX struct {
	Binary        string  `toml:"binary"`
	Model         string  `toml:"model"`
	ComputeType   string  `toml:"compute_type"`
	Language      string  `toml:"language"`
	AlignModel    string  `toml:"align_model"`
	UseVAD        bool    `toml:"use_vad"`
	VADOnset      float64 `toml:"vad_onset"`
	VADOffset     float64 `toml:"vad_offset"`
	Diarize       bool    `toml:"diarize"`
	MinSpeakers   int     `toml:"min_speakers"`
	MaxSpeakers   int     `toml:"max_speakers"`
	HFToken       string  `toml:"hf_token"`
	BatchSize     int     `toml:"batch_size"`
	Temperature   float64 `toml:"temperature"`
	InitialPrompt string  `toml:"initial_prompt"`
}

// Batch configures folder and watch processing.
type Batch struct {
	InputDir        string `toml:"input_dir"`
	OutputDir       string `toml:"output_dir"`
	MaxConcurrent   int    `toml:"max_concurrent"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
	LedgerPath      string `toml:"ledger_path"`
	DebounceMS      int    `toml:"debounce_ms"`
}

// Config holds the full application configuration.
type Config struct {
	FPS      float64          `toml:"fps"`
	FFprobe  string           `toml:"ffprobe_binary"`
	Report   bool             `toml:"report"`
	Timing   SubtitleSettings `toml:"timing"`
	WhisperX WhisperX         `toml:"whisperx"`
	Batch    Batch            `toml:"batch"`
}

// DefaultLexicon returns the English grouping tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Prepositions: []string{"in", "on", "at", "to", "for", "of", "with", "by", "from", "into", "over", "under"},
		Articles:     []string{"a", "an", "the"},
		Phrases: [][]string{
			{"bit", "of"}, {"kind", "of"}, {"sort", "of"}, {"lot", "of"},
			{"out", "of"}, {"instead", "of"}, {"because", "of"},
			{"up", "to"}, {"used", "to"}, {"have", "to"}, {"want", "to"},
			{"going", "to"}, {"trying", "to"}, {"need", "to"},
			{"a", "little"}, {"a", "bit"}, {"the", "way"},
			{"in", "order"}, {"at", "all"}, {"of", "course"},
		},
		StandAlone:    []string{"Time", "Jail", "Prison", "Court", "Judge", "Police"},
		TerminalPunct: ".!?;:,—–-",
		CapitalExempt: []string{"I"},
	}
}

// DefaultSubtitleSettings returns the frame counts and fixed millisecond
// values tuned for editing-timeline subtitles.
func DefaultSubtitleSettings() SubtitleSettings {
	return SubtitleSettings{
		PhraseGapFrames:      5,
		ExtensionFrames:      2,
		MinDurationFrames:    2,
		EmphasisFrames:       6,
		OverlapMS:            10,
		MaxGapMS:             500,
		MaxCueMS:             3000,
		PhraseGapToleranceMS: 1,
		PrepositionGapMS:     1000,
		ShortWordRunes:       7,
		Separator:            " ",
		PlaceholderText:      "delete me",
		Lexicon:              DefaultLexicon(),
	}
}

// Default returns a Config with hardcoded defaults.
func Default() *Config {
	return &Config{
		FFprobe: "ffprobe",
		Timing:  DefaultSubtitleSettings(),
		WhisperX: WhisperX{
			Binary:      "whisperx",
			Model:       "large-v3",
			ComputeType: "float32",
			Language:    "en",
			AlignModel:  "WAV2VEC2_ASR_LARGE_LV60K_960H",
			UseVAD:      true,
			VADOnset:    0.500,
			VADOffset:   0.363,
			MinSpeakers: 1,
			MaxSpeakers: 4,
			BatchSize:   16,
		},
		Batch: Batch{
			InputDir:        "input",
			OutputDir:       "output",
			MaxConcurrent:   1,
			RateLimitPerMin: 0,
			DebounceMS:      2000,
		},
	}
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/framesrt/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults are returned instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("framesrt.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Batch.InputDir, err = expandPath(c.Batch.InputDir); err != nil {
		return fmt.Errorf("batch.input_dir: %w", err)
	}
	if c.Batch.OutputDir, err = expandPath(c.Batch.OutputDir); err != nil {
		return fmt.Errorf("batch.output_dir: %w", err)
	}
	if c.Batch.LedgerPath, err = expandPath(c.Batch.LedgerPath); err != nil {
		return fmt.Errorf("batch.ledger_path: %w", err)
	}
	c.WhisperX.Language = NormalizeLanguage(c.WhisperX.Language)
	c.FFprobe = strings.TrimSpace(c.FFprobe)
	if c.FFprobe == "" {
		c.FFprobe = "ffprobe"
	}
	c.WhisperX.Binary = strings.TrimSpace(c.WhisperX.Binary)
	if c.WhisperX.Binary == "" {
		c.WhisperX.Binary = "whisperx"
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
