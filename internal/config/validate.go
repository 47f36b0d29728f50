package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.FPS != 0 && !validFPS(c.FPS) {
		return fmt.Errorf("fps must be positive and finite, got %v", c.FPS)
	}
	if err := c.Timing.Validate(); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	if c.Batch.MaxConcurrent < 1 {
		return errors.New("batch.max_concurrent must be at least 1")
	}
	if c.Batch.RateLimitPerMin < 0 {
		return errors.New("batch.rate_limit_per_min must be zero (unlimited) or positive")
	}
	if c.Batch.DebounceMS < 0 {
		return errors.New("batch.debounce_ms must not be negative")
	}
	if c.WhisperX.Diarize && c.WhisperX.MinSpeakers > c.WhisperX.MaxSpeakers {
		return fmt.Errorf("whisperx.min_speakers (%d) exceeds max_speakers (%d)",
			c.WhisperX.MinSpeakers, c.WhisperX.MaxSpeakers)
	}
	return nil
}

// Validate checks frame counts, millisecond thresholds, and lexicon shape.
func (s *SubtitleSettings) Validate() error {
	frames := map[string]float64{
		"phrase_gap_frames":   s.PhraseGapFrames,
		"extension_frames":    s.ExtensionFrames,
		"min_duration_frames": s.MinDurationFrames,
		"emphasis_frames":     s.EmphasisFrames,
	}
	for name, v := range frames {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	if s.OverlapMS < 0 {
		return fmt.Errorf("overlap_ms must not be negative, got %v", s.OverlapMS)
	}
	if s.MaxGapMS < 0 {
		return fmt.Errorf("max_gap_ms must not be negative, got %v", s.MaxGapMS)
	}
	if s.MaxCueMS <= 0 {
		return fmt.Errorf("max_cue_ms must be positive, got %v", s.MaxCueMS)
	}
	if s.PhraseGapToleranceMS < 0 {
		return fmt.Errorf("phrase_gap_tolerance_ms must not be negative, got %v", s.PhraseGapToleranceMS)
	}
	if s.ShortWordRunes < 0 {
		return fmt.Errorf("short_word_runes must not be negative, got %d", s.ShortWordRunes)
	}
	if strings.TrimSpace(s.PlaceholderText) == "" {
		return errors.New("placeholder_text must not be empty")
	}
	for i, pair := range s.Lexicon.Phrases {
		if len(pair) != 2 {
			return fmt.Errorf("lexicon.phrases[%d] must hold exactly two words, got %d", i, len(pair))
		}
	}
	return nil
}

func validFPS(fps float64) bool {
	return fps > 0 && !math.IsNaN(fps) && !math.IsInf(fps, 0)
}
