package pipeline

import (
	"fmt"
	"log/slog"

	"framesrt/internal/config"
)

// Stats describes one pipeline run.
type Stats struct {
	Words       int
	Groups      GroupStats
	Cues        int
	Overlaps    int
	Placeholder bool
}

// OverlapPercent returns the share of adjacent cue pairs that overlap.
func (s Stats) OverlapPercent() float64 {
	if s.Cues < 2 {
		return 0
	}
	return float64(s.Overlaps) / float64(s.Cues-1) * 100
}

// Result carries every stage's output so callers can report on timing.
type Result struct {
	Clock   FrameClock
	Groups  []Group
	Cues    []ProcessedCue
	Entries []SubtitleEntry
	Stats   Stats
}

// SRT renders the result's entries.
func (r *Result) SRT() string {
	return ComposeSRT(r.Entries)
}

// Process runs grouping, timing, and emission over a validated word stream.
// An empty stream yields an empty result.
func Process(words []Word, fps float64, settings *config.SubtitleSettings) (*Result, error) {
	clock, err := NewFrameClock(fps, settings)
	if err != nil {
		return nil, err
	}
	if err := ValidateWords(words); err != nil {
		return nil, err
	}

	if clock.PhraseGapMS > settings.MaxGapMS {
		slog.Debug("max gap is below the phrase gap threshold; large-gap cues keep their source end",
			"max_gap_ms", settings.MaxGapMS,
			"phrase_gap_ms", clock.PhraseGapMS)
	}

	groups := NewPhraseGrouper(clock, settings).Group(words)
	cues := NewTimingAdjuster(clock, settings).Adjust(groups)
	entries := NewCueEmitter(clock, settings).Emit(cues)

	groupStats := SummarizeGroups(groups)
	if groupStats.WordsCovered != len(words) {
		return nil, fmt.Errorf("grouping covered %d of %d words", groupStats.WordsCovered, len(words))
	}

	res := &Result{
		Clock:   clock,
		Groups:  groups,
		Cues:    cues,
		Entries: entries,
		Stats: Stats{
			Words:       len(words),
			Groups:      groupStats,
			Cues:        len(cues),
			Overlaps:    CountOverlaps(cues),
			Placeholder: len(entries) > len(cues),
		},
	}
	return res, nil
}

// LogTiming logs the frame-derived thresholds for clock.
func LogTiming(clock FrameClock, settings *config.SubtitleSettings) {
	slog.Info("frame timing",
		"fps", clock.FPS,
		"frame_ms", fmt.Sprintf("%.3f", clock.FrameMS),
		"phrase_gap_ms", fmt.Sprintf("%.3f", clock.PhraseGapMS),
		"phrase_gap_frames", settings.PhraseGapFrames,
		"extension_ms", fmt.Sprintf("%.3f", clock.ExtensionMS),
		"min_duration_ms", fmt.Sprintf("%.3f", clock.MinDurationMS),
		"emphasis_ms", fmt.Sprintf("%.3f", clock.EmphasisMS))
}

// LogStats logs run statistics.
func LogStats(s Stats) {
	slog.Info("grouped words",
		"words", s.Words,
		"groups", s.Groups.Groups,
		"two_word", s.Groups.TwoWord,
		"single_word", s.Groups.SingleWord)
	slog.Info("timed cues",
		"cues", s.Cues,
		"overlapping", s.Overlaps,
		"overlap_pct", fmt.Sprintf("%.1f%%", s.OverlapPercent()),
		"placeholder", s.Placeholder)
}
