package pipeline

import (
	"log/slog"
	"math"

	"framesrt/internal/config"
)

// TimingAdjuster turns groups into frame-aligned cues. Adjacent cues are
// allowed to overlap.
type TimingAdjuster struct {
	clock       FrameClock
	overlapMS   float64
	maxGapMS    float64
	maxCueMS    float64
	toleranceMS float64
}

// NewTimingAdjuster creates an adjuster from settings and a frame clock.
func NewTimingAdjuster(clock FrameClock, settings *config.SubtitleSettings) *TimingAdjuster {
	return &TimingAdjuster{
		clock:       clock,
		overlapMS:   settings.OverlapMS,
		maxGapMS:    settings.MaxGapMS,
		maxCueMS:    settings.MaxCueMS,
		toleranceMS: settings.PhraseGapToleranceMS,
	}
}

// Adjust returns one cue per group, in order. Each cue's end depends on the
// next group's original start, so this is a single forward pass.
func (a *TimingAdjuster) Adjust(groups []Group) []ProcessedCue {
	if len(groups) == 0 {
		return nil
	}

	cues := make([]ProcessedCue, 0, len(groups))
	for i := range groups {
		var next *Group
		if i+1 < len(groups) {
			next = &groups[i+1]
		}
		cues = append(cues, a.adjustOne(groups[i], next))
	}
	return cues
}

// adjustOne computes timing for group given its successor (nil for the last).
func (a *TimingAdjuster) adjustOne(group Group, next *Group) ProcessedCue {
	c := a.clock
	start := c.AlignNearest(group.StartMS)
	end := c.AlignNearest(group.EndMS)
	if end-start < c.MinDurationMS {
		end = start + c.MinDurationMS
	}

	cue := ProcessedCue{
		Text:          group.Text,
		StartMS:       start,
		OriginalStart: group.OriginalStart,
		OriginalEnd:   group.OriginalEnd,
		WordCount:     group.WordCount,
	}

	if next == nil {
		end = c.AlignNearest(group.OriginalEnd)
		cue.Strategy = StrategyLastGroup
	} else {
		gap := next.OriginalStart - group.OriginalEnd
		cue.OriginalGap = &gap

		switch {
		case math.Abs(gap-c.PhraseGapMS) <= a.toleranceMS:
			// Clean phrase gap: end a fixed extension before the next phrase.
			end = c.AlignNearest(next.OriginalStart - c.ExtensionMS)
			cue.Strategy = StrategyPhraseBoundary
		case gap > c.PhraseGapMS:
			end = c.AlignNearest(group.OriginalEnd + c.ExtensionMS)
			cue.Strategy = StrategyPhraseBoundary
		case gap <= a.maxGapMS:
			end = c.AlignCeil(c.AlignNearest(next.OriginalStart) + a.overlapMS)
			if end-start > a.maxCueMS {
				end = start + a.maxCueMS
			}
			cue.Strategy = StrategySeamlessOverlap
		default:
			// Only reachable when max_gap_ms is configured below the phrase gap.
			slog.Debug("gap exceeds max gap below phrase threshold, keeping source end",
				"text", group.Text,
				"gap_ms", gap,
				"max_gap_ms", a.maxGapMS,
				"phrase_gap_ms", c.PhraseGapMS)
			end = c.AlignNearest(group.OriginalEnd)
			cue.Strategy = StrategySeamlessOverlap
		}
	}

	if end-start < c.MinDurationMS {
		end = start + c.MinDurationMS
	}
	cue.EndMS = end
	return cue
}

// CountOverlaps returns how many adjacent cue pairs overlap in time.
func CountOverlaps(cues []ProcessedCue) int {
	overlaps := 0
	for i := 0; i+1 < len(cues); i++ {
		if cues[i].EndMS > cues[i+1].StartMS {
			overlaps++
		}
	}
	return overlaps
}
