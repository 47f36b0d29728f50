package pipeline

import (
	"math"
	"time"

	"framesrt/internal/config"
)

// CueEmitter numbers cues as subtitle entries, inserting a placeholder
// from zero when dialogue starts later.
type CueEmitter struct {
	clock       FrameClock
	overlapMS   float64
	placeholder string
}

// NewCueEmitter creates an emitter from settings and a frame clock.
func NewCueEmitter(clock FrameClock, settings *config.SubtitleSettings) *CueEmitter {
	return &CueEmitter{
		clock:       clock,
		overlapMS:   settings.OverlapMS,
		placeholder: settings.PlaceholderText,
	}
}

// Emit returns entries indexed 1..N with no gaps.
func (e *CueEmitter) Emit(cues []ProcessedCue) []SubtitleEntry {
	if len(cues) == 0 {
		return nil
	}

	entries := make([]SubtitleEntry, 0, len(cues)+1)
	if first := cues[0]; first.StartMS > 0 {
		end := first.StartMS - e.overlapMS
		if end < e.clock.MinDurationMS {
			end = e.clock.MinDurationMS
		}
		end = e.clock.AlignNearest(end)
		entries = append(entries, SubtitleEntry{
			Index:   1,
			Start:   0,
			End:     msToDuration(end),
			Content: e.placeholder,
		})
	}

	for _, cue := range cues {
		entries = append(entries, SubtitleEntry{
			Index:   len(entries) + 1,
			Start:   msToDuration(cue.StartMS),
			End:     msToDuration(cue.EndMS),
			Content: cue.Text,
		})
	}
	return entries
}

// msToDuration converts milliseconds to a Duration at microsecond
// resolution, rounding halves to even.
func msToDuration(ms float64) time.Duration {
	return time.Duration(math.RoundToEven(ms*1000)) * time.Microsecond
}
