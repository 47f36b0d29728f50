package pipeline

import "time"

// Word is one timed token from the transcription engine.
type Word struct {
	Text    string  `json:"text"`
	StartMS float64 `json:"start_ms"`
	EndMS   float64 `json:"end_ms"`
}

// Duration returns the spoken length of the word in milliseconds.
func (w Word) Duration() float64 {
	return w.EndMS - w.StartMS
}

// Group is one or two adjacent words that will become a single cue.
// StartMS/EndMS are not yet frame aligned.
type Group struct {
	Text          string
	StartMS       float64
	EndMS         float64
	OriginalStart float64
	OriginalEnd   float64
	WordCount     int
}

// TimingStrategy names the rule that produced a cue's end time.
type TimingStrategy string

const (
	StrategyPhraseBoundary  TimingStrategy = "phrase_boundary"
	StrategySeamlessOverlap TimingStrategy = "seamless_overlap"
	StrategyLastGroup       TimingStrategy = "last_group"
)

// ProcessedCue is a group with frame-aligned timing applied.
type ProcessedCue struct {
	Text          string         `yaml:"text"`
	StartMS       float64        `yaml:"start_ms"`
	EndMS         float64        `yaml:"end_ms"`
	OriginalStart float64        `yaml:"original_start"`
	OriginalEnd   float64        `yaml:"original_end"`
	WordCount     int            `yaml:"word_count"`
	Strategy      TimingStrategy `yaml:"timing_strategy"`
	// OriginalGap is nil for the last cue.
	OriginalGap *float64 `yaml:"original_gap"`
}

// SubtitleEntry represents one numbered SRT block.
type SubtitleEntry struct {
	Index   int
	Start   time.Duration
	End     time.Duration
	Content string
}
