package pipeline

import (
	"fmt"
	"math"

	"framesrt/internal/config"
)

// alignEpsilon absorbs floating-point noise when a value already sits on a
// frame boundary, expressed in frames.
const alignEpsilon = 1e-9

// FrameClock converts between raw milliseconds and frame boundaries for a
// fixed frame rate, and carries the frame-derived thresholds.
type FrameClock struct {
	FPS           float64
	FrameMS       float64
	PhraseGapMS   float64
	ExtensionMS   float64
	MinDurationMS float64
	EmphasisMS    float64
}

// NewFrameClock derives millisecond thresholds from the frame counts in settings.
func NewFrameClock(fps float64, settings *config.SubtitleSettings) (FrameClock, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return FrameClock{}, fmt.Errorf("%w: fps must be positive and finite, got %v", ErrContractViolation, fps)
	}
	frame := 1000.0 / fps
	return FrameClock{
		FPS:           fps,
		FrameMS:       frame,
		PhraseGapMS:   settings.PhraseGapFrames * frame,
		ExtensionMS:   settings.ExtensionFrames * frame,
		MinDurationMS: settings.MinDurationFrames * frame,
		EmphasisMS:    settings.EmphasisFrames * frame,
	}, nil
}

// AlignNearest rounds ms to the nearest frame boundary. Exact halves round to
// the even frame number.
func (c FrameClock) AlignNearest(ms float64) float64 {
	return math.RoundToEven(ms/c.FrameMS) * c.FrameMS
}

// AlignCeil rounds ms up to the next frame boundary. Values already on a
// boundary are returned unchanged.
func (c FrameClock) AlignCeil(ms float64) float64 {
	frames := ms / c.FrameMS
	nearest := math.RoundToEven(frames)
	if math.Abs(frames-nearest) <= alignEpsilon {
		return nearest * c.FrameMS
	}
	return math.Ceil(frames) * c.FrameMS
}

// Frames returns the number of whole frames in ms, rounded to nearest.
func (c FrameClock) Frames(ms float64) int64 {
	return int64(math.RoundToEven(ms / c.FrameMS))
}
