package pipeline

import (
	"math"
	"testing"

	"framesrt/internal/config"
)

const tolerance = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func defaultSettings() *config.SubtitleSettings {
	s := config.DefaultSubtitleSettings()
	return &s
}

func clock24(t *testing.T) FrameClock {
	t.Helper()
	c, err := NewFrameClock(24, defaultSettings())
	if err != nil {
		t.Fatalf("NewFrameClock: %v", err)
	}
	return c
}

func frames(c FrameClock, n float64) float64 {
	return n * c.FrameMS
}
