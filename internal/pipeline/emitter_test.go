package pipeline

import (
	"testing"
	"time"
)

func TestEmit_Empty(t *testing.T) {
	e := NewCueEmitter(clock24(t), defaultSettings())
	if entries := e.Emit(nil); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestEmit_PlaceholderInserted(t *testing.T) {
	c := clock24(t)
	e := NewCueEmitter(c, defaultSettings())
	cues := []ProcessedCue{
		{Text: "hello", StartMS: 833, EndMS: 1000},
		{Text: "world", StartMS: 1000, EndMS: 1200},
	}
	entries := e.Emit(cues)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	p := entries[0]
	if p.Index != 1 || p.Start != 0 || p.Content != "delete me" {
		t.Errorf("placeholder = %+v", p)
	}
	if want := msToDuration(c.AlignNearest(823)); p.End != want {
		t.Errorf("placeholder end = %v, want %v", p.End, want)
	}
	if entries[1].Index != 2 || entries[1].Content != "hello" {
		t.Errorf("entry 2 = %+v, want first cue", entries[1])
	}
	if entries[2].Index != 3 || entries[2].Content != "world" {
		t.Errorf("entry 3 = %+v, want second cue", entries[2])
	}
}

func TestEmit_PlaceholderMinimumDuration(t *testing.T) {
	c := clock24(t)
	e := NewCueEmitter(c, defaultSettings())
	entries := e.Emit([]ProcessedCue{{Text: "hi", StartMS: 50, EndMS: 200}})
	if want := msToDuration(c.MinDurationMS); entries[0].End != want {
		t.Errorf("placeholder end = %v, want %v", entries[0].End, want)
	}
}

func TestEmit_NoPlaceholderAtZero(t *testing.T) {
	e := NewCueEmitter(clock24(t), defaultSettings())
	entries := e.Emit([]ProcessedCue{
		{Text: "hi", StartMS: 0, EndMS: 200},
		{Text: "there", StartMS: 150, EndMS: 400},
	})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Index != i+1 {
			t.Errorf("entry %d has index %d", i, entry.Index)
		}
	}
	if entries[0].End != 200*time.Millisecond || entries[1].Start != 150*time.Millisecond {
		t.Errorf("timestamps not preserved: %+v", entries)
	}
}

func TestEmit_CustomPlaceholder(t *testing.T) {
	settings := defaultSettings()
	settings.PlaceholderText = "[REMOVE]"
	e := NewCueEmitter(clock24(t), settings)
	entries := e.Emit([]ProcessedCue{{Text: "hi", StartMS: 2000, EndMS: 2200}})
	if entries[0].Content != "[REMOVE]" {
		t.Errorf("placeholder content = %q", entries[0].Content)
	}
}

func TestMsToDuration(t *testing.T) {
	tests := []struct {
		ms   float64
		want time.Duration
	}{
		{0, 0},
		{1000, time.Second},
		{1916.6666666666665, 1916667 * time.Microsecond},
		{0.0005, 0},
	}
	for _, tt := range tests {
		if got := msToDuration(tt.ms); got != tt.want {
			t.Errorf("msToDuration(%v) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}
