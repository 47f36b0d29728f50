package report

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"framesrt/internal/pipeline"
)

// Summary is the run-level part of a timing report.
type Summary struct {
	Words          int     `yaml:"words"`
	Groups         int     `yaml:"groups"`
	TwoWordGroups  int     `yaml:"two_word_groups"`
	SingleWord     int     `yaml:"single_word_groups"`
	Cues           int     `yaml:"cues"`
	Overlapping    int     `yaml:"overlapping"`
	OverlapPercent float64 `yaml:"overlap_percent"`
	Placeholder    bool    `yaml:"placeholder"`
}

// Report describes how every cue's timing was derived.
type Report struct {
	Source  string                  `yaml:"source"`
	FPS     float64                 `yaml:"fps"`
	FrameMS float64                 `yaml:"frame_ms"`
	Summary Summary                 `yaml:"summary"`
	Cues    []pipeline.ProcessedCue `yaml:"cues"`
}

// New builds a report from a pipeline result.
func New(source string, res *pipeline.Result) Report {
	s := res.Stats
	return Report{
		Source:  source,
		FPS:     res.Clock.FPS,
		FrameMS: res.Clock.FrameMS,
		Summary: Summary{
			Words:          s.Words,
			Groups:         s.Groups.Groups,
			TwoWordGroups:  s.Groups.TwoWord,
			SingleWord:     s.Groups.SingleWord,
			Cues:           s.Cues,
			Overlapping:    s.Overlaps,
			OverlapPercent: s.OverlapPercent(),
			Placeholder:    s.Placeholder,
		},
		Cues: res.Cues,
	}
}

// Marshal encodes r as YAML with two-space indentation.
func (r Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}
