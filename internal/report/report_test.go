package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"framesrt/internal/config"
	"framesrt/internal/pipeline"
)

func TestReport_Marshal(t *testing.T) {
	settings := config.DefaultSubtitleSettings()
	res, err := pipeline.Process([]pipeline.Word{
		{Text: "the", StartMS: 1000, EndMS: 1120},
		{Text: "cat", StartMS: 1150, EndMS: 1400},
		{Text: "sat.", StartMS: 1600, EndMS: 1900},
	}, 24, &settings)
	require.NoError(t, err)

	data, err := New("clip.json", res).Marshal()
	require.NoError(t, err)

	var decoded struct {
		Source  string `yaml:"source"`
		FPS     float64
		Summary struct {
			Cues        int  `yaml:"cues"`
			Placeholder bool `yaml:"placeholder"`
		} `yaml:"summary"`
		Cues []struct {
			Text        string   `yaml:"text"`
			Strategy    string   `yaml:"timing_strategy"`
			OriginalGap *float64 `yaml:"original_gap"`
		} `yaml:"cues"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, "clip.json", decoded.Source)
	assert.Equal(t, 2, decoded.Summary.Cues)
	assert.True(t, decoded.Summary.Placeholder)
	require.Len(t, decoded.Cues, 2)
	assert.Equal(t, "the cat", decoded.Cues[0].Text)
	assert.Equal(t, "seamless_overlap", decoded.Cues[0].Strategy)
	require.NotNil(t, decoded.Cues[0].OriginalGap)
	assert.InDelta(t, 200, *decoded.Cues[0].OriginalGap, 1e-9)
	assert.Equal(t, "last_group", decoded.Cues[1].Strategy)
	assert.Nil(t, decoded.Cues[1].OriginalGap)
}
