package whisperx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "segments": [
    {"text": " Hello there.", "start": 0.5, "end": 1.2, "words": [
      {"word": " Hello", "start": 0.5, "end": 0.8, "score": 0.91},
      {"word": "there.", "start": 0.85, "end": 1.2}
    ]},
    {"text": " In 1999 we", "start": 2.0, "end": 3.0, "words": [
      {"word": "In", "start": 2.0, "end": 2.1},
      {"word": "1999"},
      {"word": "  ", "start": 2.4, "end": 2.5},
      {"start": 2.6, "end": 2.7},
      {"word": "we", "start": 2.8, "end": 3.0}
    ]}
  ]
}`

func TestParseWords(t *testing.T) {
	words, err := ParseWords(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, words, 4)

	assert.Equal(t, "Hello", words[0].Text)
	assert.InDelta(t, 500, words[0].StartMS, 1e-9)
	assert.InDelta(t, 800, words[0].EndMS, 1e-9)
	assert.Equal(t, "there.", words[1].Text)
	assert.Equal(t, "In", words[2].Text)
	assert.Equal(t, "we", words[3].Text)
	assert.InDelta(t, 3000, words[3].EndMS, 1e-9)
}

func TestParseWords_NoSegments(t *testing.T) {
	words, err := ParseWords(strings.NewReader(`{"segments": []}`))
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestParseWords_InvalidJSON(t *testing.T) {
	_, err := ParseWords(strings.NewReader(`{"segments": [`))
	assert.Error(t, err)
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	words, err := LoadWords(path)
	require.NoError(t, err)
	assert.Len(t, words, 4)

	_, err = LoadWords(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
