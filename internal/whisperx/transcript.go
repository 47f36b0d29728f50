package whisperx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"framesrt/internal/pipeline"
)

// rawWord mirrors a WhisperX word entry. Timings are pointers because
// WhisperX omits them for tokens it could not align.
type rawWord struct {
	Word  *string  `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type rawSegment struct {
	Words []rawWord `json:"words"`
}

type payload struct {
	Segments []rawSegment `json:"segments"`
}

// LoadWords reads a WhisperX JSON file and returns its words in order.
func LoadWords(path string) ([]pipeline.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return ParseWords(f)
}

// ParseWords flattens every segment's words into one stream, converting
// seconds to milliseconds. Words without text or timings are skipped and
// surrounding whitespace is trimmed.
func ParseWords(r io.Reader) ([]pipeline.Word, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}

	var words []pipeline.Word
	for _, seg := range p.Segments {
		for _, w := range seg.Words {
			if w.Word == nil || w.Start == nil || w.End == nil {
				continue
			}
			text := strings.TrimSpace(*w.Word)
			if text == "" {
				continue
			}
			words = append(words, pipeline.Word{
				Text:    text,
				StartMS: *w.Start * 1000.0,
				EndMS:   *w.End * 1000.0,
			})
		}
	}
	return words, nil
}
