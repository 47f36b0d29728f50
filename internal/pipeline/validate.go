package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrContractViolation marks input that breaks the word stream contract.
var ErrContractViolation = errors.New("contract violation")

// ValidateWords checks that every word has text and sane timings and that
// the stream is ordered by start time. Nothing is coerced.
func ValidateWords(words []Word) error {
	prevStart := math.Inf(-1)
	for i, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			return fmt.Errorf("%w: word %d has empty text", ErrContractViolation, i)
		}
		if !finite(w.StartMS) || !finite(w.EndMS) {
			return fmt.Errorf("%w: word %d (%q) has non-finite timing", ErrContractViolation, i, w.Text)
		}
		if w.StartMS < 0 {
			return fmt.Errorf("%w: word %d (%q) starts before zero: %v", ErrContractViolation, i, w.Text, w.StartMS)
		}
		if w.EndMS < w.StartMS {
			return fmt.Errorf("%w: word %d (%q) ends before it starts: %v < %v", ErrContractViolation, i, w.Text, w.EndMS, w.StartMS)
		}
		if w.StartMS < prevStart {
			return fmt.Errorf("%w: word %d (%q) starts at %v, before previous word at %v", ErrContractViolation, i, w.Text, w.StartMS, prevStart)
		}
		prevStart = w.StartMS
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
