package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// formatSRTTime renders d as HH:MM:SS,mmm, truncating sub-millisecond precision.
func formatSRTTime(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	millis := int64(d / time.Millisecond)
	hours := millis / 3_600_000
	millis %= 3_600_000
	minutes := millis / 60_000
	millis %= 60_000
	seconds := millis / 1000
	millis %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// ComposeSRT renders entries as SRT text. Every block, including the last,
// ends with a blank line.
func ComposeSRT(entries []SubtitleEntry) string {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			entry.Index,
			formatSRTTime(entry.Start),
			formatSRTTime(entry.End),
			entry.Content)
	}
	return sb.String()
}
