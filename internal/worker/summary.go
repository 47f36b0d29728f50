package worker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// ShouldColorize reports whether w is a terminal that accepts ANSI colors.
func ShouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderSummary renders one row per batch item followed by a totals line.
func RenderSummary(result *BatchResult, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"File", "Status", "FPS", "Cues", "Overlap", "Elapsed", "Detail"})

	var succeeded, skipped, failed int
	for _, item := range result.Items {
		fps, cues, overlap, detail := "", "", "", ""
		switch item.Status {
		case ItemSucceeded:
			succeeded++
			fps = fmt.Sprintf("%.3f", item.Output.FPS)
			cues = fmt.Sprintf("%d", item.Output.Stats.Cues)
			overlap = fmt.Sprintf("%.1f%%", item.Output.Stats.OverlapPercent())
			detail = filepath.Base(item.Output.SRTPath)
		case ItemSkipped:
			skipped++
			detail = "unchanged"
		case ItemFailed:
			failed++
			if item.Err != nil {
				detail = item.Err.Error()
			}
		}
		elapsed := ""
		if item.Elapsed > 0 {
			elapsed = item.Elapsed.Round(time.Second).String()
		}
		tw.AppendRow(table.Row{
			filepath.Base(item.Source),
			statusLabel(item.Status, colorize),
			fps, cues, overlap, elapsed, detail,
		})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(result.Items)),
		fmt.Sprintf("%d ok / %d skipped / %d failed", succeeded, skipped, failed),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, WidthMax: 60},
	})
	return tw.Render()
}

func statusLabel(status ItemStatus, colorize bool) string {
	label := "OK"
	attr := color.FgGreen
	switch status {
	case ItemSkipped:
		label, attr = "SKIPPED", color.FgYellow
	case ItemFailed:
		label, attr = "FAILED", color.FgRed
	}
	if !colorize {
		return label
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(label)
}
