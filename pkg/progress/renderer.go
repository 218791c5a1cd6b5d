package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jkasimotto/file-combiner/pkg/util"
)

type renderer interface {
	render(status Status, message string, stats Statistics, failed bool) string
}

func paint(attr color.Attribute, noColor bool) *color.Color {
	c := color.New(attr)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// messageColor picks red for failures and green once the job is done
func messageColor(status Status, failed, noColor bool) *color.Color {
	switch {
	case failed:
		return paint(color.FgRed, noColor)
	case status.Total > 0 && status.Current >= status.Total:
		return paint(color.FgGreen, noColor)
	default:
		return paint(color.Reset, true)
	}
}

type barRenderer struct {
	width     int
	noColor   bool
	showStats bool
}

func (r *barRenderer) render(status Status, message string, stats Statistics, failed bool) string {
	var out strings.Builder

	// reserve room for brackets and the percentage
	barWidth := r.width/3 - 7
	if barWidth < 10 {
		barWidth = 10
	}

	var ratio float64
	if status.Total > 0 {
		ratio = float64(status.Current) / float64(status.Total)
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(float64(barWidth) * ratio)
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}

	out.WriteString("[")
	out.WriteString(paint(color.FgGreen, r.noColor).Sprint(bar))
	out.WriteString("]")
	out.WriteString(fmt.Sprintf(" %3.0f%%", ratio*100))

	if message != "" {
		out.WriteString(" ")
		out.WriteString(messageColor(status, failed, r.noColor).Sprint(message))
	}

	if status.CurrentItem != "" && !failed && status.Current < status.Total {
		out.WriteString(" ")
		out.WriteString(status.CurrentItem)
	}

	if r.showStats {
		out.WriteString(fmt.Sprintf(" | %d/%d | %s | %.1f/s | ETA %s",
			status.Current,
			status.Total,
			util.FormatSize(stats.BytesProcessed),
			stats.ItemsPerSecond,
			formatDuration(stats.RemainingTime)))
	}

	return truncate(out.String(), r.width)
}

type simpleRenderer struct {
	noColor   bool
	showStats bool
}

func (r *simpleRenderer) render(status Status, message string, stats Statistics, failed bool) string {
	var out strings.Builder

	out.WriteString(messageColor(status, failed, r.noColor).Sprint(message))
	out.WriteString(fmt.Sprintf(" (%d/%d, %.0f%%)", status.Current, status.Total, stats.ProgressPercentage))

	if status.CurrentItem != "" {
		out.WriteString(" ")
		out.WriteString(status.CurrentItem)
	}

	if r.showStats {
		out.WriteString(fmt.Sprintf(" | %s", util.FormatSize(stats.BytesProcessed)))
	}

	return out.String()
}

// truncate cuts plain text lines to width; colored lines are left alone
func truncate(s string, width int) string {
	if width <= 0 || strings.Contains(s, "\033[") || len([]rune(s)) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
