package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/tally/internal/day"
)

// heatGlyphs keep levels distinguishable when color is off.
var heatGlyphs = []string{"·", "░", "▒", "▓", "█"}

const (
	cellWidth  = 2
	labelWidth = 4
)

// HeatLevel buckets count into 0..4 relative to the busiest day.
func HeatLevel(count, max int) int {
	if count <= 0 || max <= 0 {
		return 0
	}
	lvl := (count*4 + max - 1) / max
	if lvl > 4 {
		lvl = 4
	}
	return lvl
}

// Heatmap renders a year of daily counts as a week-per-column grid, Sunday on
// top. counts is keyed by calendar day. When the year does not fit in width
// it is drawn as two half-year blocks.
func Heatmap(year int, counts map[string]int, width int) string {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	weeks := day.Diff(day.WeekStart(jan1), day.WeekStart(dec31))/7 + 1

	if labelWidth+weeks*cellWidth <= width {
		return heatBlock(jan1, dec31, counts, max)
	}
	jul1 := time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
	return heatBlock(jan1, day.AddDays(jul1, -1), counts, max) + "\n" +
		heatBlock(jul1, dec31, counts, max)
}

func heatBlock(from, to time.Time, counts map[string]int, max int) string {
	start := day.WeekStart(from)
	weeks := day.Diff(start, day.WeekStart(to))/7 + 1

	var b strings.Builder

	// Month labels sit above the first week column that starts in the month.
	header := []rune(strings.Repeat(" ", labelWidth+weeks*cellWidth+3))
	last := -1
	for w := 0; w < weeks; w++ {
		col := day.AddDays(start, w*7)
		if col.Before(from) {
			col = from
		}
		if m := int(col.Month()); m != last {
			last = m
			copy(header[labelWidth+w*cellWidth:], []rune(col.Format("Jan")))
		}
	}
	b.WriteString(Muted.Render(strings.TrimRight(string(header), " ")) + "\n")

	labels := []string{"", "Mon", "", "Wed", "", "Fri", ""}
	for wd := 0; wd < 7; wd++ {
		b.WriteString(Muted.Render(padRight(labels[wd], labelWidth)))
		for w := 0; w < weeks; w++ {
			d := day.AddDays(start, w*7+wd)
			if d.Before(from) || d.After(to) {
				b.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			lvl := HeatLevel(counts[day.Format(d)], max)
			cell := lipgloss.NewStyle().Foreground(heatLevels[lvl]).Render(heatGlyphs[lvl])
			b.WriteString(cell + " ")
		}
		b.WriteString("\n")
	}

	legend := "    less "
	for lvl := range heatGlyphs {
		legend += lipgloss.NewStyle().Foreground(heatLevels[lvl]).Render(heatGlyphs[lvl]) + " "
	}
	b.WriteString(Muted.Render(legend + "more"))
	b.WriteString("\n")
	return b.String()
}

// Bar renders pct (0..100, clipped) as a fixed-width progress bar.
func Bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return Success.Render(strings.Repeat("█", filled)) +
		Muted.Render(strings.Repeat("░", width-filled))
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
