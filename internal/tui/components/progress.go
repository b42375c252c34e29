package components

import (
	"fmt"

	"github.com/theirongolddev/goalpace/internal/pace"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// GoalBar renders a labeled completion bar colored by pace status.
func GoalBar(label string, r pace.Report, labelW, barWidth int) string {
	t := theme.Active
	color := t.Status(r.Status)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	out := bar.ViewAs(r.Fraction) + space + pctStyle.Render(fmt.Sprintf("%3.0f%%", r.Fraction*100))
	if labelW > 0 {
		out = labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) + space + out
	}
	return out
}

// TimeBar renders how much of the goal window has elapsed.
func TimeBar(r pace.Report, barWidth int) string {
	t := theme.Active

	frac := 0.0
	if r.TotalDays > 0 {
		frac = min(max(float64(r.DaysPassed)/float64(r.TotalDays), 0), 1)
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.TextMuted)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return bar.ViewAs(frac) + dim.Render(fmt.Sprintf(" %3.0f%% of time", frac*100))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
