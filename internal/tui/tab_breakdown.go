package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/tui/components"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderWeeklyTab charts weekly totals of the selected goal against its
// planned weekly pace.
func (a App) renderWeeklyTab(cw, h int) string {
	g, r, ok := a.selected()
	if !ok {
		return ""
	}
	t := theme.Active

	until := a.opts.Today
	if g.EndDate.Before(until) {
		until = g.EndDate
	}
	weeks := calendar.Weekly(g, g.StartDate, until, a.opts.WeekStart)

	values := make([]float64, len(weeks))
	labels := make([]string, len(weeks))
	for i, wk := range weeks {
		values[i] = wk.Value
		labels[i] = fmt.Sprintf("%d/%d", int(wk.Start.Month), wk.Start.Day)
	}

	inner := components.CardInnerWidth(cw)
	chartH := min(max(h-8, 4), 14)

	var b strings.Builder
	if len(weeks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("goal has not started yet"))
	} else {
		b.WriteString(components.BarChart(values, labels, r.Expected, t.Tracking(g.TrackingType), inner, chartH))
	}

	var hit int
	for _, v := range values {
		if v >= r.Expected && r.Expected > 0 {
			hit++
		}
	}
	legend := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	guide := lipgloss.NewStyle().Foreground(t.Behind).Background(t.Surface)
	b.WriteString("\n\n")
	b.WriteString(guide.Render("┄┄ "))
	b.WriteString(legend.Render(fmt.Sprintf("planned %s · %d of %d weeks on plan",
		cli.FormatPace(g.TrackingType, r.Expected), hit, len(weeks))))

	title := fmt.Sprintf("%s · weekly %s", g.Title, unitPlural(g.TrackingType))
	return components.ContentCard(title, b.String(), cw)
}

func unitPlural(t model.TrackingType) string {
	if t == model.Hours {
		return "hours"
	}
	return "sessions"
}
