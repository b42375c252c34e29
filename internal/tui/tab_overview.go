package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"
	"github.com/theirongolddev/goalpace/internal/tui/components"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderGoalsTab shows the goal list next to the selected goal's detail.
func (a App) renderGoalsTab(cw int) string {
	if a.isCompactLayout() {
		return a.renderGoalList(cw) + "\n" + a.renderGoalDetail(cw)
	}
	widths := components.LayoutRow(cw, 5)
	listW := widths[0] + widths[1]
	detailW := cw - listW
	return components.CardRow([]string{
		a.renderGoalList(listW),
		a.renderGoalDetail(detailW),
	})
}

func (a App) renderGoalList(w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	rowStyle := lipgloss.NewStyle().Background(t.Surface)
	selStyle := lipgloss.NewStyle().Background(t.Highlight).Foreground(t.Text).Bold(true)

	barW := max(inner/3, 6)
	labelW := max(inner-barW-7, 6)

	var b strings.Builder
	for i, g := range a.goals {
		line := components.GoalBar(g.Title, a.reports[i], labelW, barW)
		if i == a.cursor {
			marker := selStyle.Render("▸")
			b.WriteString(marker + line)
		} else {
			b.WriteString(rowStyle.Render(" ") + line)
		}
		if i < len(a.goals)-1 {
			b.WriteString("\n")
		}
	}
	return components.FocusCard(fmt.Sprintf("Goals (%d)", len(a.goals)), b.String(), w)
}

func (a App) renderGoalDetail(w int) string {
	g, r, ok := a.selected()
	if !ok {
		return ""
	}
	t := theme.Active
	inner := components.CardInnerWidth(w)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(muted.Render(fmt.Sprintf("%s → %s · %s",
		g.StartDate, g.EndDate, cli.FormatDeadline(a.opts.Today, g.EndDate))))
	b.WriteString("\n\n")
	b.WriteString(components.GoalBar("", r, 0, inner-5))
	b.WriteString("\n")
	b.WriteString(components.TimeBar(r, inner-14))
	b.WriteString("\n\n")

	b.WriteString(components.MetricCardRow(paceMetrics(g, r), inner))

	if alert := catchUpAlert(g, r, inner); alert != "" {
		b.WriteString("\n")
		b.WriteString(alert)
	}

	points := calendar.Cumulative(calendar.Events(g))
	if len(points) > 1 {
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Total
		}
		b.WriteString("\n")
		b.WriteString(muted.Render("cumulative "))
		b.WriteString(components.Sparkline(downsample(values, inner-11), t.Tracking(g.TrackingType)))
	}

	return components.ContentCard(g.Title, b.String(), w)
}

func paceMetrics(g model.Goal, r pace.Report) []components.Metric {
	t := theme.Active
	projected := "-"
	if r.ProjectedTotal > 0 {
		projected = model.FormatValue(r.ProjectedTotal)
	}
	return []components.Metric{
		{Label: "Progress", Value: cli.FormatProgress(g.TrackingType, r.Current, r.Target),
			Detail: model.FormatValue(r.Remaining) + " to go"},
		{Label: "Required", Value: fmt.Sprintf("%.2f/wk", r.Required), Color: t.Status(r.Status),
			Detail: cli.FormatDaysLeft(r.DaysLeft)},
		{Label: "Planned", Value: fmt.Sprintf("%.2f/wk", r.Expected),
			Detail: "projected " + projected},
		{Label: "Status", Value: string(r.Status), Color: t.Status(r.Status)},
	}
}

func catchUpAlert(g model.Goal, r pace.Report, w int) string {
	if !r.CatchUp {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().
		Foreground(t.Behind).
		Background(t.Surface).
		Bold(true).
		Width(w)
	return style.Render(fmt.Sprintf("⚠ Behind: %s needed to finish, %s planned.",
		cli.FormatPace(g.TrackingType, r.Required),
		cli.FormatPace(g.TrackingType, r.Expected)))
}

// downsample keeps at most n evenly spaced values, always including the last.
func downsample(values []float64, n int) []float64 {
	if n <= 1 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}
