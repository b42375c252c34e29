package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/tui/components"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderEntriesTab lists the selected goal's log, newest first.
func (a App) renderEntriesTab(cw, h int) string {
	g, _, ok := a.selected()
	if !ok {
		return ""
	}
	t := theme.Active

	events := slices.Collect(calendar.Events(g))
	slices.Reverse(events)

	visible := max(h-4, 1)
	offset := min(a.entryScroll, max(len(events)-visible, 0))
	end := min(offset+visible, len(events))

	inner := components.CardInnerWidth(cw)
	dateStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.Tracking(g.TrackingType)).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.Text).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var lines []string
	for _, ev := range events[offset:end] {
		amount := fmt.Sprintf("%-12s", model.FormatValue(ev.Value)+" "+g.TrackingType.Unit(ev.Value))
		line := dateStyle.Render(ev.Date.String()) + dim.Render("  ") + valueStyle.Render(amount)
		if ev.Note != "" {
			line += noteStyle.Render(truncStr(ev.Note, inner-24))
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, dim.Render("nothing logged yet, press s or + to log today"))
	}

	title := fmt.Sprintf("%s · %d entries", g.Title, len(events))
	if len(events) > visible {
		title += fmt.Sprintf("  (%d-%d, J/K to scroll)", offset+1, end)
	}
	return components.ContentCard(title, strings.Join(lines, "\n"), cw)
}
