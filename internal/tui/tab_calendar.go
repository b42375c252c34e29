package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/tui/components"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderCalendarTab shows the visible month for the selected goal and the
// notes written during it.
func (a App) renderCalendarTab(cw int) string {
	g, _, ok := a.selected()
	if !ok {
		return ""
	}
	grid := calendar.Month(g, a.year, a.month, a.opts.WeekStart)

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		return a.renderMonthCard(g, grid, cw) + "\n" + renderMonthNotes(g, grid, cw)
	}
	return components.CardRow([]string{
		a.renderMonthCard(g, grid, halves[0]),
		renderMonthNotes(g, grid, halves[1]),
	})
}

func (a App) renderMonthCard(g model.Goal, grid calendar.MonthGrid, w int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	plain := lipgloss.NewStyle().Foreground(t.Text).Background(t.Surface)
	outside := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	logged := lipgloss.NewStyle().Foreground(t.Background).Background(t.Tracking(g.TrackingType)).Bold(true)
	noteMark := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	for i := range 7 {
		d := (grid.WeekStart + time.Weekday(i)) % 7
		b.WriteString(head.Render(fmt.Sprintf(" %s  ", cli.FormatWeekday(d))))
	}
	b.WriteString("\n")

	for _, week := range grid.Weeks {
		for _, c := range week {
			style := plain
			switch {
			case !c.InMonth:
				style = outside
			case c.Logged:
				style = logged
			}
			if c.Date == a.opts.Today {
				style = style.Underline(true)
			}
			mark := bg.Render(" ")
			if c.HasNote && c.InMonth {
				mark = noteMark.Render("•")
			}
			b.WriteString(bg.Render(" ") + style.Render(fmt.Sprintf("%2d", c.Date.Day)) + mark + bg.Render(" "))
		}
		b.WriteString("\n")
	}
	b.WriteString(head.Render("total " + cli.FormatAmount(g.TrackingType, grid.Total)))

	title := fmt.Sprintf("%s %d · %s   [ ] month  t today", grid.Month, grid.Year, g.Title)
	return components.ContentCard(title, b.String(), w)
}

func renderMonthNotes(g model.Goal, grid calendar.MonthGrid, w int) string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.Text).Background(t.Surface)
	inner := components.CardInnerWidth(w)

	var lines []string
	for ev := range calendar.Events(g) {
		if ev.Date.Year != grid.Year || ev.Date.Month != grid.Month || ev.Note == "" {
			continue
		}
		prefix := ev.Date.String()[5:] + " "
		lines = append(lines, dateStyle.Render(prefix)+
			textStyle.Render(truncStr(calendar.Preview(ev.Note, calendar.NotePreviewLen), inner-len(prefix))))
	}
	if len(lines) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("no notes this month"))
	}
	return components.ContentCard("Notes", strings.Join(lines, "\n"), w)
}
