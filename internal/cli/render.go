package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorOrange).
			Foreground(ColorOrange).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
// Cells may already carry styling; widths are measured on visible text.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")
	return b.String()
}

func padRight(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// StatusColor returns the color used for a pace status.
func StatusColor(s pace.Status) lipgloss.Color {
	switch s {
	case pace.StatusComplete:
		return ColorGreen
	case pace.StatusOnTrack:
		return ColorAccent
	case pace.StatusBehind:
		return ColorOrange
	case pace.StatusExpired:
		return ColorRed
	default:
		return ColorTextMuted
	}
}

// RenderStatus renders a colored status label.
func RenderStatus(s pace.Status) string {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Bold(true).Render(string(s))
}

// RenderProgressBar renders a goal completion bar followed by the percentage.
func RenderProgressBar(r pace.Report, width int) string {
	bar := progress.New(
		progress.WithSolidFill(string(StatusColor(r.Status))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(ColorTextDim)

	return bar.ViewAs(r.Fraction) + " " +
		lipgloss.NewStyle().Foreground(StatusColor(r.Status)).Bold(true).Render(FormatPercent(r.Fraction))
}

// RenderCatchUp renders the catch-up banner for a goal that is behind, or ""
// when no catch-up is needed.
func RenderCatchUp(g model.Goal, r pace.Report) string {
	if !r.CatchUp {
		return ""
	}
	msg := fmt.Sprintf("⚠ %s is behind: need %s to finish, planned %s.",
		g.Title,
		FormatPace(g.TrackingType, r.Required),
		FormatPace(g.TrackingType, r.Expected),
	)
	return alertStyle.Render(msg)
}

// RenderWarning renders a one-line warning.
func RenderWarning(msg string) string {
	return warnStyle.Render("! " + msg)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	top := values[0]
	for _, v := range values[1:] {
		if v > top {
			top = v
		}
	}
	if top == 0 {
		top = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / top * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderMonth renders a month grid as a small calendar. Logged days are
// highlighted in the goal's color, days with a note are marked with '*', and
// today is underlined.
func RenderMonth(grid calendar.MonthGrid, t model.TrackingType, today model.Date) string {
	logged := lipgloss.NewStyle().Foreground(lipgloss.Color(calendar.ColorFor(t))).Bold(true)
	plain := valueStyle
	outside := dimStyle

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", grid.Month, grid.Year)))
	b.WriteString("\n")

	for i := range 7 {
		d := (grid.WeekStart + time.Weekday(i)) % 7
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %s ", FormatWeekday(d))))
	}
	b.WriteString("\n")

	for _, week := range grid.Weeks {
		for _, c := range week {
			mark := " "
			if c.HasNote {
				mark = "*"
			}
			text := fmt.Sprintf("%2d", c.Date.Day)

			style := plain
			switch {
			case !c.InMonth:
				style = outside
			case c.Logged:
				style = logged
			}
			if c.Date == today {
				style = style.Underline(true)
			}
			b.WriteString(" " + style.Render(text) + mutedStyle.Render(mark))
		}
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render("month total: " + FormatAmount(t, grid.Total)))
	return b.String()
}
