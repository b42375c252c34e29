package components

import (
	"strings"

	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind selects the color of a status bar message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusWarn
	StatusError
)

// RenderStatusBar renders the bottom bar: key hints on the left, a message
// and the store location on the right.
func RenderStatusBar(width int, msg string, kind StatusKind, storePath string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgColor := t.Accent
	switch kind {
	case StatusWarn:
		msgColor = t.Behind
	case StatusError:
		msgColor = t.Expired
	}
	msgStyle := lipgloss.NewStyle().Foreground(msgColor).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [s]ession  [+]hours  [q]uit")
	right := ""
	if msg != "" {
		right = msgStyle.Render(msg) + base.Render("  ")
	}
	if storePath != "" {
		right += lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(storePath + " ")
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
