// Package theme defines color themes for the goalpace dashboard.
package theme

import (
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps the dashboard's color roles to concrete colors.
type Theme struct {
	Name        string
	Background  lipgloss.Color
	Surface     lipgloss.Color // cards and panels
	Highlight   lipgloss.Color // selected row
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	Text        lipgloss.Color
	Accent      lipgloss.Color

	// Pace status
	OnTrack  lipgloss.Color
	Behind   lipgloss.Color
	Complete lipgloss.Color
	Expired  lipgloss.Color

	// Tracking type
	Sessions lipgloss.Color
	Hours    lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:        "flexoki-dark",
	Background:  lipgloss.Color("#100F0F"),
	Surface:     lipgloss.Color("#1C1B1A"),
	Highlight:   lipgloss.Color("#282726"),
	Border:      lipgloss.Color("#403E3C"),
	BorderFocus: lipgloss.Color("#3AA99F"),
	TextDim:     lipgloss.Color("#575653"),
	TextMuted:   lipgloss.Color("#878580"),
	Text:        lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	OnTrack:     lipgloss.Color("#3AA99F"),
	Behind:      lipgloss.Color("#DA702C"),
	Complete:    lipgloss.Color("#879A39"),
	Expired:     lipgloss.Color("#D14D41"),
	Sessions:    lipgloss.Color("#879A39"),
	Hours:       lipgloss.Color("#4385BE"),
}

// CatppuccinMocha is a pastel theme.
var CatppuccinMocha = Theme{
	Name:        "catppuccin-mocha",
	Background:  lipgloss.Color("#1E1E2E"),
	Surface:     lipgloss.Color("#313244"),
	Highlight:   lipgloss.Color("#45475A"),
	Border:      lipgloss.Color("#585B70"),
	BorderFocus: lipgloss.Color("#89B4FA"),
	TextDim:     lipgloss.Color("#6C7086"),
	TextMuted:   lipgloss.Color("#A6ADC8"),
	Text:        lipgloss.Color("#CDD6F4"),
	Accent:      lipgloss.Color("#89B4FA"),
	OnTrack:     lipgloss.Color("#94E2D5"),
	Behind:      lipgloss.Color("#FAB387"),
	Complete:    lipgloss.Color("#A6E3A1"),
	Expired:     lipgloss.Color("#F38BA8"),
	Sessions:    lipgloss.Color("#A6E3A1"),
	Hours:       lipgloss.Color("#89B4FA"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:        "terminal",
	Background:  lipgloss.Color("0"),
	Surface:     lipgloss.Color("0"),
	Highlight:   lipgloss.Color("8"),
	Border:      lipgloss.Color("8"),
	BorderFocus: lipgloss.Color("6"),
	TextDim:     lipgloss.Color("8"),
	TextMuted:   lipgloss.Color("7"),
	Text:        lipgloss.Color("15"),
	Accent:      lipgloss.Color("6"),
	OnTrack:     lipgloss.Color("6"),
	Behind:      lipgloss.Color("3"),
	Complete:    lipgloss.Color("2"),
	Expired:     lipgloss.Color("1"),
	Sessions:    lipgloss.Color("2"),
	Hours:       lipgloss.Color("4"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Status returns the color for a pace status.
func (t Theme) Status(s pace.Status) lipgloss.Color {
	switch s {
	case pace.StatusOnTrack:
		return t.OnTrack
	case pace.StatusBehind:
		return t.Behind
	case pace.StatusComplete:
		return t.Complete
	case pace.StatusExpired:
		return t.Expired
	default:
		return t.TextMuted
	}
}

// Tracking returns the color for a tracking type.
func (t Theme) Tracking(tt model.TrackingType) lipgloss.Color {
	if tt == model.Hours {
		return t.Hours
	}
	return t.Sessions
}
