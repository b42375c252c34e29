// Package tui provides the interactive Bubble Tea dashboard for goalpace.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/goals"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"
	"github.com/theirongolddev/goalpace/internal/tui/components"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the dashboard.
type Options struct {
	Today     model.Date
	WeekStart time.Weekday
	HoursStep float64
	StorePath string
	NeedSetup bool
}

// App is the root Bubble Tea model. Cursor, visible month and scroll offsets
// live only here and are never persisted.
type App struct {
	repo *goals.Repository
	opts Options

	// Snapshot of the repository, refreshed after every mutation
	goals   []model.Goal
	reports []pace.Report

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	cursor      int
	year        int
	month       time.Month
	entryScroll int

	status     string
	statusKind components.StatusKind

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates the dashboard over repo.
func NewApp(repo *goals.Repository, opts Options) App {
	if opts.Today.IsZero() {
		opts.Today = model.Today()
	}
	if opts.HoursStep <= 0 {
		opts.HoursStep = 0.5
	}
	a := App{
		repo:      repo,
		opts:      opts,
		year:      opts.Today.Year,
		month:     opts.Today.Month,
		needSetup: opts.NeedSetup,
	}
	if w := repo.Warning(); w != nil {
		a.setStatus(components.StatusWarn, "store was unreadable and has been reset")
	}
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// refresh re-reads the repository and recomputes every report.
func (a *App) refresh() {
	a.goals = a.repo.List()
	a.reports = make([]pace.Report, len(a.goals))
	for i, g := range a.goals {
		a.reports[i] = pace.Compute(g, a.opts.Today)
	}
	a.cursor = min(max(a.cursor, 0), max(len(a.goals)-1, 0))
}

func (a App) selected() (model.Goal, pace.Report, bool) {
	if len(a.goals) == 0 {
		return model.Goal{}, pace.Report{}, false
	}
	return a.goals[a.cursor], a.reports[a.cursor], true
}

func (a *App) setStatus(kind components.StatusKind, format string, args ...any) {
	a.statusKind = kind
	a.status = fmt.Sprintf(format, args...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.needSetup && a.setupForm == nil {
			a.setupVals = DefaultSetupValues()
			a.setupForm = NewSetupForm(a.setupVals).WithWidth(msg.Width).WithHeight(msg.Height)
			return a, a.setupForm.Init()
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "j", "down":
			a.moveCursor(1)
		case "k", "up":
			a.moveCursor(-1)
		case "g", "c", "e", "w":
			a.activeTab = components.TabIdxByKey(key)
		case "tab", "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		case "shift+tab", "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "[", "h":
			a.shiftMonth(-1)
		case "]", "l":
			a.shiftMonth(1)
		case "t":
			a.year, a.month = a.opts.Today.Year, a.opts.Today.Month
		case "J":
			a.entryScroll++
		case "K":
			a.entryScroll = max(a.entryScroll-1, 0)
		case "s":
			a.quickLog(model.Sessions, 0)
		case "+", "=":
			a.quickLog(model.Hours, a.opts.HoursStep)
		case "u":
			a.undoToday()
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	if len(a.goals) == 0 {
		return
	}
	a.cursor = min(max(a.cursor+delta, 0), len(a.goals)-1)
	a.entryScroll = 0
}

func (a *App) shiftMonth(delta int) {
	first := model.NewDate(a.year, a.month+time.Month(delta), 1)
	a.year, a.month = first.Year, first.Month
}

// quickLog records today's progress on the selected goal and flushes.
func (a *App) quickLog(want model.TrackingType, amount float64) {
	g, _, ok := a.selected()
	if !ok {
		a.setStatus(components.StatusWarn, "no goals yet")
		return
	}
	if g.TrackingType != want {
		hint := "s"
		if g.TrackingType == model.Hours {
			hint = "+"
		}
		a.setStatus(components.StatusWarn, "%s tracks %s, press %s", g.Title, g.TrackingType, hint)
		return
	}

	res, err := a.repo.Log(g.ID, a.opts.Today, amount, "")
	switch {
	case errors.Is(err, model.ErrDuplicateEntry):
		a.setStatus(components.StatusWarn, "session already logged today")
		return
	case err != nil:
		a.setStatus(components.StatusError, "%v", err)
		return
	}
	if !a.flush() {
		return
	}
	a.refresh()
	a.setStatus(components.StatusInfo, "logged %s, total %s",
		model.FormatValue(res.Added), model.FormatValue(res.Total))
}

// undoToday removes today's entry on the selected goal and flushes.
func (a *App) undoToday() {
	g, _, ok := a.selected()
	if !ok {
		return
	}
	removed, err := a.repo.Unlog(g.ID, a.opts.Today)
	if errors.Is(err, model.ErrNotFound) {
		a.setStatus(components.StatusWarn, "nothing logged today")
		return
	}
	if err != nil {
		a.setStatus(components.StatusError, "%v", err)
		return
	}
	if !a.flush() {
		return
	}
	a.refresh()
	a.setStatus(components.StatusInfo, "removed %s", cli.FormatAmount(g.TrackingType, removed))
}

// flush saves pending changes. When another process saved first, the
// unsaved change is dropped and the goals are reloaded from disk.
func (a *App) flush() bool {
	err := a.repo.Flush()
	switch {
	case err == nil:
		return true
	case errors.Is(err, model.ErrConflict):
		if err := a.repo.Reload(); err != nil {
			a.setStatus(components.StatusError, "%v", err)
			return false
		}
		a.refresh()
		a.setStatus(components.StatusWarn, "goals changed on disk and were reloaded, press again")
	default:
		a.setStatus(components.StatusError, "%v", err)
	}
	return false
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := a.setupVals.Save()
		if err != nil {
			a.setStatus(components.StatusError, "saving config: %v", err)
		} else {
			a.opts.WeekStart = cfg.WeekStart()
			a.opts.HoursStep = cfg.TUI.HoursStep
			a.setStatus(components.StatusInfo, "config saved")
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  goalpace needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"j k", "Select goal"},
		{"g c e w", "Jump to tab"},
		{"← → tab", "Previous / Next tab"},
		{"[ ] h l", "Previous / Next month"},
		{"t", "Back to this month"},
		{"J K", "Scroll entries"},
		{"s", "Log today's session"},
		{"+", fmt.Sprintf("Add %s hours today", model.FormatValue(a.opts.HoursStep))},
		{"u", "Undo today's entry"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.status, a.statusKind, a.opts.StorePath)
	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case len(a.goals) == 0:
		content = a.renderEmpty(cw)
	case a.activeTab == 0:
		content = a.renderGoalsTab(cw)
	case a.activeTab == 1:
		content = a.renderCalendarTab(cw)
	case a.activeTab == 2:
		content = a.renderEntriesTab(cw, contentH)
	case a.activeTab == 3:
		content = a.renderWeeklyTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderEmpty(cw int) string {
	body := "No goals yet.\n\nCreate one with:\n  goalpace create --title \"Gym\" --type sessions --target 100 --start 2024-01-01 --end 2024-12-31"
	return components.ContentCard("Welcome", body, cw)
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
