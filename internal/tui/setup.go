package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/goalpace/internal/config"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	DataDir         string
	Backend         string
	WeekStart       string
	DefaultTracking string
	HoursStep       string
	Theme           string

	base config.Config
}

// DefaultSetupValues prefills the form from the current config, or from
// defaults when the config cannot be read.
func DefaultSetupValues() *SetupValues {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return &SetupValues{
		DataDir:         cfg.DataDir(),
		Backend:         cfg.General.Backend,
		WeekStart:       cfg.General.WeekStart,
		DefaultTracking: cfg.General.DefaultTracking,
		HoursStep:       model.FormatValue(cfg.TUI.HoursStep),
		Theme:           cfg.Appearance.Theme,
		base:            cfg,
	}
}

// NewSetupForm builds the huh form that edits v in place.
func NewSetupForm(v *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to goalpace").
				Description("Track goals by sessions or hours and see the weekly pace you need."),
			huh.NewInput().
				Title("Data directory").
				Value(&v.DataDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("SQLite database", config.BackendSQLite),
					huh.NewOption("JSON snapshot", config.BackendJSON),
				).
				Value(&v.Backend),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Weeks start on").
				Options(huh.NewOption("Monday", "monday"), huh.NewOption("Sunday", "sunday")).
				Value(&v.WeekStart),
			huh.NewSelect[string]().
				Title("Default tracking for new goals").
				Options(
					huh.NewOption("Sessions (once per day)", string(model.Sessions)),
					huh.NewOption("Hours", string(model.Hours)),
				).
				Value(&v.DefaultTracking),
			huh.NewInput().
				Title("Hours added by the + key").
				Value(&v.HoursStep).
				Validate(func(s string) error {
					_, err := parseHoursStep(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	)
}

// Config returns the configuration described by the answers.
func (v *SetupValues) Config() (config.Config, error) {
	cfg := v.base
	if cfg.General.Backend == "" {
		cfg = config.DefaultConfig()
	}
	step, err := parseHoursStep(v.HoursStep)
	if err != nil {
		return cfg, err
	}

	cfg.General.DataDir = strings.TrimSpace(v.DataDir)
	cfg.General.Backend = v.Backend
	cfg.General.WeekStart = v.WeekStart
	cfg.General.DefaultTracking = v.DefaultTracking
	cfg.TUI.HoursStep = step
	cfg.Appearance.Theme = v.Theme
	return cfg, cfg.Validate()
}

// Save writes the answers to the config file and applies the theme.
func (v *SetupValues) Save() (config.Config, error) {
	cfg, err := v.Config()
	if err != nil {
		return cfg, err
	}
	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg, nil
}

func parseHoursStep(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 || f > model.MaxHoursPerEntry {
		return 0, fmt.Errorf("enter a number of hours between 0 and %g", model.MaxHoursPerEntry)
	}
	return f, nil
}
