package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config holds all goalpace configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds storage and calendar preferences.
type GeneralConfig struct {
	DataDir         string `toml:"data_dir,omitempty"`
	Backend         string `toml:"backend"`
	WeekStart       string `toml:"week_start"`
	DefaultTracking string `toml:"default_tracking"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	HoursStep float64 `toml:"hours_step"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Backend:         BackendSQLite,
			WeekStart:       "monday",
			DefaultTracking: string(model.Sessions),
		},
		Log: LogConfig{
			Level: "warn",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			HoursStep: 0.5,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalpace")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "goalpace")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalpace")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "goalpace")
}

// Load reads the config file, returning defaults if it doesn't exist.
// GOALPACE_DATA_DIR and GOALPACE_BACKEND override the file.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if dir := os.Getenv("GOALPACE_DATA_DIR"); dir != "" {
		cfg.General.DataDir = dir
	}
	if backend := os.Getenv("GOALPACE_BACKEND"); backend != "" {
		cfg.General.Backend = backend
	}
	return cfg, cfg.Validate()
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(Dir(), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.General.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("config: unknown backend %q (want %s or %s)", c.General.Backend, BackendSQLite, BackendJSON)
	}
	if _, err := ParseWeekStart(c.General.WeekStart); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := model.ParseTrackingType(c.General.DefaultTracking); err != nil {
		return fmt.Errorf("config: default_tracking: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.TUI.HoursStep <= 0 || c.TUI.HoursStep > model.MaxHoursPerEntry {
		return fmt.Errorf("config: hours_step must be in (0, %g], got %g", model.MaxHoursPerEntry, c.TUI.HoursStep)
	}
	return nil
}

// DataDir returns the configured data directory or the XDG default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// StorePath returns the store file for the configured backend.
func (c Config) StorePath() string {
	name := "goals.db"
	if c.General.Backend == BackendJSON {
		name = "goals.json"
	}
	return filepath.Join(c.DataDir(), name)
}

// WeekStart returns the first day of the calendar week.
func (c Config) WeekStart() time.Weekday {
	d, err := ParseWeekStart(c.General.WeekStart)
	if err != nil {
		return time.Monday
	}
	return d
}

// ParseWeekStart accepts "monday" or "sunday" in any case.
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "mon", "":
		return time.Monday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	}
	return 0, fmt.Errorf("week_start %q (want monday or sunday)", s)
}

// DefaultTracking returns the tracking type preselected by create.
func (c Config) DefaultTracking() model.TrackingType {
	t, err := model.ParseTrackingType(c.General.DefaultTracking)
	if err != nil {
		return model.Sessions
	}
	return t
}

// LogLevel maps the configured level name to a slog level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log level %q", c.Log.Level)
	}
	return lvl, nil
}
