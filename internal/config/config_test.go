package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("GOALPACE_DATA_DIR", "")
	t.Setenv("GOALPACE_BACKEND", "")
	return dir
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if Exists() {
		t.Fatal("Exists = true with no file")
	}
	if cfg.General.Backend != BackendSQLite || cfg.TUI.HoursStep != 0.5 {
		t.Fatalf("defaults = %+v", cfg)
	}
	want := filepath.Join(dir, "data", "goalpace", "goals.db")
	if cfg.StorePath() != want {
		t.Fatalf("StorePath = %q, want %q", cfg.StorePath(), want)
	}
	if cfg.WeekStart() != time.Monday || cfg.DefaultTracking() != model.Sessions {
		t.Fatalf("week start %v tracking %v", cfg.WeekStart(), cfg.DefaultTracking())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.Backend = BackendJSON
	cfg.General.DataDir = "/tmp/goals"
	cfg.General.WeekStart = "sunday"
	cfg.General.DefaultTracking = "hours"
	cfg.TUI.HoursStep = 0.25
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
	if got.StorePath() != filepath.Join("/tmp/goals", "goals.json") {
		t.Fatalf("StorePath = %q", got.StorePath())
	}
	if got.WeekStart() != time.Sunday || got.DefaultTracking() != model.Hours {
		t.Fatalf("week start %v tracking %v", got.WeekStart(), got.DefaultTracking())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	if err := Save(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOALPACE_DATA_DIR", "/srv/goals")
	t.Setenv("GOALPACE_BACKEND", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir() != "/srv/goals" || cfg.General.Backend != BackendJSON {
		t.Fatalf("env not applied: %+v", cfg.General)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "goalpace", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		toml string
		want string
	}{
		{"backend", "[general]\nbackend = \"redis\"\n", "backend"},
		{"week", "[general]\nweek_start = \"friday\"\n", "week_start"},
		{"tracking", "[general]\ndefault_tracking = \"reps\"\n", "default_tracking"},
		{"level", "[log]\nlevel = \"loud\"\n", "log level"},
		{"step", "[tui]\nhours_step = 0.0\n", "hours_step"},
		{"syntax", "[general\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(path, []byte(tt.toml), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	lvl, err := cfg.LogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, %v", lvl, err)
	}
}
