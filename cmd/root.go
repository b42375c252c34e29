// Package cmd implements the goalpace CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/config"
	"github.com/theirongolddev/goalpace/internal/goals"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/store"
	"github.com/theirongolddev/goalpace/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagBackend string
	flagToday   string
	flagQuiet   bool
	flagVerbose bool
)

// appConfig is the loaded config with flag overrides applied.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "goalpace",
	Short:             "Goal progress and pace tracker",
	Long:              "Track time-bound goals by sessions or hours and see the weekly pace needed to finish.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding the goal store (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Store backend: sqlite or json (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Treat this date (YYYY-MM-DD) as today")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings and banners")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug events to stderr")
}

// prepare loads config, applies flag overrides, the theme and the logger.
func prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.General.Backend = flagBackend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg
	theme.SetActive(cfg.Appearance.Theme)

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// today returns --today when given, the local date otherwise.
func today() (model.Date, error) {
	if flagToday == "" {
		return model.Today(), nil
	}
	d, err := model.ParseDate(flagToday)
	if err != nil {
		return model.Date{}, fmt.Errorf("--today: %w", err)
	}
	return d, nil
}

// parseDateFlag parses a date flag, falling back to def when empty.
func parseDateFlag(name, value string, def model.Date) (model.Date, error) {
	if value == "" {
		return def, nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// session is one opened store plus the repository over it.
type session struct {
	repo  *goals.Repository
	path  string
	close func()
}

// openStore opens the configured backend at its store path.
func openStore(cfg config.Config) (goals.Store, func(), error) {
	path := cfg.StorePath()
	switch cfg.General.Backend {
	case config.BackendJSON:
		s, err := store.OpenJSON(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return s, func() {}, nil
	default:
		s, err := store.OpenSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Warn("store_close_failed", "path", path, "err", err)
			}
		}, nil
	}
}

// openSession opens the store and loads the repository. A corrupt store is
// reported on errOut and the session starts empty.
func openSession(errOut io.Writer) (*session, error) {
	st, closeFn, err := openStore(appConfig)
	if err != nil {
		return nil, err
	}
	repo, err := goals.Open(st)
	if err != nil {
		closeFn()
		return nil, err
	}
	if w := repo.Warning(); w != nil && !flagQuiet {
		fmt.Fprintln(errOut, cli.RenderWarning(fmt.Sprintf("store was unreadable and has been reset: %v", w)))
	}
	return &session{repo: repo, path: appConfig.StorePath(), close: closeFn}, nil
}

// resolveGoal looks a goal up by id, id prefix or title.
func resolveGoal(repo *goals.Repository, ref string) (model.Goal, error) {
	g, err := repo.Resolve(ref)
	if errors.Is(err, model.ErrNotFound) {
		return model.Goal{}, fmt.Errorf("%w (see `goalpace list`)", err)
	}
	return g, err
}

// flush writes pending changes and explains a concurrent-writer conflict.
func flush(repo *goals.Repository) error {
	err := repo.Flush()
	if errors.Is(err, model.ErrConflict) {
		return fmt.Errorf("%w: another goalpace process saved first, run the command again", err)
	}
	return err
}
