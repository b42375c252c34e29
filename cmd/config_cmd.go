package cmd

import (
	"fmt"

	"github.com/theirongolddev/goalpace/internal/config"
	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Data directory:   %s\n", cfg.DataDir())
	fmt.Fprintf(out, "    Backend:          %s\n", cfg.General.Backend)
	fmt.Fprintf(out, "    Store:            %s\n", cfg.StorePath())
	fmt.Fprintf(out, "    Week starts:      %s\n", cfg.WeekStart())
	fmt.Fprintf(out, "    Default tracking: %s\n", cfg.DefaultTracking())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Log]")
	fmt.Fprintf(out, "    Level: %s\n", cfg.Log.Level)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Appearance]")
	fmt.Fprintf(out, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [TUI]")
	fmt.Fprintf(out, "    Hours step: %s\n", model.FormatValue(cfg.TUI.HoursStep))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Run `goalpace setup` to reconfigure.")
	return nil
}
