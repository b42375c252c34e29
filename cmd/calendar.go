package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/spf13/cobra"
)

var flagCalendarMonth string

var calendarCmd = &cobra.Command{
	Use:     "calendar <goal>",
	Aliases: []string{"cal"},
	Short:   "Month calendar of logged days and notes",
	Args:    cobra.ExactArgs(1),
	RunE:    runCalendar,
}

func init() {
	calendarCmd.Flags().StringVarP(&flagCalendarMonth, "month", "m", "", "Month YYYY-MM (default this month)")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now, err := today()
	if err != nil {
		return err
	}
	year, month, err := parseMonth(flagCalendarMonth, now)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	g, err := resolveGoal(s.repo, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	grid := calendar.Month(g, year, month, appConfig.WeekStart())
	fmt.Fprintln(out)
	fmt.Fprintln(out, indent(cli.RenderMonth(grid, g.TrackingType, now)))

	var notes []string
	for ev := range calendar.Events(g) {
		if ev.Date.Year == year && ev.Date.Month == month && ev.Note != "" {
			notes = append(notes, fmt.Sprintf("  %s  %s", ev.Date, calendar.Preview(ev.Note, calendar.NotePreviewLen)))
		}
	}
	if len(notes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Join(notes, "\n"))
	}
	return nil
}

// parseMonth parses YYYY-MM, defaulting to the month of now.
func parseMonth(s string, now model.Date) (int, time.Month, error) {
	if s == "" {
		return now.Year, now.Month, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: --month %q (want YYYY-MM)", model.ErrValidation, s)
	}
	return t.Year(), t.Month(), nil
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
