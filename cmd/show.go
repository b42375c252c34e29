package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/theirongolddev/goalpace/internal/calendar"
	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"

	"github.com/spf13/cobra"
)

var flagShowEntries int

var showCmd = &cobra.Command{
	Use:   "show <goal>",
	Short: "Detailed progress, pace and calendar of one goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&flagShowEntries, "entries", 10, "Number of recent entries to list")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	now, err := today()
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
	renderGoal(cmd.OutOrStdout(), g, now, flagShowEntries)
	return nil
}

func renderGoal(w io.Writer, g model.Goal, now model.Date, entries int) {
	r := pace.Compute(g, now)

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(g.Title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s\n", cli.RenderProgressBar(r, 40), cli.RenderStatus(r.Status))
	fmt.Fprintln(w)

	projected := "-"
	if r.DaysPassed > 0 {
		projected = cli.FormatAmount(g.TrackingType, r.ProjectedTotal)
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Progress", cli.FormatProgress(g.TrackingType, r.Current, r.Target)},
			{"Remaining", cli.FormatAmount(g.TrackingType, r.Remaining)},
			{"Window", fmt.Sprintf("%s → %s (%d days)", g.StartDate, g.EndDate, r.TotalDays)},
			{"Deadline", cli.FormatDeadline(now, g.EndDate) + ", " + cli.FormatDaysLeft(r.DaysLeft)},
			{"Required pace", cli.FormatPace(g.TrackingType, r.Required)},
			{"Planned pace", cli.FormatPace(g.TrackingType, r.Expected)},
			{"Projected total", projected},
		},
	}))

	if alert := cli.RenderCatchUp(g, r); alert != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, alert)
	}

	points := calendar.Cumulative(calendar.Events(g))
	if len(points) > 1 {
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Total
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Cumulative  %s\n", cli.RenderSparkline(values))
	}

	if entries > 0 {
		events := slices.Collect(calendar.Events(g))
		slices.Reverse(events)
		events = events[:min(entries, len(events))]
		if len(events) > 0 {
			rows := make([][]string, len(events))
			for i, ev := range events {
				rows[i] = []string{
					ev.Date.String(),
					cli.FormatWeekday(ev.Date.Weekday()),
					cli.FormatAmount(g.TrackingType, ev.Value),
					calendar.Preview(ev.Note, calendar.NotePreviewLen),
				}
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, cli.RenderTable(cli.Table{
				Title:   "Recent entries",
				Headers: []string{"Date", "Day", "Amount", "Note"},
				Rows:    rows,
			}))
		}
	}

	month := now
	if now.After(g.EndDate) {
		month = g.EndDate
	} else if now.Before(g.StartDate) {
		month = g.StartDate
	}
	grid := calendar.Month(g, month.Year, month.Month, appConfig.WeekStart())
	fmt.Fprintln(w)
	fmt.Fprintln(w, indent(cli.RenderMonth(grid, g.TrackingType, now)))
}
