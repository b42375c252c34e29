package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Pace summary of every goal",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}
	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	return renderStatus(cmd.OutOrStdout(), s.repo.List(), now)
}

func renderStatus(w io.Writer, gs []model.Goal, now model.Date) error {
	if len(gs) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  No goals yet. Create one with `goalpace create`.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("GOALS  %s", now)))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(gs))
	var behind []model.Goal
	var reports []pace.Report
	for _, g := range gs {
		r := pace.Compute(g, now)
		rows = append(rows, []string{
			g.Title,
			cli.FormatProgress(g.TrackingType, r.Current, r.Target),
			cli.FormatPercent(r.Fraction),
			fmt.Sprintf("%.2f", r.Required),
			fmt.Sprintf("%.2f", r.Expected),
			cli.FormatDeadline(now, g.EndDate),
			cli.RenderStatus(r.Status),
		})
		if r.CatchUp {
			behind = append(behind, g)
			reports = append(reports, r)
		}
	}

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Goal", "Progress", "Done", "Need/wk", "Plan/wk", "Deadline", "Status"},
		Rows:    rows,
	}))

	if flagQuiet {
		return nil
	}
	for i, g := range behind {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.RenderCatchUp(g, reports[i]))
	}
	return nil
}
