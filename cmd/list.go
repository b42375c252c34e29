package cmd

import (
	"fmt"

	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List goals with their ids",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	gs := s.repo.List()
	if len(gs) == 0 {
		fmt.Fprintln(out, "\n  No goals yet.")
		return nil
	}

	rows := make([][]string, 0, len(gs))
	for _, g := range gs {
		rows = append(rows, []string{
			shortID(g.ID),
			g.Title,
			g.TrackingType.Title(),
			model.FormatValue(g.TargetValue),
			g.StartDate.String() + " → " + g.EndDate.String(),
			cli.FormatNumber(int64(len(g.ProgressLog))),
		})
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%d goals in %s", len(gs), s.path),
		Headers: []string{"ID", "Title", "Type", "Target", "Window", "Days"},
		Rows:    rows,
	}))
	return nil
}
