package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/goalpace/internal/goals"
	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagEditTitle  string
	flagEditTarget float64
	flagEditEnd    string
)

var editCmd = &cobra.Command{
	Use:   "edit <goal>",
	Short: "Change a goal's title, target or end date",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&flagEditTitle, "title", "", "New title")
	editCmd.Flags().Float64Var(&flagEditTarget, "target", 0, "New target value")
	editCmd.Flags().StringVar(&flagEditEnd, "end", "", "New end date YYYY-MM-DD")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	var c goals.Changes
	flags := cmd.Flags()
	if flags.Changed("title") {
		c.Title = &flagEditTitle
	}
	if flags.Changed("target") {
		c.TargetValue = &flagEditTarget
	}
	if flags.Changed("end") {
		end, err := model.ParseDate(flagEditEnd)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		c.EndDate = &end
	}
	if c.Title == nil && c.TargetValue == nil && c.EndDate == nil {
		return errors.New("nothing to change: pass --title, --target or --end")
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
	updated, err := s.repo.Update(g.ID, c)
	if err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Updated %q: %s by %s\n", updated.Title,
		model.FormatValue(updated.TargetValue)+" "+updated.TrackingType.Unit(updated.TargetValue), updated.EndDate)
	return nil
}
