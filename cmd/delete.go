package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagDeleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <goal>",
	Aliases: []string{"rm"},
	Short:   "Delete a goal with its log and notes",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&flagDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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
	if !flagDeleteYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its %d logged days?", g.Title, len(g.ProgressLog))).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "  Kept.")
			return nil
		}
	}

	if err := s.repo.Delete(g.ID); err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Deleted %q\n", g.Title)
	return nil
}
