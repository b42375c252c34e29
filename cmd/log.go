package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/goalpace/internal/cli"
	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/pace"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagLogDate        string
	flagLogAmount      float64
	flagLogNote        string
	flagLogInteractive bool

	flagUnlogDate string

	flagNoteDate string
	flagNoteText string
)

var logCmd = &cobra.Command{
	Use:   "log <goal>",
	Short: "Log progress on a goal",
	Long:  "Log a session or a number of hours on a goal. <goal> is an id, id prefix or title.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

var unlogCmd = &cobra.Command{
	Use:   "unlog <goal>",
	Short: "Remove the entry logged on a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlog,
}

var noteCmd = &cobra.Command{
	Use:   "note <goal>",
	Short: "Set or clear the note on a logged date",
	Args:  cobra.ExactArgs(1),
	RunE:  runNote,
}

func init() {
	logCmd.Flags().StringVar(&flagLogDate, "date", "", "Date YYYY-MM-DD (default today)")
	logCmd.Flags().Float64VarP(&flagLogAmount, "amount", "a", 0, "Hours to add (ignored for session goals)")
	logCmd.Flags().StringVar(&flagLogNote, "note", "", "Note for the day")
	logCmd.Flags().BoolVarP(&flagLogInteractive, "interactive", "i", false, "Ask for amount and note in a form")

	unlogCmd.Flags().StringVar(&flagUnlogDate, "date", "", "Date YYYY-MM-DD (default today)")

	noteCmd.Flags().StringVar(&flagNoteDate, "date", "", "Date YYYY-MM-DD (default today)")
	noteCmd.Flags().StringVar(&flagNoteText, "text", "", "Note text; empty clears the note")

	rootCmd.AddCommand(logCmd, unlogCmd, noteCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	now, err := today()
	if err != nil {
		return err
	}
	date, err := parseDateFlag("date", flagLogDate, now)
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

	amount, note := flagLogAmount, flagLogNote
	if flagLogInteractive {
		if amount, note, err = logForm(g, amount, note); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	res, err := s.repo.Log(g.ID, date, amount, note)
	if errors.Is(err, model.ErrDuplicateEntry) {
		fmt.Fprintln(out, cli.RenderWarning(fmt.Sprintf("%s: session already logged on %s", g.Title, date)))
		return nil
	}
	if err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}

	fmt.Fprintf(out, "  Logged %s on %s for %s (total %s)\n",
		cli.FormatAmount(g.TrackingType, res.Added), res.Date, g.Title,
		cli.FormatProgress(g.TrackingType, res.Total, g.TargetValue))

	updated, err := s.repo.Get(g.ID)
	if err != nil {
		return err
	}
	r := pace.Compute(updated, now)
	if r.Status == pace.StatusComplete {
		fmt.Fprintln(out, "  Goal complete!")
		return nil
	}
	if r.CatchUp && !flagQuiet {
		fmt.Fprintln(out, cli.RenderCatchUp(updated, r))
	}
	return nil
}

// logForm asks for the amount (hour goals) and the note.
func logForm(g model.Goal, amount float64, note string) (float64, string, error) {
	amountStr := model.FormatValue(amount)
	fields := []huh.Field{}
	if g.TrackingType == model.Hours {
		fields = append(fields, huh.NewInput().
			Title("Hours").
			Value(&amountStr).
			Validate(func(s string) error {
				f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil || f < 0 || f > model.MaxHoursPerEntry {
					return fmt.Errorf("enter hours between 0 and %g", model.MaxHoursPerEntry)
				}
				return nil
			}))
	}
	fields = append(fields, huh.NewText().Title("Note").Value(&note))

	if err := huh.NewForm(huh.NewGroup(fields...).Title(g.Title)).Run(); err != nil {
		return 0, "", err
	}
	if g.TrackingType == model.Hours {
		amount, _ = strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
	}
	return amount, note, nil
}

func runUnlog(cmd *cobra.Command, args []string) error {
	now, err := today()
	if err != nil {
		return err
	}
	date, err := parseDateFlag("date", flagUnlogDate, now)
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
	removed, err := s.repo.Unlog(g.ID, date)
	if err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Removed %s on %s from %s\n",
		cli.FormatAmount(g.TrackingType, removed), date, g.Title)
	return nil
}

func runNote(cmd *cobra.Command, args []string) error {
	now, err := today()
	if err != nil {
		return err
	}
	date, err := parseDateFlag("date", flagNoteDate, now)
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
	if err := s.repo.Annotate(g.ID, date, flagNoteText); err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}

	if strings.TrimSpace(flagNoteText) == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Cleared note on %s for %s\n", date, g.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "  Noted %s for %s\n", date, g.Title)
	}
	return nil
}
