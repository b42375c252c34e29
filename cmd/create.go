package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/goalpace/internal/goals"
	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagCreateTitle  string
	flagCreateType   string
	flagCreateTarget float64
	flagCreateStart  string
	flagCreateEnd    string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a goal (interactive when --title is missing)",
	Args:  cobra.NoArgs,
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&flagCreateTitle, "title", "t", "", "Goal title")
	createCmd.Flags().StringVar(&flagCreateType, "type", "", "Tracking type: sessions or hours (default from config)")
	createCmd.Flags().Float64Var(&flagCreateTarget, "target", 0, "Target number of sessions or hours")
	createCmd.Flags().StringVar(&flagCreateStart, "start", "", "Start date YYYY-MM-DD (default today)")
	createCmd.Flags().StringVar(&flagCreateEnd, "end", "", "End date YYYY-MM-DD")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	now, err := today()
	if err != nil {
		return err
	}

	var in goals.NewGoal
	if strings.TrimSpace(flagCreateTitle) == "" {
		in, err = createForm(now)
	} else {
		in, err = createFromFlags(now)
	}
	if err != nil {
		return err
	}

	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	g, err := s.repo.Create(in)
	if err != nil {
		return err
	}
	if err := flush(s.repo); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Created %q (%s): %s by %s\n",
		g.Title, shortID(g.ID), model.FormatValue(g.TargetValue)+" "+g.TrackingType.Unit(g.TargetValue), g.EndDate)
	return nil
}

func createFromFlags(now model.Date) (goals.NewGoal, error) {
	tt := appConfig.DefaultTracking()
	if flagCreateType != "" {
		var err error
		if tt, err = model.ParseTrackingType(flagCreateType); err != nil {
			return goals.NewGoal{}, err
		}
	}
	start, err := parseDateFlag("start", flagCreateStart, now)
	if err != nil {
		return goals.NewGoal{}, err
	}
	if flagCreateEnd == "" {
		return goals.NewGoal{}, fmt.Errorf("%w: --end is required", model.ErrValidation)
	}
	end, err := parseDateFlag("end", flagCreateEnd, model.Date{})
	if err != nil {
		return goals.NewGoal{}, err
	}
	return goals.NewGoal{
		Title:        flagCreateTitle,
		TrackingType: tt,
		TargetValue:  flagCreateTarget,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// createForm asks for every field with a huh form.
func createForm(now model.Date) (goals.NewGoal, error) {
	var (
		title  string
		kind   = string(appConfig.DefaultTracking())
		target string
		start  = now.String()
		end    = model.NewDate(now.Year, 12, 31).String()
	)
	if end <= start {
		end = now.AddDays(365).String()
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Gym sessions").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Track by").
				Options(
					huh.NewOption("Sessions (once per day)", string(model.Sessions)),
					huh.NewOption("Hours", string(model.Hours)),
				).
				Value(&kind),
			huh.NewInput().
				Title("Target").
				Value(&target).
				Validate(validatePositive),
			huh.NewInput().
				Title("Start date").
				Value(&start).
				Validate(validateDate),
			huh.NewInput().
				Title("End date").
				Value(&end).
				Validate(validateDate),
		),
	)
	if err := form.Run(); err != nil {
		return goals.NewGoal{}, err
	}

	tt, err := model.ParseTrackingType(kind)
	if err != nil {
		return goals.NewGoal{}, err
	}
	tv, _ := strconv.ParseFloat(strings.TrimSpace(target), 64)
	sd, _ := model.ParseDate(strings.TrimSpace(start))
	ed, _ := model.ParseDate(strings.TrimSpace(end))
	return goals.NewGoal{Title: title, TrackingType: tt, TargetValue: tv, StartDate: sd, EndDate: ed}, nil
}

func validatePositive(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return errors.New("enter a number greater than 0")
	}
	return nil
}

func validateDate(s string) error {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err
}

// shortID abbreviates a goal id for display; any unique prefix resolves.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
