// Package pace computes progress, required and expected weekly pace, and the
// catch-up decision for a goal. Every function is pure; "today" is passed in.
package pace

import (
	"math"

	"github.com/theirongolddev/goalpace/internal/model"
	"github.com/theirongolddev/goalpace/internal/progress"
)

// CatchUpTolerance is how far required pace may exceed expected pace before
// the goal is considered behind.
const CatchUpTolerance = 1.1

// Status summarizes where a goal stands.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusOnTrack    Status = "on-track"
	StatusBehind     Status = "behind"
	StatusComplete   Status = "complete"
	StatusExpired    Status = "expired"
)

// Report bundles every derived metric for one goal on one day.
type Report struct {
	Current   float64
	Target    float64
	Remaining float64

	TotalDays  int
	DaysPassed int
	DaysLeft   int

	Required float64 // per week from today to the deadline
	Expected float64 // per week from start to deadline

	Fraction float64 // current/target clamped to [0, 1]
	CatchUp  bool

	// ProjectedTotal extrapolates the pace so far to the deadline.
	// Zero until at least one day has passed.
	ProjectedTotal float64

	Status Status
}

// CurrentProgress is the sum of every logged value.
func CurrentProgress(g model.Goal) float64 {
	return progress.Total(g)
}

// RequiredWeeklyPace returns the per-week amount still needed to hit the target
// by the deadline, or 0 once the target is met or no days are left.
func RequiredWeeklyPace(g model.Goal, today model.Date) float64 {
	remaining := g.TargetValue - CurrentProgress(g)
	daysLeft := daysLeft(g, today)
	if daysLeft <= 0 || remaining <= 0 {
		return 0
	}
	return remaining / float64(daysLeft) * 7
}

// ExpectedWeeklyPace is the uniform pace needed from day one.
func ExpectedWeeklyPace(g model.Goal) float64 {
	total := g.TotalDays()
	if total <= 0 {
		return 0
	}
	return g.TargetValue / (float64(total) / 7)
}

// NeedsCatchUp reports whether the required pace exceeds the expected pace
// by more than the tolerance band.
func NeedsCatchUp(g model.Goal, today model.Date) bool {
	return RequiredWeeklyPace(g, today) > ExpectedWeeklyPace(g)*CatchUpTolerance
}

// Fraction is current/target clamped so over-achievement shows a full bar.
func Fraction(g model.Goal) float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, CurrentProgress(g)/g.TargetValue))
}

// Compute returns the full report for g as of today.
func Compute(g model.Goal, today model.Date) Report {
	r := Report{
		Current:    CurrentProgress(g),
		Target:     g.TargetValue,
		TotalDays:  g.TotalDays(),
		DaysPassed: g.StartDate.DaysUntil(today),
		Required:   RequiredWeeklyPace(g, today),
		Expected:   ExpectedWeeklyPace(g),
		Fraction:   Fraction(g),
	}
	r.DaysLeft = r.TotalDays - r.DaysPassed
	r.Remaining = r.Target - r.Current
	r.CatchUp = r.Required > r.Expected*CatchUpTolerance

	if r.DaysPassed > 0 && r.TotalDays > 0 {
		r.ProjectedTotal = r.Current / float64(r.DaysPassed) * float64(r.TotalDays)
	}

	switch {
	case r.Remaining <= 0:
		r.Status = StatusComplete
	case r.DaysLeft <= 0:
		r.Status = StatusExpired
	case r.DaysPassed < 0:
		r.Status = StatusNotStarted
	case r.CatchUp:
		r.Status = StatusBehind
	default:
		r.Status = StatusOnTrack
	}
	return r
}

func daysLeft(g model.Goal, today model.Date) int {
	return g.TotalDays() - g.StartDate.DaysUntil(today)
}
