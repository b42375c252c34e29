package pace

import (
	"math"
	"testing"

	"github.com/theirongolddev/goalpace/internal/model"
)

func yearGoal(sessions int) model.Goal {
	g := model.Goal{
		ID:           "g",
		Title:        "Gym",
		TargetValue:  100,
		TrackingType: model.Sessions,
		StartDate:    model.MustParseDate("2024-01-01"),
		EndDate:      model.MustParseDate("2024-12-31"),
		ProgressLog:  map[model.Date]float64{},
	}
	day := g.StartDate
	for i := 0; i < sessions; i++ {
		g.ProgressLog[day] = 1
		day = day.AddDays(1)
	}
	return g
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestBehindScenarioFiresAlert(t *testing.T) {
	g := yearGoal(40)
	today := model.MustParseDate("2024-07-01")

	r := Compute(g, today)
	if r.TotalDays != 365 || r.DaysPassed != 182 || r.DaysLeft != 183 {
		t.Fatalf("days = %d/%d/%d, want 365/182/183", r.TotalDays, r.DaysPassed, r.DaysLeft)
	}
	if r.Remaining != 60 {
		t.Fatalf("Remaining = %v, want 60", r.Remaining)
	}
	if !approx(r.Expected, 1.918) {
		t.Fatalf("Expected = %.3f, want ~1.918", r.Expected)
	}
	if !approx(r.Required, 2.295) {
		t.Fatalf("Required = %.3f, want ~2.295", r.Required)
	}
	if !r.CatchUp || !NeedsCatchUp(g, today) {
		t.Fatal("catch-up alert should fire")
	}
	if r.Status != StatusBehind {
		t.Fatalf("Status = %s, want behind", r.Status)
	}
}

func TestOnTrackScenarioNoAlert(t *testing.T) {
	g := yearGoal(50)
	today := model.MustParseDate("2024-07-01")

	r := Compute(g, today)
	if !approx(r.Required, 1.913) {
		t.Fatalf("Required = %.3f, want ~1.913", r.Required)
	}
	if r.CatchUp || NeedsCatchUp(g, today) {
		t.Fatal("no alert expected")
	}
	if r.Status != StatusOnTrack {
		t.Fatalf("Status = %s, want on-track", r.Status)
	}
}

func TestRequiredPaceZeroWhenMet(t *testing.T) {
	g := yearGoal(100)
	for _, today := range []string{"2024-01-15", "2024-07-01", "2025-03-01"} {
		if got := RequiredWeeklyPace(g, model.MustParseDate(today)); got != 0 {
			t.Errorf("RequiredWeeklyPace(%s) = %v, want 0", today, got)
		}
	}
	g.ProgressLog[model.MustParseDate("2024-12-01")] = 1
	if Fraction(g) != 1 {
		t.Fatalf("Fraction = %v, want clamped 1", Fraction(g))
	}
	if r := Compute(g, model.MustParseDate("2024-07-01")); r.Status != StatusComplete {
		t.Fatalf("Status = %s, want complete", r.Status)
	}
}

func TestRequiredPaceZeroAfterDeadline(t *testing.T) {
	g := yearGoal(10)
	today := model.MustParseDate("2025-01-05")
	if got := RequiredWeeklyPace(g, today); got != 0 {
		t.Fatalf("RequiredWeeklyPace = %v, want 0", got)
	}
	if NeedsCatchUp(g, today) {
		t.Fatal("expired goal should not raise the alert")
	}
	if r := Compute(g, today); r.Status != StatusExpired {
		t.Fatalf("Status = %s, want expired", r.Status)
	}
}

func TestBeforeStartDate(t *testing.T) {
	g := yearGoal(0)
	today := model.MustParseDate("2023-12-01")
	r := Compute(g, today)
	if r.DaysPassed >= 0 {
		t.Fatalf("DaysPassed = %d, want negative", r.DaysPassed)
	}
	if r.DaysLeft <= r.TotalDays {
		t.Fatalf("DaysLeft = %d should exceed TotalDays", r.DaysLeft)
	}
	if r.Required >= r.Expected {
		t.Fatalf("Required %.3f should be below Expected %.3f before start", r.Required, r.Expected)
	}
	if r.CatchUp || r.Status != StatusNotStarted {
		t.Fatalf("Status = %s CatchUp = %v", r.Status, r.CatchUp)
	}
	if r.ProjectedTotal != 0 {
		t.Fatalf("ProjectedTotal = %v, want 0 before start", r.ProjectedTotal)
	}
}

func TestProjectedTotal(t *testing.T) {
	g := yearGoal(0)
	g.TargetValue = 730
	g.TrackingType = model.Hours
	g.ProgressLog[g.StartDate] = 73
	r := Compute(g, g.StartDate.AddDays(36))
	if !approx(r.ProjectedTotal, 73.0/36*365) {
		t.Fatalf("ProjectedTotal = %v", r.ProjectedTotal)
	}
}

func TestExpectedPaceDegenerateWindow(t *testing.T) {
	g := yearGoal(0)
	g.EndDate = g.StartDate
	if got := ExpectedWeeklyPace(g); got != 0 {
		t.Fatalf("ExpectedWeeklyPace = %v, want 0 for empty window", got)
	}
}
