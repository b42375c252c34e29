package calendar

import (
	"time"

	"github.com/theirongolddev/goalpace/internal/model"
)

// Cell is one day in a month grid.
type Cell struct {
	Date    model.Date
	InMonth bool
	Logged  bool
	Value   float64
	HasNote bool
}

// MonthGrid is a month laid out as full weeks.
type MonthGrid struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Weeks     [][7]Cell
	Total     float64 // sum of values logged inside the month
}

// Month lays out year/month as weeks beginning on weekStart. Leading and
// trailing cells from neighbouring months are included with InMonth=false
// and still carry their logged values.
func Month(g model.Goal, year int, month time.Month, weekStart time.Weekday) MonthGrid {
	first := model.NewDate(year, month, 1)
	grid := MonthGrid{Year: first.Year, Month: first.Month, WeekStart: weekStart}

	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	day := first.AddDays(-offset)

	for {
		var week [7]Cell
		for i := range week {
			v, logged := g.ProgressLog[day]
			_, hasNote := g.Notes[day]
			week[i] = Cell{
				Date:    day,
				InMonth: day.Month == first.Month && day.Year == first.Year,
				Logged:  logged,
				Value:   v,
				HasNote: hasNote,
			}
			if week[i].InMonth {
				grid.Total += v
			}
			day = day.AddDays(1)
		}
		grid.Weeks = append(grid.Weeks, week)
		if day.Month != first.Month || day.Year != first.Year {
			break
		}
	}
	return grid
}

// WeekTotal is the amount logged in the week starting on Start.
type WeekTotal struct {
	Start model.Date
	Value float64
}

// Weekly buckets the log into weeks beginning on weekStart between since and
// until (inclusive). Weeks with nothing logged are present with zero so a
// chart shows the gaps. Returned oldest first.
func Weekly(g model.Goal, since, until model.Date, weekStart time.Weekday) []WeekTotal {
	if until.Before(since) {
		return nil
	}
	start := since.AddDays(-((int(since.Weekday()) - int(weekStart) + 7) % 7))

	var weeks []WeekTotal
	for ws := start; !ws.After(until); ws = ws.AddDays(7) {
		weeks = append(weeks, WeekTotal{Start: ws})
	}
	for d, v := range g.ProgressLog {
		if d.Before(since) || d.After(until) {
			continue
		}
		idx := start.DaysUntil(d) / 7
		weeks[idx].Value += v
	}
	return weeks
}
