// Package progress applies the per-day logging rules to a goal's progress log.
package progress

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/goalpace/internal/model"
)

// Result describes a successful log call.
type Result struct {
	Date  model.Date
	Entry float64 // stored value for Date after the call
	Added float64 // amount this call contributed
	Total float64 // goal's cumulative progress after the call
	Note  string  // note stored for Date, if any
}

// Log records amount on date. Session goals store exactly 1 and reject a second
// entry for the same day with model.ErrDuplicateEntry. Hour goals add amount
// (bounded to [0, 24] per call) to whatever is already logged that day.
// A non-blank note replaces the day's note; a blank one writes nothing.
//
// g is left untouched when an error is returned.
func Log(g *model.Goal, date model.Date, amount float64, note string) (Result, error) {
	if date.IsZero() {
		return Result{}, fmt.Errorf("%w: date is required", model.ErrValidation)
	}

	var added float64
	switch g.TrackingType {
	case model.Sessions:
		if _, ok := g.ProgressLog[date]; ok {
			return Result{}, fmt.Errorf("%w: session on %s", model.ErrDuplicateEntry, date)
		}
		added = 1
	case model.Hours:
		if math.IsNaN(amount) || amount < 0 || amount > model.MaxHoursPerEntry {
			return Result{}, fmt.Errorf("%w: hours must be between 0 and %g, got %g",
				model.ErrValidation, model.MaxHoursPerEntry, amount)
		}
		added = amount
	default:
		return Result{}, fmt.Errorf("%w: unknown tracking type %q", model.ErrValidation, g.TrackingType)
	}

	if g.ProgressLog == nil {
		g.ProgressLog = make(map[model.Date]float64)
	}
	g.ProgressLog[date] += added

	if note = strings.TrimSpace(note); note != "" {
		if g.Notes == nil {
			g.Notes = make(map[model.Date]string)
		}
		g.Notes[date] = note
	}

	return Result{
		Date:  date,
		Entry: g.ProgressLog[date],
		Added: added,
		Total: Total(*g),
		Note:  g.Notes[date],
	}, nil
}

// Unlog removes the entry and note for date.
func Unlog(g *model.Goal, date model.Date) (float64, error) {
	v, ok := g.ProgressLog[date]
	if !ok {
		return 0, fmt.Errorf("%w: no entry on %s", model.ErrNotFound, date)
	}
	delete(g.ProgressLog, date)
	delete(g.Notes, date)
	return v, nil
}

// Annotate sets the note for an already logged date. A blank note clears it.
func Annotate(g *model.Goal, date model.Date, note string) error {
	if _, ok := g.ProgressLog[date]; !ok {
		return fmt.Errorf("%w: no entry on %s to attach a note to", model.ErrNotFound, date)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		delete(g.Notes, date)
		return nil
	}
	if g.Notes == nil {
		g.Notes = make(map[model.Date]string)
	}
	g.Notes[date] = note
	return nil
}

// Total is the sum of every logged value.
func Total(g model.Goal) float64 {
	var sum float64
	for _, v := range g.ProgressLog {
		sum += v
	}
	return sum
}
