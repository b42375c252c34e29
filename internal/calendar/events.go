// Package calendar projects a goal's progress log into display events,
// cumulative series and month grids. Nothing here mutates the goal.
package calendar

import (
	"iter"

	"github.com/theirongolddev/goalpace/internal/model"
)

// NotePreviewLen is the number of characters of a note shown in a label.
const NotePreviewLen = 50

// Event colors per tracking type.
const (
	ColorSessions = "#28a745"
	ColorHours    = "#007bff"
)

// ColorFor returns the event color for a tracking type.
func ColorFor(t model.TrackingType) string {
	if t == model.Sessions {
		return ColorSessions
	}
	return ColorHours
}

// Event is one logged day ready for a calendar widget.
type Event struct {
	Date  model.Date
	Label string
	Value float64
	Note  string
	Color string
}

// Events yields one event per logged date in ascending date order. The
// sequence can be ranged over any number of times; each pass reflects the
// log at the moment iteration starts.
func Events(g model.Goal) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		color := ColorFor(g.TrackingType)
		for _, d := range g.Dates() {
			v := g.ProgressLog[d]
			note := g.Notes[d]
			ev := Event{
				Date:  d,
				Label: Label(g.TrackingType, v, note),
				Value: v,
				Note:  note,
				Color: color,
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Label composes "<value> <unit>" and, when a note exists, a second line with
// a preview of the note.
func Label(t model.TrackingType, value float64, note string) string {
	label := model.FormatValue(value) + " " + t.Unit(value)
	if note != "" {
		label += "\n📝 " + Preview(note, NotePreviewLen)
	}
	return label
}

// Preview returns the first n characters of s, with "..." appended when s
// was cut.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Point is one step of a cumulative series.
type Point struct {
	Date  model.Date
	Value float64
	Total float64
}

// Cumulative runs a sum over events, for progress-over-time charts.
func Cumulative(events iter.Seq[Event]) []Point {
	var points []Point
	var total float64
	for ev := range events {
		total += ev.Value
		points = append(points, Point{Date: ev.Date, Value: ev.Value, Total: total})
	}
	return points
}
