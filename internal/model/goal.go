// Package model defines domain types for goalpace goals and progress logs.
package model

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// TrackingType decides how daily entries accumulate.
type TrackingType string

const (
	// Sessions allows one entry of exactly 1 per day.
	Sessions TrackingType = "sessions"
	// Hours accumulates every entry logged on the same day.
	Hours TrackingType = "hours"
)

// MaxHoursPerEntry bounds a single hours log call.
const MaxHoursPerEntry = 24.0

// ParseTrackingType accepts "sessions"/"hours" in any case, singular or plural.
func ParseTrackingType(s string) (TrackingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sessions", "session":
		return Sessions, nil
	case "hours", "hour":
		return Hours, nil
	default:
		return "", fmt.Errorf("%w: unknown tracking type %q (want sessions or hours)", ErrValidation, s)
	}
}

// Valid reports whether t is a known tracking type.
func (t TrackingType) Valid() bool {
	return t == Sessions || t == Hours
}

// Unit returns the display unit for value: "session"/"sessions" for session
// goals, always "hours" for hour goals.
func (t TrackingType) Unit(value float64) string {
	if t == Sessions {
		if value == 1 {
			return "session"
		}
		return "sessions"
	}
	return "hours"
}

// Title returns the capitalized type name.
func (t TrackingType) Title() string {
	if t == Sessions {
		return "Sessions"
	}
	return "Hours"
}

// Goal is a tracked target with a deadline and an accumulation type.
type Goal struct {
	ID           string
	Title        string
	TargetValue  float64
	TrackingType TrackingType
	StartDate    Date
	EndDate      Date

	// ProgressLog holds the value logged per day.
	ProgressLog map[Date]float64
	// Notes holds free text per logged day; keys are a subset of ProgressLog's.
	Notes map[Date]string
}

// Clone returns a deep copy of g.
func (g Goal) Clone() Goal {
	c := g
	c.ProgressLog = make(map[Date]float64, len(g.ProgressLog))
	for d, v := range g.ProgressLog {
		c.ProgressLog[d] = v
	}
	c.Notes = make(map[Date]string, len(g.Notes))
	for d, n := range g.Notes {
		c.Notes[d] = n
	}
	return c
}

// Dates returns the logged dates in ascending order.
func (g Goal) Dates() []Date {
	dates := make([]Date, 0, len(g.ProgressLog))
	for d := range g.ProgressLog {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, Date.Compare)
	return dates
}

// TotalDays is the length of the goal window in days.
func (g Goal) TotalDays() int {
	return g.StartDate.DaysUntil(g.EndDate)
}

// Validate checks the goal's own fields. It does not look at the log.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if math.IsNaN(g.TargetValue) || math.IsInf(g.TargetValue, 0) || g.TargetValue <= 0 {
		return fmt.Errorf("%w: target must be greater than zero", ErrValidation)
	}
	if !g.TrackingType.Valid() {
		return fmt.Errorf("%w: unknown tracking type %q", ErrValidation, g.TrackingType)
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if !g.EndDate.After(g.StartDate) {
		return fmt.Errorf("%w: end date %s must be after start date %s", ErrValidation, g.EndDate, g.StartDate)
	}
	return nil
}

// FormatValue renders an amount rounded to two decimals without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
