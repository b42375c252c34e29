// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/goalpace/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatAmount formats a logged value with its unit.
// e.g., (sessions, 1) -> "1 session", (hours, 2.5) -> "2.5 hours"
func FormatAmount(t model.TrackingType, v float64) string {
	return model.FormatValue(v) + " " + t.Unit(v)
}

// FormatPace formats a per-week rate.
// e.g., 2.2951 -> "2.30 sessions/week"
func FormatPace(t model.TrackingType, perWeek float64) string {
	unit := "sessions"
	if t == model.Hours {
		unit = "hours"
	}
	return fmt.Sprintf("%.2f %s/week", perWeek, unit)
}

// FormatProgress formats current/target with the unit.
// e.g., "40/100 sessions"
func FormatProgress(t model.TrackingType, current, target float64) string {
	unit := "sessions"
	if t == model.Hours {
		unit = "hours"
	}
	return model.FormatValue(current) + "/" + model.FormatValue(target) + " " + unit
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDaysLeft formats a day count for the deadline column.
func FormatDaysLeft(days int) string {
	switch {
	case days <= 0:
		return "ended"
	case days == 1:
		return "1 day left"
	default:
		return FormatNumber(int64(days)) + " days left"
	}
}

// FormatDeadline describes end relative to today.
// e.g., "ends 6 months from now", "ended 2 weeks ago", "ends today"
func FormatDeadline(today, end model.Date) string {
	switch {
	case end == today:
		return "ends today"
	case end.After(today):
		return "ends " + humanize.RelTime(end.Time(), today.Time(), "ago", "from now")
	default:
		return "ended " + humanize.RelTime(end.Time(), today.Time(), "ago", "from now")
	}
}

// FormatWeekday returns a 2-letter day abbreviation for calendar headers.
func FormatWeekday(d time.Weekday) string {
	return d.String()[:2]
}
