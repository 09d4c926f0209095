// Package timewindow converts a requested timeframe and reference instant
// into a half-open aggregation interval plus its bucketing rule.
package timewindow

import (
	"fmt"
	"time"
)

// Timeframe selects the window span and bucket granularity.
type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	Yearly  Timeframe = "yearly"
)

// ParseTimeframe validates a timeframe string. Anything outside the four
// known selectors is an error, never a silent default.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case Daily, Weekly, Monthly, Yearly:
		return Timeframe(s), nil
	default:
		return "", fmt.Errorf("invalid timeframe %q: use daily, weekly, monthly, or yearly", s)
	}
}

// ParseDate parses a calendar date in YYYY-MM-DD form, interpreted as
// midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// Window is a half-open interval [Start, End) together with the bucket
// key and label rule implied by its timeframe.
type Window struct {
	Frame Timeframe
	Start time.Time
	End   time.Time
}

// New computes the window containing the reference instant. The window
// boundaries are expressed in the reference's location.
func New(frame Timeframe, ref time.Time) Window {
	y, m, d := ref.Date()
	loc := ref.Location()

	var start, end time.Time
	switch frame {
	case Daily:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	case Weekly:
		// Shift back to the Monday on/before the reference date.
		start = time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -weekdayIndex(ref.Weekday()))
		end = start.AddDate(0, 0, 7)
	case Monthly:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case Yearly:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	default:
		panic(fmt.Sprintf("timewindow: unknown timeframe %q", frame))
	}
	return Window{Frame: frame, Start: start, End: end}
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Key maps an instant inside the window to its bucket key. Keys follow
// the natural order of the timeframe: hour 0-23, weekday Monday=0,
// day-of-month 1-31, month 1-12.
func (w Window) Key(t time.Time) int {
	switch w.Frame {
	case Daily:
		return t.Hour()
	case Weekly:
		return weekdayIndex(t.Weekday())
	case Monthly:
		return t.Day()
	case Yearly:
		return int(t.Month())
	default:
		panic(fmt.Sprintf("timewindow: unknown timeframe %q", w.Frame))
	}
}

// Label renders a bucket key as its client-facing group label.
func (w Window) Label(key int) string {
	switch w.Frame {
	case Daily:
		return fmt.Sprintf("%02d:00", key)
	case Weekly:
		return time.Weekday((key + 1) % 7).String()
	case Monthly:
		return fmt.Sprintf("Day %02d", key)
	case Yearly:
		return time.Month(key).String()
	default:
		panic(fmt.Sprintf("timewindow: unknown timeframe %q", w.Frame))
	}
}

// weekdayIndex re-bases time.Weekday (Sunday=0) to Monday=0.
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
