// Package isoweek provides the calendar arithmetic used by the planners:
// ISO-8601 week numbers, week anchors and strict YYYY-MM-DD dates.
// All values are calendar dates at UTC midnight.
package isoweek

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Week identifies an ISO-8601 week. Year is the ISO week-year, which can
// differ from the calendar year for dates around New Year.
type Week struct {
	Week int `json:"week"`
	Year int `json:"year"`
}

// Key returns the grouping key, e.g. "2020-W53".
func (w Week) Key() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// Label returns "W07", or "W53 (20)" when the ISO year is not the given calendar year.
func (w Week) Label(year int) string {
	if w.Year != year {
		return fmt.Sprintf("W%02d (%02d)", w.Week, w.Year%100)
	}
	return fmt.Sprintf("W%02d", w.Week)
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day, keeping the calendar date t shows in its own location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Of returns the ISO week of the calendar date of t.
func Of(t time.Time) Week {
	year, week := Truncate(t).ISOWeek()
	return Week{Week: week, Year: year}
}

// Monday returns the Monday of the given ISO week. Week 1 is the week
// containing January 4th.
func Monday(week, year int) time.Time {
	jan4 := Date(year, time.January, 4)
	return AddDays(StartOfWeek(jan4), (week-1)*7)
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	t = Truncate(t)
	offset := (int(t.Weekday()) + 6) % 7
	return AddDays(t, -offset)
}

// WeekDays returns Monday through Friday of the week containing anchor.
func WeekDays(anchor time.Time) []time.Time {
	monday := StartOfWeek(anchor)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = AddDays(monday, i)
	}
	return days
}

// WeeksInYear returns 52 or 53. December 28th always falls in the last ISO week.
func WeeksInYear(year int) int {
	_, week := Date(year, time.December, 28).ISOWeek()
	return week
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Format renders t as a zero-padded YYYY-MM-DD string.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse accepts only well-formed YYYY-MM-DD strings naming a real date.
func Parse(s string) (time.Time, bool) {
	if len(s) != len(Layout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
