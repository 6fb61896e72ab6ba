// Package timeutil provides school-calendar time helpers. The diary works in
// the school's local timezone: "today" defaults for student views and the
// date stored on schedules are computed here, never with raw time.Now().
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// DateLayout is the calendar date format used across the API (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Clock supplies the current time. The real clock is used in production;
// tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// SchoolClock is a Clock pinned to the school's timezone.
type SchoolClock struct {
	loc *time.Location
}

// NewSchoolClock creates a clock for the given IANA timezone name.
// Falls back to UTC if the name cannot be resolved.
func NewSchoolClock(timezone string) *SchoolClock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &SchoolClock{loc: loc}
}

// Now returns the current time in the school timezone.
func (c *SchoolClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the school timezone.
func (c *SchoolClock) Location() *time.Location {
	return c.loc
}

// FixedClock is a Clock that always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// Today formats the clock's current date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

// StartOfDay returns midnight of the given time in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the given time's day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// SameDate reports whether two times fall on the same calendar date in the
// first time's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatDate formats a time as a YYYY-MM-DD date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
