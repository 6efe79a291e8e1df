package calendar

import (
	"time"
)

// Period is one inclusive collection window within a school year,
// e.g. "SY 22-23 P1" running from the first to the last school day of the period.
type Period struct {
	ID         string
	SchoolYear string
	Start      time.Time
	End        time.Time
}

// Contains reports whether date falls within the period. Both boundary
// dates are part of the period.
func (p Period) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar days the period spans, boundaries included.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Config is the academic calendar: collection periods grouped by school year
// plus an explicit list of dates excluded from collection regardless of weekday
// (holidays, breaks, closures). Loaded once per run and treated as read-only.
type Config struct {
	Periods            []Period
	NonCollectionDates map[time.Time]struct{}
}

// IsExcluded reports whether the date is on the non-collection list.
func (c Config) IsExcluded(date time.Time) bool {
	_, ok := c.NonCollectionDates[DateOnly(date)]
	return ok
}

// DateOnly normalizes a timestamp to midnight UTC so dates compare by calendar
// day regardless of the time-of-day or location they were parsed with.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
