package domain

import "time"

// Day is a calendar date used as the segmentation key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t's wall clock.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Midnight returns the start of the day in time.UTC.
func (d Day) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of whole days from ref to d.
func (d Day) DaysSince(ref Day) int {
	return int(d.Midnight().Sub(ref.Midnight()).Hours() / 24)
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.Midnight().Format(time.DateOnly)
}

// Label formats the day as DD-MM, the axis label used in figures.
func (d Day) Label() string {
	return d.Midnight().Format("02-01")
}
