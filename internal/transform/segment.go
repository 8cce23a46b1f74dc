// Package transform implements the daily transform engine: segmentation into
// calendar days, per-day reset and normalization, median smoothing, gradient
// estimation and the day-aligned mean daily profile.
//
// Every function is pure. Inputs are never modified; results are new slices.
package transform

import (
	"plant-growth-lab/internal/domain"
)

// DaySlice is the contiguous run of a series that falls on one calendar day.
// Start and End index into the source series, [Start, End).
type DaySlice struct {
	Day   domain.Day
	Start int
	End   int
}

// Len returns the number of samples in the slice.
func (d DaySlice) Len() int {
	return d.End - d.Start
}

// SplitDays partitions a series into its calendar days in time order.
// Concatenating the slices reproduces the series exactly. Days with no
// samples are never emitted.
// Returns EmptyInputError if the series has no samples.
func SplitDays(s domain.Series) ([]DaySlice, error) {
	if len(s.Times) == 0 {
		return nil, &EmptyInputError{Channel: s.Name}
	}

	var days []DaySlice
	current := DaySlice{Day: domain.DayOf(s.Times[0]), Start: 0}
	for i := 1; i < len(s.Times); i++ {
		d := domain.DayOf(s.Times[i])
		if d != current.Day {
			current.End = i
			days = append(days, current)
			current = DaySlice{Day: d, Start: i}
		}
	}
	current.End = len(s.Times)
	days = append(days, current)

	return days, nil
}

// Days returns the distinct calendar days of a series, in order.
func Days(s domain.Series) ([]domain.Day, error) {
	slices, err := SplitDays(s)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Day, len(slices))
	for i, d := range slices {
		out[i] = d.Day
	}
	return out, nil
}
