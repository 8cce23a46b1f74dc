package transform

import (
	"errors"
	"fmt"

	"plant-growth-lab/internal/domain"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrEmptyInput         = errors.New("empty input")
	ErrDegenerateDay      = errors.New("degenerate day")
	ErrOversizedDay       = errors.New("oversized day")
	ErrNonUniformSampling = errors.New("non-uniform sampling")

	// ErrInvalidWindow is returned for even or non-positive median windows.
	ErrInvalidWindow = errors.New("median window must be a positive odd number")

	// ErrInvalidInterval is returned for a non-positive sampling interval or period.
	ErrInvalidInterval = errors.New("sampling interval must be positive")

	// ErrTooFewSamples is returned when a gradient needs at least two samples.
	ErrTooFewSamples = errors.New("at least two samples are required")
)

// EmptyInputError is returned when a series has no samples, so no day set exists.
type EmptyInputError struct {
	Channel string
}

func (e *EmptyInputError) Error() string {
	if e.Channel == "" {
		return "empty input: series has no samples"
	}
	return fmt.Sprintf("empty input: channel %s has no samples", e.Channel)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// DegenerateDayError is returned when a day cannot be normalized because its
// maximum is zero.
type DegenerateDayError struct {
	Channel string
	Day     domain.Day
	Max     float64
}

func (e *DegenerateDayError) Error() string {
	return fmt.Sprintf("degenerate day: channel %s on %s has maximum %g, cannot normalize", e.Channel, e.Day, e.Max)
}

func (e *DegenerateDayError) Is(target error) bool { return target == ErrDegenerateDay }

// OversizedDayError is returned when a day holds more samples than the
// canonical grid.
type OversizedDayError struct {
	Channel string
	Day     domain.Day
	Length  int
	N       int
}

func (e *OversizedDayError) Error() string {
	return fmt.Sprintf("oversized day: channel %s on %s has %d samples, canonical grid is %d", e.Channel, e.Day, e.Length, e.N)
}

func (e *OversizedDayError) Is(target error) bool { return target == ErrOversizedDay }

// NonUniformSamplingWarning reports a day that was shorter than the canonical
// grid and had to be edge-padded. It is returned alongside results, never
// as the failure of a transform.
type NonUniformSamplingWarning struct {
	Channel   string
	Day       domain.Day
	Length    int
	N         int
	PadBefore int
	PadAfter  int
}

func (w *NonUniformSamplingWarning) Error() string {
	return fmt.Sprintf("day %s: sample size is %d (should be %d), padded %d before and %d after",
		w.Day, w.Length, w.N, w.PadBefore, w.PadAfter)
}

func (w *NonUniformSamplingWarning) Is(target error) bool { return target == ErrNonUniformSampling }
