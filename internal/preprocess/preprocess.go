// Package preprocess conditions raw frames before the daily transforms:
// sign handling, channel selection, unit scaling, manual corrections,
// evaporation removal, smoothing and trimming of partial days.
package preprocess

import (
	"errors"
	"fmt"
	"math"
	"time"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/transform"
)

// ErrTooFewDays is returned when trimming would leave nothing to analyse.
var ErrTooFewDays = errors.New("too few days")

func mapValues(f *domain.Frame, fn func(float64) float64) *domain.Frame {
	out, _ := f.Map(func(s domain.Series) (domain.Series, error) {
		values := make([]float64, len(s.Values))
		for i, v := range s.Values {
			values[i] = fn(v)
		}
		return s.WithValues(values), nil
	})
	return out
}

// Absolute replaces every value by its magnitude.
func Absolute(f *domain.Frame) *domain.Frame {
	return mapValues(f, math.Abs)
}

// Negate flips the sign of every value.
func Negate(f *domain.Frame) *domain.Frame {
	return mapValues(f, func(v float64) float64 { return -v })
}

// Scale multiplies every value by factor.
func Scale(f *domain.Frame, factor float64) *domain.Frame {
	return mapValues(f, func(v float64) float64 { return v * factor })
}

// Select drops the listed channels, then keeps only include (in that order)
// when include is not empty. Dropping an absent channel is not an error.
func Select(f *domain.Frame, include, drop []string) (*domain.Frame, error) {
	out, err := f.Select(f.Channels()...)
	if err != nil {
		return nil, err
	}
	for _, name := range drop {
		out.DropChannel(name)
	}
	if len(include) == 0 {
		return out, nil
	}
	selected, err := out.Select(include...)
	if err != nil {
		return nil, fmt.Errorf("select channels: %w", err)
	}
	return selected, nil
}

// ApplyCorrections adds each correction's offset to its channel over the
// correction's time range. Corrections apply in order.
func ApplyCorrections(f *domain.Frame, corrections []domain.Correction) (*domain.Frame, error) {
	out, err := f.Select(f.Channels()...)
	if err != nil {
		return nil, err
	}
	times := out.Times()
	for _, c := range corrections {
		s, err := out.Series(c.Channel)
		if err != nil {
			return nil, fmt.Errorf("apply correction: %w", err)
		}
		values := append([]float64(nil), s.Values...)
		for i, t := range times {
			if c.Applies(t) {
				values[i] += c.Offset
			}
		}
		if err := out.SetChannel(c.Channel, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MeanChannel returns the row-wise mean of the given channels. NaN readings
// are skipped; a row with no finite reading yields NaN.
func MeanChannel(f *domain.Frame, channels []string) ([]float64, error) {
	cols := make([][]float64, 0, len(channels))
	for _, name := range channels {
		s, err := f.Series(name)
		if err != nil {
			return nil, fmt.Errorf("mean channel: %w", err)
		}
		cols = append(cols, s.Values)
	}
	out := make([]float64, f.Len())
	for i := range out {
		sum, n := 0.0, 0
		for _, col := range cols {
			if !math.IsNaN(col[i]) {
				sum += col[i]
				n++
			}
		}
		if n == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out, nil
}

// AddEvaporation replaces the control channels by their mean, stored under
// name.
func AddEvaporation(f *domain.Frame, controls []string, name string) (*domain.Frame, error) {
	mean, err := MeanChannel(f, controls)
	if err != nil {
		return nil, err
	}
	out, err := f.Select(f.Channels()...)
	if err != nil {
		return nil, err
	}
	for _, c := range controls {
		out.DropChannel(c)
	}
	if err := out.SetChannel(name, mean); err != nil {
		return nil, err
	}
	return out, nil
}

// Subtract returns a frame holding channel - reference for each channel.
func Subtract(f *domain.Frame, channels []string, reference string) (*domain.Frame, error) {
	ref, err := f.Series(reference)
	if err != nil {
		return nil, fmt.Errorf("subtract: %w", err)
	}
	out, err := domain.NewFrame(f.Times())
	if err != nil {
		return nil, err
	}
	for _, name := range channels {
		s, err := f.Series(name)
		if err != nil {
			return nil, fmt.Errorf("subtract: %w", err)
		}
		values := make([]float64, len(s.Values))
		for i, v := range s.Values {
			values[i] = v - ref.Values[i]
		}
		if err := out.AddChannel(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Smooth median-filters every channel over the full series.
func Smooth(f *domain.Frame, size int) (*domain.Frame, error) {
	return f.Map(func(s domain.Series) (domain.Series, error) {
		return transform.SmoothSeries(s, size)
	})
}

// TrimDays removes the first and last calendar days, which are usually
// partial, then skipLeading further days from the start.
func TrimDays(f *domain.Frame, trimPartial bool, skipLeading int) (*domain.Frame, error) {
	if f.Len() == 0 {
		return nil, &transform.EmptyInputError{}
	}
	var days []domain.Day
	for _, t := range f.Times() {
		d := domain.DayOf(t)
		if len(days) == 0 || days[len(days)-1] != d {
			days = append(days, d)
		}
	}

	first, last := 0, len(days)-1
	if trimPartial {
		first++
		last--
	}
	first += skipLeading
	if first > last {
		return nil, fmt.Errorf("%w: %d days observed, none left after trimming", ErrTooFewDays, len(days))
	}

	from := days[first].Midnight()
	to := days[last].Midnight().AddDate(0, 0, 1)
	return f.Between(func(t time.Time) bool {
		return !t.Before(from) && t.Before(to)
	}), nil
}
