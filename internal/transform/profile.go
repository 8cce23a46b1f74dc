package transform

import (
	"time"

	"plant-growth-lab/internal/domain"
)

const minutesPerDay = 24 * 60

// SamplesPerDay returns the canonical grid size N for a sampling period.
func SamplesPerDay(periodMinutes int) (int, error) {
	if periodMinutes <= 0 || periodMinutes > minutesPerDay {
		return 0, ErrInvalidInterval
	}
	return minutesPerDay / periodMinutes, nil
}

// PadDay aligns a day's values onto a grid of n samples by repeating the
// boundary values. An even shortfall is split evenly between both ends; an
// odd shortfall is added entirely after the last value. Interior values are
// never interpolated.
// Returns the padded values and the number of samples added at each end.
func PadDay(values []float64, n int) (padded []float64, before, after int, err error) {
	if len(values) == 0 {
		return nil, 0, 0, &EmptyInputError{}
	}
	if len(values) > n {
		return nil, 0, 0, &OversizedDayError{Length: len(values), N: n}
	}

	shortfall := n - len(values)
	if shortfall%2 == 0 {
		before, after = shortfall/2, shortfall/2
	} else {
		before, after = 0, shortfall
	}

	padded = make([]float64, 0, n)
	for i := 0; i < before; i++ {
		padded = append(padded, values[0])
	}
	padded = append(padded, values...)
	for i := 0; i < after; i++ {
		padded = append(padded, values[len(values)-1])
	}
	return padded, before, after, nil
}

// ProfileResult carries a mean daily profile and the padding warnings raised
// while building it.
type ProfileResult struct {
	Profile  *domain.MeanDailyProfile
	Warnings []*NonUniformSamplingWarning
}

// MeanProfile builds the canonical intra-day curve of a series sampled every
// periodMinutes: every day is edge-padded to N = 24*60/periodMinutes samples,
// the days are averaged pointwise, and the result is laid on a synthetic axis
// of N points evenly spanning the first observed day, midnight to midnight.
//
// Days are averaged as raw sample arrays with no re-sampling, so days whose
// samples are not phase-aligned skew the mean slightly in time.
//
// Returns OversizedDayError if any day has more than N samples, and
// EmptyInputError for an empty series.
func MeanProfile(s domain.Series, periodMinutes int) (*ProfileResult, error) {
	n, err := SamplesPerDay(periodMinutes)
	if err != nil {
		return nil, err
	}
	days, err := SplitDays(s)
	if err != nil {
		return nil, err
	}

	reference := days[0].Day
	profile := &domain.MeanDailyProfile{
		Channel:       s.Name,
		SamplesPerDay: n,
		Reference:     reference,
		Days:          make([]domain.DailyProfile, 0, len(days)),
		Overlays:      make([]domain.DayOverlay, 0, len(days)),
	}
	result := &ProfileResult{Profile: profile}

	sum := make([]float64, n)
	for _, d := range days {
		raw := s.Values[d.Start:d.End]
		if len(raw) > n {
			return nil, &OversizedDayError{Channel: s.Name, Day: d.Day, Length: len(raw), N: n}
		}

		padded, before, after, err := PadDay(raw, n)
		if err != nil {
			return nil, err
		}
		if before+after > 0 {
			result.Warnings = append(result.Warnings, &NonUniformSamplingWarning{
				Channel:   s.Name,
				Day:       d.Day,
				Length:    len(raw),
				N:         n,
				PadBefore: before,
				PadAfter:  after,
			})
		}

		for i, v := range padded {
			sum[i] += v
		}
		profile.Days = append(profile.Days, domain.DailyProfile{
			Day:       d.Day,
			RawLength: len(raw),
			PadBefore: before,
			PadAfter:  after,
			Values:    padded,
		})
		profile.Overlays = append(profile.Overlays, overlay(s, d, reference))
	}

	profile.Values = make([]float64, n)
	for i := range sum {
		profile.Values[i] = sum[i] / float64(len(days))
	}
	profile.Times = referenceAxis(reference, n)

	return result, nil
}

// overlay shifts a day's unpadded samples by whole days onto the reference day.
func overlay(s domain.Series, d DaySlice, reference domain.Day) domain.DayOverlay {
	shift := d.Day.DaysSince(reference)
	times := make([]time.Time, 0, d.Len())
	for _, t := range s.Times[d.Start:d.End] {
		times = append(times, t.AddDate(0, 0, -shift))
	}
	return domain.DayOverlay{
		Day:    d.Day,
		Times:  times,
		Values: append([]float64(nil), s.Values[d.Start:d.End]...),
	}
}

// referenceAxis returns n timestamps evenly spaced from the reference day's
// midnight to the following midnight, both included.
func referenceAxis(reference domain.Day, n int) []time.Time {
	start := reference.Midnight()
	if n == 1 {
		return []time.Time{start}
	}
	step := 24 * time.Hour / time.Duration(n-1)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * step)
	}
	times[n-1] = start.Add(24 * time.Hour)
	return times
}
