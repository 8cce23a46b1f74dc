package transform

import (
	"math"

	"plant-growth-lab/internal/domain"
)

// DailyReset turns a multi-day cumulative signal into one that restarts each
// day: every sample has its day's minimum subtracted. The day minimum becomes
// 0; the first sample of a day is 0 only if the signal is monotonic.
// NaN samples are ignored for the minimum and stay NaN.
func DailyReset(s domain.Series) (domain.Series, error) {
	days, err := SplitDays(s)
	if err != nil {
		return domain.Series{}, err
	}

	out := make([]float64, len(s.Values))
	for _, d := range days {
		lo, ok := dayMin(s.Values[d.Start:d.End])
		for i := d.Start; i < d.End; i++ {
			if !ok {
				out[i] = math.NaN()
				continue
			}
			out[i] = s.Values[i] - lo
		}
	}
	return s.WithValues(out), nil
}

// DailyNormalize rescales each day so its maximum maps to 100
// (percent of the day's peak). No clamping is applied: days with negative
// values produce negative percentages.
// Returns DegenerateDayError for a day whose maximum is 0 or that has no
// finite sample.
func DailyNormalize(s domain.Series) (domain.Series, error) {
	days, err := SplitDays(s)
	if err != nil {
		return domain.Series{}, err
	}

	out := make([]float64, len(s.Values))
	for _, d := range days {
		hi, ok := dayMax(s.Values[d.Start:d.End])
		if !ok || hi == 0 {
			return domain.Series{}, &DegenerateDayError{Channel: s.Name, Day: d.Day, Max: hi}
		}
		for i := d.Start; i < d.End; i++ {
			out[i] = s.Values[i] / hi * 100
		}
	}
	return s.WithValues(out), nil
}

func dayMin(values []float64) (float64, bool) {
	lo, found := math.Inf(1), false
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		found = true
	}
	return lo, found
}

func dayMax(values []float64) (float64, bool) {
	hi, found := math.Inf(-1), false
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v > hi {
			hi = v
		}
		found = true
	}
	if !found {
		return math.NaN(), false
	}
	return hi, true
}
