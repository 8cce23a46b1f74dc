package transform

import (
	"plant-growth-lab/internal/domain"
)

// Gradient estimates the rate of change of uniformly sampled values.
// Interior points use central differences, the two endpoints one-sided
// differences. dx is the sampling interval in the unit of the desired rate,
// e.g. 1.0/6 for 10-minute samples and a per-hour rate.
func Gradient(values []float64, dx float64) ([]float64, error) {
	if dx <= 0 {
		return nil, ErrInvalidInterval
	}
	n := len(values)
	if n < 2 {
		return nil, ErrTooFewSamples
	}

	out := make([]float64, n)
	out[0] = (values[1] - values[0]) / dx
	for i := 1; i < n-1; i++ {
		out[i] = (values[i+1] - values[i-1]) / (2 * dx)
	}
	out[n-1] = (values[n-1] - values[n-2]) / dx
	return out, nil
}

// Derivative computes the gradient of a cumulative series and smooths it with
// a median filter of the given window, since differencing amplifies noise.
func Derivative(s domain.Series, dx float64, window int) (domain.Series, error) {
	grad, err := Gradient(s.Values, dx)
	if err != nil {
		return domain.Series{}, err
	}
	smoothed, err := MedianFilter(grad, window)
	if err != nil {
		return domain.Series{}, err
	}
	return s.WithValues(smoothed), nil
}

// IntervalHours converts a sampling period in minutes to hours, the dx used
// for rates per hour.
func IntervalHours(periodMinutes int) float64 {
	return float64(periodMinutes) / 60
}
