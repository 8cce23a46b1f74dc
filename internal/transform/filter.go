package transform

import (
	"sort"

	"plant-growth-lab/internal/domain"
)

// MedianFilter applies a centered sliding-window median of odd length size.
// Samples beyond either end repeat the nearest edge value. The output has
// the same length as the input; a window of 1 is the identity.
func MedianFilter(values []float64, size int) ([]float64, error) {
	if size <= 0 || size%2 == 0 {
		return nil, ErrInvalidWindow
	}

	n := len(values)
	out := make([]float64, n)
	half := size / 2
	window := make([]float64, size)

	for i := 0; i < n; i++ {
		for k := -half; k <= half; k++ {
			j := i + k
			if j < 0 {
				j = 0
			} else if j >= n {
				j = n - 1
			}
			window[k+half] = values[j]
		}
		sort.Float64s(window)
		out[i] = window[half]
	}
	return out, nil
}

// SmoothSeries median-filters a whole series, ignoring day boundaries.
func SmoothSeries(s domain.Series, size int) (domain.Series, error) {
	values, err := MedianFilter(s.Values, size)
	if err != nil {
		return domain.Series{}, err
	}
	return s.WithValues(values), nil
}
