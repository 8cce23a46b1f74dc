package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"plant-growth-lab/internal/domain"
)

// daySeries builds a series with one block of values per consecutive day,
// starting at midnight and spaced by step.
func daySeries(t *testing.T, name string, step time.Duration, days ...[]float64) domain.Series {
	t.Helper()

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	var times []time.Time
	var values []float64
	for i, day := range days {
		midnight := start.AddDate(0, 0, i)
		for j, v := range day {
			times = append(times, midnight.Add(time.Duration(j)*step))
			values = append(values, v)
		}
	}

	s, err := domain.NewSeries(name, times, values)
	require.NoError(t, err)
	return s
}

// dayValues extracts the values of one day slice.
func dayValues(s domain.Series, d DaySlice) []float64 {
	return s.Values[d.Start:d.End]
}
