package transform

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-growth-lab/internal/domain"
)

func TestDailyReset_ThreeDayScenario(t *testing.T) {
	s := daySeries(t, "plant_1", time.Hour,
		[]float64{1, 2, 3, 4, 5},
		[]float64{2, 3, 4, 5, 6},
		[]float64{0, 1, 2, 3, 10},
	)

	reset, err := DailyReset(s)
	require.NoError(t, err)

	days, err := SplitDays(reset)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, dayValues(reset, days[0]))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, dayValues(reset, days[1]))
	assert.Equal(t, []float64{0, 1, 2, 3, 10}, dayValues(reset, days[2]))

	// Input is untouched.
	assert.Equal(t, 1.0, s.Values[0])
}

func TestDailyReset_DayMinimumIsZero(t *testing.T) {
	s := daySeries(t, "enc_1", 30*time.Minute,
		[]float64{5, 3, 7, 4},
		[]float64{-2, -8, 1},
		[]float64{42},
	)

	reset, err := DailyReset(s)
	require.NoError(t, err)

	days, err := SplitDays(reset)
	require.NoError(t, err)
	for _, d := range days {
		lo := math.Inf(1)
		for _, v := range dayValues(reset, d) {
			lo = math.Min(lo, v)
		}
		assert.Equal(t, 0.0, lo, "day %s", d.Day)
	}

	// Non-monotonic day: minimum is not the first sample.
	assert.Equal(t, []float64{2, 0, 4, 1}, dayValues(reset, days[0]))
	// A single-sample day resets to a constant 0.
	assert.Equal(t, []float64{0}, dayValues(reset, days[2]))
}

func TestDailyReset_IgnoresNaN(t *testing.T) {
	s := daySeries(t, "enc_1", time.Hour, []float64{math.NaN(), 4, 2})

	reset, err := DailyReset(s)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(reset.Values[0]))
	assert.Equal(t, []float64{2, 0}, reset.Values[1:])
}

func TestDailyNormalize_ThirdDay(t *testing.T) {
	s := daySeries(t, "plant_1", time.Hour,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 1, 2, 3, 10},
	)

	norm, err := DailyNormalize(s)
	require.NoError(t, err)

	days, err := SplitDays(norm)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 10, 20, 30, 100}, dayValues(norm, days[2]), 1e-9)
	assert.InDeltaSlice(t, []float64{0, 25, 50, 75, 100}, dayValues(norm, days[0]), 1e-9)

	for _, d := range days {
		hi := math.Inf(-1)
		for _, v := range dayValues(norm, d) {
			hi = math.Max(hi, v)
		}
		assert.InDelta(t, 100.0, hi, 1e-9)
	}
}

func TestDailyNormalize_NoClamp(t *testing.T) {
	s := daySeries(t, "rate", time.Hour, []float64{-5, 0, 10})

	norm, err := DailyNormalize(s)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-50, 0, 100}, norm.Values, 1e-9)
}

func TestDailyNormalize_ZeroMaxIsDegenerate(t *testing.T) {
	s := daySeries(t, "enc_3", time.Hour,
		[]float64{1, 2},
		[]float64{0, 0, 0},
	)

	_, err := DailyNormalize(s)
	require.ErrorIs(t, err, ErrDegenerateDay)

	var degenerate *DegenerateDayError
	require.ErrorAs(t, err, &degenerate)
	assert.Equal(t, "enc_3", degenerate.Channel)
	assert.Equal(t, "2025-02-02", degenerate.Day.String())
}

func TestDailyNormalize_Empty(t *testing.T) {
	_, err := DailyNormalize(domain.Series{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}
