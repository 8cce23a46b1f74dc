package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-growth-lab/internal/domain"
)

func TestSamplesPerDay(t *testing.T) {
	n, err := SamplesPerDay(10)
	require.NoError(t, err)
	assert.Equal(t, 144, n)

	n, err = SamplesPerDay(3)
	require.NoError(t, err)
	assert.Equal(t, 480, n)

	_, err = SamplesPerDay(0)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestPadDay_EvenShortfallSplits(t *testing.T) {
	padded, before, after, err := PadDay([]float64{1, 2, 3, 4}, 6)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 2, 3, 4, 4}, padded)
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)
}

func TestPadDay_ShortfallRule(t *testing.T) {
	raw8 := []float64{10, 11, 12, 13, 14, 15, 16, 17}
	padded, before, after, err := PadDay(raw8, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)
	assert.Equal(t, 10.0, padded[0])
	assert.Equal(t, 17.0, padded[9])
	assert.Equal(t, raw8, padded[1:9])

	raw9 := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18}
	padded, before, after, err = PadDay(raw9, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, before)
	assert.Equal(t, 1, after)
	assert.Equal(t, raw9, padded[:9])
	assert.Equal(t, 18.0, padded[9])

	padded, before, after, err = PadDay([]float64{1, 2, 3}, 6)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 3, 3, 3}, padded)
	assert.Equal(t, 0, before)
	assert.Equal(t, 3, after)
}

func TestPadDay_ExactLengthIsCopied(t *testing.T) {
	raw := []float64{1, 2, 3}
	padded, before, after, err := PadDay(raw, 3)
	require.NoError(t, err)
	assert.Equal(t, raw, padded)
	assert.Zero(t, before+after)

	padded[0] = 99
	assert.Equal(t, 1.0, raw[0])
}

func TestPadDay_Oversized(t *testing.T) {
	_, _, _, err := PadDay([]float64{1, 2, 3, 4, 5, 6, 7}, 6)
	assert.ErrorIs(t, err, ErrOversizedDay)
}

func TestMeanProfile_LengthIsN(t *testing.T) {
	// 240-minute sampling: N = 6.
	s := daySeries(t, "plant_1", 4*time.Hour,
		[]float64{0, 10, 20, 30, 40, 50},
		[]float64{1, 2, 3, 4},
		[]float64{5, 5, 5},
	)

	res, err := MeanProfile(s, 240)
	require.NoError(t, err)

	p := res.Profile
	assert.Equal(t, 6, p.SamplesPerDay)
	assert.Len(t, p.Values, 6)
	assert.Len(t, p.Times, 6)
	require.Len(t, p.Days, 3)
	for _, d := range p.Days {
		assert.Len(t, d.Values, 6)
	}

	// Day 2 pads 1/1, day 3 pads 0/3.
	assert.Equal(t, []float64{1, 1, 2, 3, 4, 4}, p.Days[1].Values)
	assert.Equal(t, []float64{5, 5, 5, 5, 5, 5}, p.Days[2].Values)

	want := []float64{
		(0 + 1 + 5) / 3.0,
		(10 + 1 + 5) / 3.0,
		(20 + 2 + 5) / 3.0,
		(30 + 3 + 5) / 3.0,
		(40 + 4 + 5) / 3.0,
		(50 + 4 + 5) / 3.0,
	}
	assert.InDeltaSlice(t, want, p.Values, 1e-9)
	assert.Equal(t, 2, p.PaddedDays())
}

func TestMeanProfile_WarnsOnPaddedDays(t *testing.T) {
	s := daySeries(t, "plant_1", 4*time.Hour,
		[]float64{0, 1, 2, 3, 4, 5},
		[]float64{1, 2, 3, 4},
	)

	res, err := MeanProfile(s, 240)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)

	w := res.Warnings[0]
	assert.True(t, errors.Is(w, ErrNonUniformSampling))
	assert.Equal(t, 4, w.Length)
	assert.Equal(t, 6, w.N)
	assert.Equal(t, "2025-02-02", w.Day.String())
	assert.Contains(t, w.Error(), "sample size is 4 (should be 6)")
}

func TestMeanProfile_OversizedDay(t *testing.T) {
	s := daySeries(t, "plant_1", 3*time.Hour,
		[]float64{1, 2, 3, 4, 5, 6, 7},
	)

	_, err := MeanProfile(s, 240)
	require.ErrorIs(t, err, ErrOversizedDay)

	var oversized *OversizedDayError
	require.ErrorAs(t, err, &oversized)
	assert.Equal(t, 7, oversized.Length)
	assert.Equal(t, 6, oversized.N)
	assert.Equal(t, "plant_1", oversized.Channel)
}

func TestMeanProfile_ReferenceAxis(t *testing.T) {
	s := daySeries(t, "plant_1", 4*time.Hour,
		[]float64{0, 1, 2, 3, 4, 5},
		[]float64{0, 1, 2, 3, 4, 5},
	)

	res, err := MeanProfile(s, 240)
	require.NoError(t, err)

	p := res.Profile
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start, p.Times[0])
	assert.Equal(t, start.Add(24*time.Hour), p.Times[5])
	assert.Equal(t, start.Add(24*time.Hour/5), p.Times[1])
}

func TestMeanProfile_OverlaysShareReferenceDay(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 4, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 4, 12, 5, 0, 0, time.UTC),
	}
	s, err := domain.NewSeries("enc_2", times, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	res, err := MeanProfile(s, 360)
	require.NoError(t, err)

	p := res.Profile
	require.Len(t, p.Overlays, 2)
	ref := p.Reference
	for _, o := range p.Overlays {
		for _, ts := range o.Times {
			assert.Equal(t, ref, domain.DayOf(ts))
		}
	}
	// Sampling phase is kept as observed.
	assert.Equal(t, time.Date(2025, 2, 1, 12, 5, 0, 0, time.UTC), p.Overlays[1].Times[1])
	// Overlays are unpadded.
	assert.Equal(t, []float64{3, 4}, p.Overlays[1].Values)
	assert.Equal(t, []domain.Day{p.Days[0].Day, p.Days[1].Day}, p.DayList())
}

func TestMeanProfile_Empty(t *testing.T) {
	_, err := MeanProfile(domain.Series{Name: "x"}, 10)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
