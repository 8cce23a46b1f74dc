package ingest

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"plant-growth-lab/internal/domain"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		format string
		in     string
		want   time.Time
	}{
		{FormatISOUTC, "2025-02-01 13:00:00 UTC", time.Date(2025, 2, 1, 13, 0, 0, 0, time.UTC)},
		{FormatDMYSeconds, "27-01-2026 09:15:30", time.Date(2026, 1, 27, 9, 15, 30, 0, time.UTC)},
		{FormatDMYMinutes, "07-02-24 16:15", time.Date(2024, 2, 7, 16, 15, 0, 0, time.UTC)},
		{FormatExcelSerial, "45689.5", time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)},
		{FormatExcelSerial, "45689.0069444444", time.Date(2025, 2, 1, 0, 10, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in, tt.format)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTime("2025-02-01", FormatDMYMinutes)
	require.Error(t, err)
	_, err = ParseTime("x", "rfc3339")
	require.Error(t, err)
}

func TestReadFrame_ISOWithOffset(t *testing.T) {
	csv := "time;enc_1;enc_2\n" +
		"2025-02-01 23:00:00 UTC;-10;5\n" +
		"2025-02-01 23:03:00 UTC;-11;\n" +
		"2025-02-01 23:06:00 UTC;-12,5;7\n"

	frame, err := ReadFrame(context.Background(), strings.NewReader(csv), Options{
		Delimiter:   ';',
		TimeColumns: []string{"time"},
		TimeFormat:  FormatISOUTC,
		Offset:      time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"enc_1", "enc_2"}, frame.Channels())
	require.Equal(t, 3, frame.Len())
	assert.Equal(t, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), frame.Times()[0])

	enc1, err := frame.Series("enc_1")
	require.NoError(t, err)
	assert.Equal(t, []float64{-10, -11, -12.5}, enc1.Values)

	enc2, err := frame.Series("enc_2")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(enc2.Values[1]))
}

func TestReadFrame_RejectsUnordered(t *testing.T) {
	csv := "time;plant_1\n01-02-24 10:10;1\n01-02-24 10:00;2\n"
	_, err := ReadFrame(context.Background(), strings.NewReader(csv), Options{
		Delimiter:   ';',
		TimeColumns: []string{"time"},
		TimeFormat:  FormatDMYMinutes,
	})
	require.ErrorIs(t, err, domain.ErrNonMonotonic)
}

func TestReadFrame_Errors(t *testing.T) {
	opts := Options{Delimiter: ';', TimeColumns: []string{"time"}, TimeFormat: FormatDMYMinutes}

	_, err := ReadFrame(context.Background(), strings.NewReader("stamp;a\n01-02-24 10:00;1\n"), opts)
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadFrame(context.Background(), strings.NewReader("time;a\n01-02-24 10:00;abc\n"), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column a row 2")

	_, err = ReadFrame(context.Background(), strings.NewReader("time;a\n2024-02-01;1\n"), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadFrame(ctx, strings.NewReader("time;a\n"), opts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadObservations_Latin1SplitColumns(t *testing.T) {
	utf8 := "date;heure;PAR;cond;rang_f;face_f;état_f\n" +
		"18-02-25;09:30;120;85.5;3-4;adaxiale;saine\n" +
		"18-02-25;10:45;;90;5-6;abaxiale;sénescente\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	obs, err := ReadObservations(context.Background(), bytes.NewReader([]byte(encoded)), Options{
		Delimiter:   ';',
		Encoding:    "latin-1",
		TimeColumns: []string{"date", "heure"},
		TimeFormat:  FormatDMYMinutes,
	}, []string{"PAR", "cond"})
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, time.Date(2025, 2, 18, 9, 30, 0, 0, time.UTC), obs[0].Time)
	par, ok := obs[0].Number("PAR")
	require.True(t, ok)
	assert.Equal(t, 120.0, par)
	assert.Equal(t, "3-4", obs[0].Labels["rang_f"])
	assert.Equal(t, "sénescente", obs[1].Labels["état_f"])
	assert.True(t, math.IsNaN(obs[1].Numbers["PAR"]))
	_, hasDate := obs[0].Labels["date"]
	assert.False(t, hasDate)
}

func TestReadFrameFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balances.csv")
	require.NoError(t, os.WriteFile(path, []byte("time;plant_1\n45689.0;1\n45689.5;2\n"), 0o644))

	frame, err := ReadFrameFile(context.Background(), path, Options{
		Delimiter:   ';',
		TimeColumns: []string{"time"},
		TimeFormat:  FormatExcelSerial,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Len())

	_, err = ReadFrameFile(context.Background(), filepath.Join(dir, "nope.csv"), Options{})
	require.Error(t, err)
}
