// Package ingest reads campaign CSV exports into frames and observations.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/domain"
)

// ErrMissingColumn is returned when a configured column is absent.
var ErrMissingColumn = errors.New("missing column")

// Options describes the CSV layout.
type Options struct {
	Delimiter   rune
	Encoding    string // utf-8 | latin-1
	TimeColumns []string
	TimeFormat  string
	Offset      time.Duration
}

// OptionsFromConfig extracts the CSV layout of a dataset.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Delimiter:   cfg.DelimiterRune(),
		Encoding:    cfg.Dataset.Encoding,
		TimeColumns: cfg.Dataset.TimeColumns,
		TimeFormat:  cfg.Dataset.TimeFormat,
		Offset:      cfg.Offset(),
	}
}

type table struct {
	times []time.Time
	names []string
	cols  map[string][]string
}

func readTable(r io.Reader, opts Options) (*table, error) {
	if opts.Encoding == "latin-1" {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ';'
	}
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	if len(opts.TimeColumns) == 0 {
		return nil, fmt.Errorf("%w: no time column configured", ErrMissingColumn)
	}

	t := &table{cols: make(map[string][]string)}
	timeCols := make(map[string]bool, len(opts.TimeColumns))
	parts := make([][]string, 0, len(opts.TimeColumns))
	for _, name := range opts.TimeColumns {
		if !hasName(df.Names(), name) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		timeCols[name] = true
		parts = append(parts, df.Col(name).Records())
	}
	for _, name := range df.Names() {
		if timeCols[name] {
			continue
		}
		t.names = append(t.names, name)
		t.cols[name] = df.Col(name).Records()
	}

	t.times = make([]time.Time, df.Nrow())
	raw := make([]string, len(parts))
	for i := range t.times {
		for j, p := range parts {
			raw[j] = strings.TrimSpace(p[i])
		}
		ts, err := ParseTime(strings.Join(raw, " "), opts.TimeFormat)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		t.times[i] = ts.Add(opts.Offset)
	}
	return t, nil
}

// ReadFrame reads a CSV export where every non-time column is numeric.
// Empty cells become NaN.
func ReadFrame(ctx context.Context, r io.Reader, opts Options) (*domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := readTable(r, opts)
	if err != nil {
		return nil, err
	}
	frame, err := domain.NewFrame(t.times)
	if err != nil {
		return nil, fmt.Errorf("build frame: %w", err)
	}
	for _, name := range t.names {
		values, err := parseColumn(name, t.cols[name])
		if err != nil {
			return nil, err
		}
		if err := frame.AddChannel(name, values); err != nil {
			return nil, fmt.Errorf("build frame: %w", err)
		}
	}
	return frame, nil
}

// ReadFrameFile opens path and reads it with ReadFrame.
func ReadFrameFile(ctx context.Context, path string, opts Options) (*domain.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	frame, err := ReadFrame(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// ReadObservations reads a row-per-reading export. Columns listed in numeric
// are parsed as numbers; the others are kept as labels. Rows need not be
// ordered.
func ReadObservations(ctx context.Context, r io.Reader, opts Options, numeric []string) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := readTable(r, opts)
	if err != nil {
		return nil, err
	}
	isNumeric := make(map[string]bool, len(numeric))
	numbers := make(map[string][]float64, len(numeric))
	for _, name := range numeric {
		col, ok := t.cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		values, err := parseColumn(name, col)
		if err != nil {
			return nil, err
		}
		isNumeric[name] = true
		numbers[name] = values
	}

	out := make([]domain.Observation, len(t.times))
	for i, ts := range t.times {
		obs := domain.Observation{
			Time:    ts,
			Numbers: make(map[string]float64, len(numeric)),
			Labels:  make(map[string]string, len(t.names)-len(numeric)),
		}
		for _, name := range t.names {
			if isNumeric[name] {
				obs.Numbers[name] = numbers[name][i]
				continue
			}
			obs.Labels[name] = strings.TrimSpace(t.cols[name][i])
		}
		out[i] = obs
	}
	return out, nil
}

// ReadObservationsFile opens path and reads it with ReadObservations.
func ReadObservationsFile(ctx context.Context, path string, opts Options, numeric []string) ([]domain.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	obs, err := ReadObservations(ctx, f, opts, numeric)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obs, nil
}

func parseColumn(name string, records []string) ([]float64, error) {
	values := make([]float64, len(records))
	for i, rec := range records {
		v, err := parseNumber(rec)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i+2, err)
		}
		values[i] = v
	}
	return values, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Decimal comma, as written by French-locale spreadsheets.
		if alt, altErr := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); altErr == nil {
			return alt, nil
		}
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}

func hasName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
