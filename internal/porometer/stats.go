// Package porometer computes the porometer statistics: conductance against
// PAR regression and grouped descriptive summaries.
package porometer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"plant-growth-lab/internal/domain"
)

// ErrTooFewPoints is returned when a regression has fewer than two complete pairs.
var ErrTooFewPoints = errors.New("too few points")

// Summary is a descriptive summary of one group of readings. Std is the
// sample standard deviation; quartiles interpolate linearly between order
// statistics.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarises values, ignoring NaN. An empty input yields Count 0
// and NaN everywhere else.
func Describe(values []float64) Summary {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	nan := math.NaN()
	if len(data) == 0 {
		return Summary{Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	}
	sort.Float64s(data)

	mean, std := stat.MeanStdDev(data, nil)
	if len(data) < 2 {
		std = nan
	}
	return Summary{
		Count:  len(data),
		Mean:   mean,
		Std:    std,
		Min:    data[0],
		Q25:    quantile(data, 0.25),
		Median: quantile(data, 0.5),
		Q75:    quantile(data, 0.75),
		Max:    data[len(data)-1],
	}
}

// quantile interpolates linearly at rank p*(n-1) of sorted data.
func quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Regression is an ordinary least squares fit y = Intercept + Slope*x.
type Regression struct {
	N         int
	Slope     float64
	Intercept float64
	R         float64 // Pearson correlation
}

// Predict returns the fitted value at x.
func (r Regression) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}

// LinearRegression fits the numeric field y against x. Readings where either
// field is missing or NaN are omitted.
func LinearRegression(obs []domain.Observation, x, y string) (Regression, error) {
	xs, ys := Pairs(obs, x, y)
	if len(xs) < 2 {
		return Regression{}, fmt.Errorf("regress %s on %s: %w (%d complete readings)", y, x, ErrTooFewPoints, len(xs))
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return Regression{
		N:         len(xs),
		Slope:     slope,
		Intercept: intercept,
		R:         stat.Correlation(xs, ys, nil),
	}, nil
}

// Pairs returns the complete (x, y) readings.
func Pairs(obs []domain.Observation, x, y string) (xs, ys []float64) {
	for _, o := range obs {
		xv, okx := o.Number(x)
		yv, oky := o.Number(y)
		if !okx || !oky || math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys
}
