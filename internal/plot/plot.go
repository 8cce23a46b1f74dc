// Package plot renders the diagnostic figures as PNG images with go-chart.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToPlot is returned when a figure would have fewer than two
// distinct finite points.
var ErrNothingToPlot = errors.New("nothing to plot")

// Default figure size in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
)

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// Color returns the i-th palette color, cycling.
func Color(i int) drawing.Color {
	return palette[i%len(palette)]
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

func dashedStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth:     1.5,
		StrokeColor:     col,
		StrokeDashArray: []float64{5, 4},
	}
}

// pointStyle renders points only, without a connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

// Figure is a chart being assembled.
type Figure struct {
	Title  string
	XName  string
	YName  string
	Width  int
	Height int
	Legend bool

	xFormat string
	xTicks  []chart.Tick
	series  []chart.Series
	points  int
	minX    float64
	maxX    float64
	minY    float64
	maxY    float64
}

// NewFigure starts an empty figure.
func NewFigure(title, xName, yName string) *Figure {
	return &Figure{
		Title:  title,
		XName:  xName,
		YName:  yName,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Legend: true,
		minX:   math.Inf(1),
		maxX:   math.Inf(-1),
		minY:   math.Inf(1),
		maxY:   math.Inf(-1),
	}
}

// TimeFormat sets the layout of time axis labels.
func (f *Figure) TimeFormat(layout string) *Figure {
	f.xFormat = layout
	return f
}

// Ticks sets explicit x axis ticks.
func (f *Figure) Ticks(ticks []chart.Tick) *Figure {
	f.xTicks = ticks
	return f
}

func (f *Figure) track(x, y float64) {
	f.points++
	f.minX = math.Min(f.minX, x)
	f.maxX = math.Max(f.maxX, x)
	f.minY = math.Min(f.minY, y)
	f.maxY = math.Max(f.maxY, y)
}

// AddTimeLine adds a time series. NaN samples are left out.
func (f *Figure) AddTimeLine(name string, times []time.Time, values []float64, style chart.Style) {
	xs := make([]time.Time, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, v)
		f.track(chart.TimeToFloat64(times[i]), v)
	}
	if len(xs) == 0 {
		return
	}
	f.series = append(f.series, chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style})
}

// AddLine adds a numeric series. Pairs with a NaN coordinate are left out.
func (f *Figure) AddLine(name string, x, y []float64, style chart.Style) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
		f.track(x[i], y[i])
	}
	if len(xs) == 0 {
		return
	}
	f.series = append(f.series, chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style})
}

// Render writes the figure as PNG.
func (f *Figure) Render(w io.Writer) error {
	if f.points < 2 || f.maxX <= f.minX {
		return fmt.Errorf("%s: %w", f.Title, ErrNothingToPlot)
	}
	yRange := &chart.ContinuousRange{Min: f.minY, Max: f.maxY}
	if f.maxY <= f.minY {
		yRange = &chart.ContinuousRange{Min: f.minY - 1, Max: f.maxY + 1}
	}

	xAxis := chart.XAxis{
		Name:  f.XName,
		Range: &chart.ContinuousRange{Min: f.minX, Max: f.maxX},
	}
	if f.xFormat != "" {
		xAxis.ValueFormatter = chart.TimeValueFormatterWithFormat(f.xFormat)
	}
	for _, t := range f.xTicks {
		if t.Value >= f.minX && t.Value <= f.maxX {
			xAxis.Ticks = append(xAxis.Ticks, t)
		}
	}

	ch := chart.Chart{
		Title:      f.Title,
		Width:      f.Width,
		Height:     f.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: f.YName, Range: yRange},
		Series:     f.series,
	}
	if f.Legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", f.Title, err)
	}
	return nil
}

// Save renders the figure into path, creating parent directories.
func (f *Figure) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create figure dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}
	if err := f.Render(file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
