package plot

import (
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/porometer"
)

const (
	dateLayout = "02-01"
	hourLayout = "15:04"
)

// Channels draws every channel of a frame over time on one figure.
// label maps a channel name to its legend entry; dashed channels are drawn
// with a dashed gray line.
func Channels(title, yName string, f *domain.Frame, label func(string) string, dashed ...string) *Figure {
	fig := NewFigure(title, "Date", yName).TimeFormat(dateLayout)
	isDashed := make(map[string]bool, len(dashed))
	for _, d := range dashed {
		isDashed[d] = true
	}
	color := 0
	for _, name := range f.Channels() {
		s, _ := f.Series(name)
		style := lineStyle(Color(color))
		if isDashed[name] {
			style = dashedStyle(Color(7))
		} else {
			color++
		}
		fig.AddTimeLine(label(name), s.Times, s.Values, style)
	}
	return fig
}

// Series draws a single series over time.
func Series(title, yName string, s domain.Series, label string) *Figure {
	fig := NewFigure(title, "Date", yName).TimeFormat(dateLayout)
	fig.Legend = false
	fig.AddTimeLine(label, s.Times, s.Values, lineStyle(Color(0)))
	return fig
}

// Profile draws every day of a mean daily profile superimposed on the
// reference day, with the mean curve on top.
func Profile(title, yName string, p *domain.MeanDailyProfile) *Figure {
	fig := NewFigure(title, "Hour", yName).TimeFormat(hourLayout)
	for i, o := range p.Overlays {
		fig.AddTimeLine(o.Day.Label(), o.Times, o.Values, lineStyle(Color(i).WithAlpha(110)))
	}
	mean := lineStyle(Color(3))
	mean.StrokeWidth = 3
	fig.AddTimeLine("Mean", p.Times, p.Values, mean)
	return fig
}

// Scatter draws the porometer readings with their regression line.
func Scatter(title, xName, yName string, xs, ys []float64, reg porometer.Regression) *Figure {
	fig := NewFigure(fmt.Sprintf("%s (r = %.2f)", title, reg.R), xName, yName)
	fig.AddLine("Measured", xs, ys, pointStyle(Color(0)))
	if len(xs) > 0 {
		lo, hi := xs[0], xs[0]
		for _, x := range xs {
			lo = min(lo, x)
			hi = max(hi, x)
		}
		fig.AddLine("Linear regression", []float64{lo, hi}, []float64{reg.Predict(lo), reg.Predict(hi)}, lineStyle(Color(3)))
	}
	return fig
}

// StripGroup is one category of a strip plot.
type StripGroup struct {
	Name   string
	Values []float64
	Median float64
}

// Strip draws the readings of each group as a column of points at its own
// x position, with a short bar at the group median.
func Strip(title, xName, yName string, groups []StripGroup) *Figure {
	fig := NewFigure(title, xName, yName)
	fig.Legend = false
	ticks := make([]chart.Tick, 0, len(groups)+2)
	ticks = append(ticks, chart.Tick{Value: 0})
	for i, g := range groups {
		x := float64(i + 1)
		xs := make([]float64, len(g.Values))
		for j := range xs {
			xs[j] = x
		}
		fig.AddLine(g.Name, xs, g.Values, pointStyle(Color(i)))
		median := lineStyle(Color(3))
		median.StrokeWidth = 2.5
		fig.AddLine(g.Name+" median", []float64{x - 0.3, x + 0.3}, []float64{g.Median, g.Median}, median)
		ticks = append(ticks, chart.Tick{Value: x, Label: g.Name})
	}
	if fig.points == 0 {
		return fig
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(groups) + 1)})
	fig.track(0, fig.minY)
	fig.track(float64(len(groups)+1), fig.minY)
	return fig.Ticks(ticks)
}

// DayTicks returns one tick per day at midnight, for long time axes.
func DayTicks(days []domain.Day) []chart.Tick {
	ticks := make([]chart.Tick, len(days))
	for i, d := range days {
		ticks[i] = chart.Tick{Value: chart.TimeToFloat64(d.Midnight()), Label: d.Label()}
	}
	return ticks
}

// HourTicks returns ticks every step hours across the reference day.
func HourTicks(reference domain.Day, step int) []chart.Tick {
	var ticks []chart.Tick
	start := reference.Midnight()
	for h := 0; h <= 24; h += step {
		t := start.Add(time.Duration(h) * time.Hour)
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: fmt.Sprintf("%02dh", h)})
	}
	return ticks
}
