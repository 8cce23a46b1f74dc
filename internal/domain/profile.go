package domain

import "time"

// DailyProfile is one day's slice aligned to the canonical grid of N samples.
type DailyProfile struct {
	Day       Day
	RawLength int       // samples observed that day
	PadBefore int       // samples replicated before the first observation
	PadAfter  int       // samples replicated after the last observation
	Values    []float64 // exactly N values
}

// Padded reports whether the day needed edge padding.
func (p DailyProfile) Padded() bool {
	return p.PadBefore+p.PadAfter > 0
}

// DayOverlay is a day's unpadded slice shifted onto the reference day,
// used to draw all days superimposed.
type DayOverlay struct {
	Day    Day
	Times  []time.Time
	Values []float64
}

// MeanDailyProfile is the pointwise mean of the daily profiles of every
// observed day on a synthetic axis spanning the reference day.
type MeanDailyProfile struct {
	Channel       string
	SamplesPerDay int // N
	Reference     Day
	Times         []time.Time
	Values        []float64
	Days          []DailyProfile
	Overlays      []DayOverlay
}

// DayList returns the observed days in order, for axis labelling.
func (p *MeanDailyProfile) DayList() []Day {
	days := make([]Day, len(p.Days))
	for i, d := range p.Days {
		days[i] = d.Day
	}
	return days
}

// PaddedDays returns how many days needed edge padding.
func (p *MeanDailyProfile) PaddedDays() int {
	n := 0
	for _, d := range p.Days {
		if d.Padded() {
			n++
		}
	}
	return n
}
