package reporting

import (
	"cmp"
	"math"
	"slices"
	"time"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/idhash"
)

// Run identifies the pipeline run a report belongs to.
type Run struct {
	ID       string
	Pipeline string
	Dataset  string
	Source   string
	Input    string
}

// ProfileEntry is a mean daily profile together with its identity.
type ProfileEntry struct {
	ID      string
	Series  string
	Label   string
	Window  string
	Profile *domain.MeanDailyProfile
}

// Input carries the results of a run. Either Frame or Observations is set.
type Input struct {
	Frame        *domain.Frame
	Observations []domain.Observation
	Profiles     []ProfileEntry
	Regression   *RegressionRow
	Groups       []GroupTable
	Warnings     []string
}

// Generator produces reports from pipeline results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete run report.
func (g *Generator) Generate(run Run, in Input) *Report {
	r := &Report{
		RunID:       run.ID,
		Pipeline:    run.Pipeline,
		Dataset:     run.Dataset,
		Source:      run.Source,
		Input:       run.Input,
		GeneratedAt: g.now(),
		Regression:  in.Regression,
		Groups:      in.Groups,
		Warnings:    append([]string(nil), in.Warnings...),
	}

	switch {
	case in.Frame != nil:
		r.Fingerprint = idhash.ComputeFrameFingerprint(in.Frame)
		r.DataSummary = frameSummary(in.Frame)
	case in.Observations != nil:
		r.DataSummary = observationSummary(in.Observations)
	}

	r.Profiles = make([]ProfileRow, 0, len(in.Profiles))
	for _, p := range in.Profiles {
		r.Profiles = append(r.Profiles, profileRow(p))
	}
	sortProfiles(r.Profiles)
	return r
}

func frameSummary(f *domain.Frame) DataSummary {
	s := DataSummary{Readings: f.Len(), Channels: f.Channels()}
	times := f.Times()
	if len(times) == 0 {
		return s
	}
	s.FirstSample = times[0]
	s.LastSample = times[len(times)-1]
	s.Days = countDays(times)
	return s
}

func observationSummary(obs []domain.Observation) DataSummary {
	s := DataSummary{Readings: len(obs)}
	if len(obs) == 0 {
		return s
	}
	times := make([]time.Time, len(obs))
	names := make(map[string]struct{})
	for i, o := range obs {
		times[i] = o.Time
		for name := range o.Numbers {
			names[name] = struct{}{}
		}
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	s.FirstSample = times[0]
	s.LastSample = times[len(times)-1]
	s.Days = countDays(times)
	for name := range names {
		s.Channels = append(s.Channels, name)
	}
	slices.Sort(s.Channels)
	return s
}

// countDays counts distinct calendar days of sorted timestamps.
func countDays(times []time.Time) int {
	n := 0
	var last domain.Day
	for i, t := range times {
		d := domain.DayOf(t)
		if i == 0 || d != last {
			n++
			last = d
		}
	}
	return n
}

func profileRow(e ProfileEntry) ProfileRow {
	p := e.Profile
	row := ProfileRow{
		ProfileID:     e.ID,
		Series:        e.Series,
		Channel:       p.Channel,
		Label:         e.Label,
		Window:        e.Window,
		SamplesPerDay: p.SamplesPerDay,
		Days:          len(p.Days),
		PaddedDays:    p.PaddedDays(),
		Peak:          math.NaN(),
	}
	if days := p.DayList(); len(days) > 0 {
		row.FirstDay = days[0].String()
		row.LastDay = days[len(days)-1].String()
	}
	for i, v := range p.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(row.Peak) || v > row.Peak {
			row.Peak = v
			row.PeakAt = p.Times[i].Format("15:04")
		}
	}
	return row
}

func sortProfiles(rows []ProfileRow) {
	slices.SortStableFunc(rows, func(a, b ProfileRow) int {
		if c := cmp.Compare(a.Series, b.Series); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Channel, b.Channel); c != 0 {
			return c
		}
		return cmp.Compare(a.Window, b.Window)
	})
}
