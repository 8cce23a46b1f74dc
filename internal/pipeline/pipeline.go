// Package pipeline runs the growth, transpiration and porometer analyses:
// load, condition, apply the daily transforms, then write figures and
// reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/idhash"
	"plant-growth-lab/internal/logging"
	"plant-growth-lab/internal/observability"
	"plant-growth-lab/internal/plot"
	"plant-growth-lab/internal/reporting"
	"plant-growth-lab/internal/transform"
)

// Profile series names.
const (
	SeriesReset      = "reset"
	SeriesNormalized = "normalized"
	SeriesRate       = "rate"
)

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Report   *reporting.Report
	Profiles []reporting.ProfileEntry
	Files    []string // reports and figures written
}

// Pipeline runs one analysis described by a configuration.
type Pipeline struct {
	cfg     *config.Config
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics
	reports *reporting.Generator
	clock   func() time.Time
	runID   string

	warnings []string
	files    []string
}

// New creates a pipeline for cfg. The dataset kind selects the analysis.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		logger:  logging.Discard(),
		metrics: observability.NewMetrics(""),
		reports: reporting.NewGenerator(),
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// WithSource sets the frame source. Without one, growth and transpiration
// runs open the source named by the configuration.
func (p *Pipeline) WithSource(src Source) *Pipeline {
	p.source = src
	return p
}

// WithLogger sets the logger.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithMetrics sets the metrics the run records into.
func (p *Pipeline) WithMetrics(m *observability.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	p.reports = p.reports.WithClock(clock)
	return p
}

// WithRunID sets the run identifier instead of a random one.
func (p *Pipeline) WithRunID(id string) *Pipeline {
	p.runID = id
	return p
}

// OutputDir returns the directory receiving this run's files.
func (p *Pipeline) OutputDir() string {
	return filepath.Join(p.cfg.Output.Dir, p.cfg.Dataset.Name)
}

// Run executes the analysis and writes its outputs.
func (p *Pipeline) Run(ctx context.Context) (res *Result, err error) {
	kind := p.cfg.Dataset.Kind
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.logger = logging.Component(p.logger, kind).With("run_id", p.runID, "dataset", p.cfg.Dataset.Name)
	p.warnings, p.files = nil, nil

	start := time.Now()
	p.logger.Info("run started", "source", p.cfg.Storage.Source)
	defer func() {
		p.metrics.RecordRun(kind, err, p.clock())
		if err != nil {
			p.logger.Error("run failed", "error", err, "elapsed", time.Since(start))
			return
		}
		p.logger.Info("run complete",
			"profiles", len(res.Profiles),
			"files", len(res.Files),
			"warnings", len(p.warnings),
			"elapsed", time.Since(start))
	}()

	switch kind {
	case config.KindGrowth:
		return p.runGrowth(ctx)
	case config.KindTranspiration:
		return p.runTranspiration(ctx)
	case config.KindPorometer:
		return p.runPorometer(ctx)
	default:
		return nil, fmt.Errorf("unsupported dataset kind %q", kind)
	}
}

// stage runs fn as a named, timed step of the run.
func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.RecordStage(p.cfg.Dataset.Kind, name, elapsed, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("stage complete", "stage", name, "elapsed", elapsed)
	return nil
}

func (p *Pipeline) warn(msg string, args ...any) {
	p.logger.Warn(msg, args...)
	p.warnings = append(p.warnings, msg+formatArgs(args))
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	return sb.String()
}

// loadFrame opens the configured source when none was injected.
func (p *Pipeline) loadFrame(ctx context.Context) (*domain.Frame, error) {
	var frame *domain.Frame
	err := p.stage("load", func() error {
		src := p.source
		if src == nil {
			opened, closeFn, err := OpenSource(ctx, p.cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			src = opened
		}
		p.logger.Info("loading samples", "from", src.Describe())
		f, err := src.LoadFrame(ctx)
		if err != nil {
			return err
		}
		frame = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	dataset := p.cfg.Dataset.Name
	p.metrics.SamplesLoaded.WithLabelValues(dataset).Add(float64(frame.Len() * len(frame.Channels())))
	p.logger.Info("samples loaded", "timestamps", frame.Len(), "channels", len(frame.Channels()))
	return frame, nil
}

// target is one (channel, window) pair a profile is built for.
type target struct {
	channel string
	window  domain.Window
	label   string // window label, empty for whole channels
}

// targets returns the configured leaf windows of the given channels, or one
// whole-range target per channel when no windows are configured.
func (p *Pipeline) targets(channels []string) ([]target, error) {
	windows, err := p.cfg.DomainWindows()
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		out := make([]target, len(channels))
		for i, ch := range channels {
			out[i] = target{channel: ch, window: domain.Window{Channel: ch}}
		}
		return out, nil
	}

	known := make(map[string]bool, len(channels))
	for _, ch := range channels {
		known[ch] = true
	}
	out := make([]target, 0, len(windows))
	for _, w := range windows {
		if !known[w.Channel] {
			p.warn("window skipped, channel not analysed", "channel", w.Channel, "window", w.Label())
			continue
		}
		out = append(out, target{channel: w.Channel, window: w, label: windowLabel(w)})
	}
	return out, nil
}

// windowLabel names a window by plant and rank, or by its date range.
func windowLabel(w domain.Window) string {
	if l := w.Label(); l != "" {
		return l
	}
	bound := func(b *domain.Bound, open string) string {
		if b == nil {
			return open
		}
		if b.DateOnly {
			return b.Time.Format(time.DateOnly)
		}
		return b.Time.Format("2006-01-02 15:04")
	}
	return bound(w.Start, "start") + " to " + bound(w.End, "end")
}

// sliceWindow returns the samples of s inside w.
func sliceWindow(s domain.Series, w domain.Window) domain.Series {
	from, to := -1, -1
	for i, t := range s.Times {
		if w.Contains(t) {
			if from < 0 {
				from = i
			}
			to = i + 1
		}
	}
	if from < 0 {
		return s.Slice(0, 0)
	}
	return s.Slice(from, to)
}

// normalizeAll normalizes every channel. Channels with a degenerate day are
// reported and left out.
func (p *Pipeline) normalizeAll(f *domain.Frame, series string) (map[string]domain.Series, error) {
	out := make(map[string]domain.Series, len(f.Channels()))
	for _, name := range f.Channels() {
		s, err := f.Series(name)
		if err != nil {
			return nil, err
		}
		norm, err := transform.DailyNormalize(s)
		var degenerate *transform.DegenerateDayError
		if errors.As(err, &degenerate) {
			p.warn("channel not normalized", "series", series, "channel", name, "day", degenerate.Day.String())
			continue
		}
		if err != nil {
			return nil, err
		}
		out[name] = norm
	}
	return out, nil
}

// profile builds the mean daily profile of s, logs its padding warnings and
// records it.
func (p *Pipeline) profile(series string, s domain.Series, t target) (*reporting.ProfileEntry, error) {
	period := p.cfg.Sampling.PeriodMinutes
	res, err := transform.MeanProfile(s, period)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		p.warn(w.Error(), "series", series, "channel", w.Channel)
	}

	prof := res.Profile
	days := prof.DayList()
	dataset := p.cfg.Dataset.Name
	p.metrics.RecordProfile(dataset, series, len(days), prof.PaddedDays())

	return &reporting.ProfileEntry{
		ID:      idhash.ComputeProfileID(dataset, series, t.channel, t.label, period, days),
		Series:  series,
		Label:   p.cfg.Label(t.channel),
		Window:  t.label,
		Profile: prof,
	}, nil
}

// figure writes fig when figures are enabled. A figure with nothing to draw
// is reported, not fatal.
func (p *Pipeline) figure(name string, fig *plot.Figure) error {
	if !p.cfg.Output.Figures {
		return nil
	}
	path := filepath.Join(p.OutputDir(), "figures", name+".png")
	err := fig.Save(path)
	if errors.Is(err, plot.ErrNothingToPlot) {
		p.warn("figure skipped, nothing to plot", "figure", name)
		return nil
	}
	if err != nil {
		return err
	}
	p.metrics.FiguresRendered.Inc()
	p.files = append(p.files, path)
	return nil
}

// profileFigure draws a mean profile with hourly ticks.
func (p *Pipeline) profileFigure(name, title, yName string, e *reporting.ProfileEntry) error {
	fig := plot.Profile(title, yName, e.Profile).Ticks(plot.HourTicks(e.Profile.Reference, 2))
	return p.figure(name, fig)
}

// finish generates and writes the report.
func (p *Pipeline) finish(in reporting.Input) (*Result, error) {
	result := &Result{RunID: p.runID, Profiles: in.Profiles}
	err := p.stage("report", func() error {
		in.Warnings = p.warnings
		result.Report = p.reports.Generate(reporting.Run{
			ID:       p.runID,
			Pipeline: p.cfg.Dataset.Kind,
			Dataset:  p.cfg.Dataset.Name,
			Source:   p.cfg.Storage.Source,
			Input:    p.cfg.Dataset.Input,
		}, in)
		written, err := reporting.WriteFiles(p.OutputDir(), result.Report, in.Profiles)
		if err != nil {
			return err
		}
		p.metrics.ReportsGenerated.Add(float64(len(written)))
		p.files = append(p.files, written...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Files = p.files
	return result, nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// fileName turns labels into a file name stem.
func fileName(parts ...string) string {
	var kept []string
	for _, part := range parts {
		s := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(part), "_"), "_")
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "_")
}
