package pipeline

import (
	"context"
	"fmt"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/plot"
	"plant-growth-lab/internal/preprocess"
	"plant-growth-lab/internal/reporting"
	"plant-growth-lab/internal/transform"
)

// condition applies sign handling, channel selection, corrections,
// smoothing and trimming shared by the time-series analyses.
func (p *Pipeline) condition(frame *domain.Frame, keep []string) (*domain.Frame, error) {
	cfg := p.cfg
	var out *domain.Frame
	err := p.stage("condition", func() error {
		f := frame
		if cfg.Channels.Absolute {
			f = preprocess.Absolute(f)
		}
		f, err := preprocess.Select(f, keep, cfg.Channels.Drop)
		if err != nil {
			return err
		}
		if cfg.Channels.Negate {
			f = preprocess.Negate(f)
		}
		corrections, err := cfg.DomainCorrections()
		if err != nil {
			return err
		}
		f, err = preprocess.ApplyCorrections(f, corrections)
		if err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.metrics.ChannelsKept.WithLabelValues(cfg.Dataset.Name).Set(float64(len(out.Channels())))
	return out, nil
}

// smoothAndTrim median-filters every channel, then keeps complete days.
func (p *Pipeline) smoothAndTrim(f *domain.Frame) (smoothed, trimmed *domain.Frame, err error) {
	s := p.cfg.Sampling
	err = p.stage("smooth", func() error {
		smoothed, err = preprocess.Smooth(f, s.MedianWindow)
		if err != nil {
			return err
		}
		trimmed, err = preprocess.TrimDays(smoothed, s.TrimPartialDays, s.SkipLeadingDays)
		return err
	})
	return smoothed, trimmed, err
}

// resetAll applies the daily reset to every channel.
func (p *Pipeline) resetAll(f *domain.Frame) (*domain.Frame, error) {
	var out *domain.Frame
	err := p.stage("reset", func() error {
		var err error
		out, err = f.Map(transform.DailyReset)
		return err
	})
	return out, err
}

func (p *Pipeline) runGrowth(ctx context.Context) (*Result, error) {
	cfg := p.cfg
	raw, err := p.loadFrame(ctx)
	if err != nil {
		return nil, err
	}

	frame, err := p.condition(raw, cfg.Channels.Include)
	if err != nil {
		return nil, err
	}
	_, frame, err = p.smoothAndTrim(frame)
	if err != nil {
		return nil, err
	}
	frame = preprocess.Scale(frame, cfg.LengthScale())
	p.logger.Info("frame conditioned",
		"channels", len(frame.Channels()),
		"timestamps", frame.Len(),
		"cm_per_tick", cfg.LengthScale())

	if err := p.figure("elongation", plot.Channels("Cumulative leaf elongation", "[cm]", frame, cfg.Label)); err != nil {
		return nil, err
	}

	daily, err := p.resetAll(frame)
	if err != nil {
		return nil, err
	}
	for _, ch := range daily.Channels() {
		s, _ := daily.Series(ch)
		fig := plot.Series("Daily cumulative growth - "+cfg.Label(ch), "[cm]", s, cfg.Label(ch))
		if err := p.figure(fileName("daily_growth", ch), fig); err != nil {
			return nil, err
		}
	}

	var normalized map[string]domain.Series
	if err := p.stage("normalize", func() error {
		normalized, err = p.normalizeAll(daily, SeriesNormalized)
		return err
	}); err != nil {
		return nil, err
	}

	targets, err := p.targets(daily.Channels())
	if err != nil {
		return nil, err
	}

	var profiles []reporting.ProfileEntry
	err = p.stage("profile", func() error {
		for _, t := range targets {
			title := cfg.Label(t.channel)
			if t.label != "" {
				title = fmt.Sprintf("%s (%s)", t.label, t.channel)
			}

			s, _ := daily.Series(t.channel)
			leaf := sliceWindow(s, t.window)
			if leaf.Len() == 0 {
				p.warn("window selects no samples", "channel", t.channel, "window", t.label)
				continue
			}
			if t.label != "" {
				fig := plot.Series("Daily cumulative growth - "+title, "[cm]", leaf, title)
				if err := p.figure(fileName("daily_growth", t.channel, t.label), fig); err != nil {
					return err
				}
			}

			norm, ok := normalized[t.channel]
			if !ok {
				continue
			}
			entry, err := p.profile(SeriesNormalized, sliceWindow(norm, t.window), t)
			if err != nil {
				return fmt.Errorf("%s %s: %w", t.channel, t.label, err)
			}
			profiles = append(profiles, *entry)
			if err := p.profileFigure(fileName("growth_dynamics", t.channel, t.label),
				"Mean daily growth dynamics - "+title, "[% of daily growth]", entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p.finish(reporting.Input{Frame: raw, Profiles: profiles})
}
