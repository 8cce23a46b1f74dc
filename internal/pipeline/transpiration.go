package pipeline

import (
	"context"
	"fmt"
	"slices"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/plot"
	"plant-growth-lab/internal/preprocess"
	"plant-growth-lab/internal/reporting"
	"plant-growth-lab/internal/transform"
)

func (p *Pipeline) runTranspiration(ctx context.Context) (*Result, error) {
	cfg := p.cfg
	evap := cfg.Evaporation.Channel
	controls := cfg.Evaporation.Controls

	raw, err := p.loadFrame(ctx)
	if err != nil {
		return nil, err
	}

	var keep []string
	if len(cfg.Channels.Include) > 0 {
		keep = append(slices.Clone(cfg.Channels.Include), controls...)
	}
	frame, err := p.condition(raw, keep)
	if err != nil {
		return nil, err
	}

	var plants []string
	var trans *domain.Frame
	err = p.stage("evaporation", func() error {
		withEvap, err := preprocess.AddEvaporation(frame, controls, evap)
		if err != nil {
			return err
		}
		if ferr := p.figure("evapotranspiration", plot.Channels("Cumulative evapotranspiration", "[g water]", withEvap, p.labelOf, evap)); ferr != nil {
			return ferr
		}
		for _, ch := range withEvap.Channels() {
			if ch != evap {
				plants = append(plants, ch)
			}
		}
		trans, err = preprocess.Subtract(withEvap, plants, evap)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := p.figure("transpiration_raw", plot.Channels("Cumulative transpiration", "[g water]", trans, p.labelOf)); err != nil {
		return nil, err
	}

	smoothed, cumulative, err := p.smoothAndTrim(trans)
	if err != nil {
		return nil, err
	}
	if err := p.figure("transpiration_filtered", plot.Channels("Cumulative transpiration (filtered)", "[g water]", smoothed, p.labelOf)); err != nil {
		return nil, err
	}
	if err := p.figure("transpiration_complete_days", plot.Channels("Cumulative transpiration (filtered, complete days)", "[g water]", cumulative, p.labelOf)); err != nil {
		return nil, err
	}

	daily, err := p.resetAll(cumulative)
	if err != nil {
		return nil, err
	}
	for _, ch := range daily.Channels() {
		s, _ := daily.Series(ch)
		fig := plot.Series("Daily transpiration - "+cfg.Label(ch), "[g water]", s, cfg.Label(ch))
		if err := p.figure(fileName("daily_transpiration", ch), fig); err != nil {
			return nil, err
		}
	}

	var rates *domain.Frame
	err = p.stage("rate", func() error {
		dx := transform.IntervalHours(cfg.Sampling.PeriodMinutes)
		var err error
		rates, err = cumulative.Map(func(s domain.Series) (domain.Series, error) {
			return transform.Derivative(s, dx, cfg.Sampling.DerivativeWindow)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, ch := range rates.Channels() {
		s, _ := rates.Series(ch)
		fig := plot.Series("Transpiration rate - "+cfg.Label(ch), "[g water/h]", s, cfg.Label(ch))
		if err := p.figure(fileName("transpiration_rate", ch), fig); err != nil {
			return nil, err
		}
	}

	var normalized, normalizedRates map[string]domain.Series
	err = p.stage("normalize", func() error {
		var err error
		if normalized, err = p.normalizeAll(daily, SeriesNormalized); err != nil {
			return err
		}
		normalizedRates, err = p.normalizeAll(rates, SeriesRate)
		return err
	})
	if err != nil {
		return nil, err
	}

	targets, err := p.targets(daily.Channels())
	if err != nil {
		return nil, err
	}

	var profiles []reporting.ProfileEntry
	err = p.stage("profile", func() error {
		for _, t := range targets {
			for _, kind := range []struct {
				series string
				values map[string]domain.Series
				stem   string
				title  string
			}{
				{SeriesNormalized, normalized, "transpiration_dynamics", "Daily transpiration dynamics"},
				{SeriesRate, normalizedRates, "transpiration_rate_dynamics", "Transpiration rate dynamics"},
			} {
				s, ok := kind.values[t.channel]
				if !ok {
					continue
				}
				part := sliceWindow(s, t.window)
				if part.Len() == 0 {
					p.warn("window selects no samples", "channel", t.channel, "window", t.label)
					continue
				}
				entry, err := p.profile(kind.series, part, t)
				if err != nil {
					return fmt.Errorf("%s %s: %w", kind.series, t.channel, err)
				}
				profiles = append(profiles, *entry)
				title := fmt.Sprintf("%s - %s", kind.title, cfg.Label(t.channel))
				if t.label != "" {
					title += " (" + t.label + ")"
				}
				if err := p.profileFigure(fileName(kind.stem, t.channel, t.label), title, "[% of daily maximum]", entry); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p.finish(reporting.Input{Frame: raw, Profiles: profiles})
}

// labelOf returns the display label of a channel.
func (p *Pipeline) labelOf(channel string) string {
	if channel == p.cfg.Evaporation.Channel {
		return "Control pots mean"
	}
	return p.cfg.Label(channel)
}
