package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/ingest"
	"plant-growth-lab/internal/plot"
	"plant-growth-lab/internal/porometer"
	"plant-growth-lab/internal/reporting"
)

// grouping is one grouped summary of the porometer readings.
type grouping struct {
	title string
	value string
	by    string
	keys  []porometer.KeyFunc
	obs   []domain.Observation
	order []string
}

func (p *Pipeline) runPorometer(ctx context.Context) (*Result, error) {
	cfg := p.cfg
	pc := cfg.Porometer

	var obs []domain.Observation
	err := p.stage("load", func() error {
		var err error
		p.logger.Info("loading readings", "from", "csv:"+cfg.Dataset.Input)
		obs, err = ingest.ReadObservationsFile(ctx, cfg.Dataset.Input, ingest.OptionsFromConfig(cfg), []string{pc.Conductance, pc.PAR})
		return err
	})
	if err != nil {
		return nil, err
	}
	p.metrics.SamplesLoaded.WithLabelValues(cfg.Dataset.Name).Add(float64(len(obs)))
	p.logger.Info("readings loaded", "readings", len(obs))

	var regression *reporting.RegressionRow
	err = p.stage("regression", func() error {
		reg, err := porometer.LinearRegression(obs, pc.PAR, pc.Conductance)
		if errors.Is(err, porometer.ErrTooFewPoints) {
			p.warn("regression skipped", "error", err.Error())
			return nil
		}
		if err != nil {
			return err
		}
		regression = &reporting.RegressionRow{
			X: pc.PAR, Y: pc.Conductance,
			N: reg.N, Slope: reg.Slope, Intercept: reg.Intercept, R: reg.R,
		}
		p.logger.Info("regression fitted", "n", reg.N, "slope", reg.Slope, "intercept", reg.Intercept, "r", reg.R)
		xs, ys := porometer.Pairs(obs, pc.PAR, pc.Conductance)
		return p.figure("conductance_vs_par", plot.Scatter("Stomatal conductance vs PAR", "PAR [µmol/m²/s]", "Conductance [mmol/m²/s]", xs, ys, reg))
	})
	if err != nil {
		return nil, err
	}

	groupings, err := p.groupings(obs)
	if err != nil {
		return nil, err
	}

	var tables []reporting.GroupTable
	err = p.stage("describe", func() error {
		for _, g := range groupings {
			groups := porometer.Ordered(porometer.GroupBy(g.obs, g.value, g.keys...), g.order)
			tables = append(tables, reporting.GroupTable{Title: g.title, Value: g.value, By: g.by, Groups: groups})

			strips := make([]plot.StripGroup, len(groups))
			for i, grp := range groups {
				strips[i] = plot.StripGroup{Name: grp.Name(), Values: grp.Values, Median: grp.Summary.Median}
			}
			if err := p.figure(fileName(g.title), plot.Strip(g.title, g.by, g.value, strips)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p.finish(reporting.Input{Observations: obs, Regression: regression, Groups: tables})
}

// groupings lists the summaries of the porometer analysis. Groupings over
// an unconfigured column are left out.
func (p *Pipeline) groupings(obs []domain.Observation) ([]grouping, error) {
	pc := p.cfg.Porometer
	cond, par := pc.Conductance, pc.PAR
	var out []grouping

	if pc.RankColumn != "" {
		ranked, span, err := rankRange(obs, pc)
		if err != nil {
			return nil, err
		}
		out = append(out, grouping{
			title: "Conductance by leaf rank" + span,
			value: cond, by: pc.RankColumn,
			keys:  []porometer.KeyFunc{porometer.Label(pc.RankColumn)},
			obs:   ranked,
			order: pc.RankOrder,
		})
	}
	out = append(out,
		grouping{title: "Conductance by hour", value: cond, by: "hour", keys: []porometer.KeyFunc{porometer.Hour()}, obs: obs},
		grouping{title: "PAR by hour", value: par, by: "hour", keys: []porometer.KeyFunc{porometer.Hour()}, obs: obs},
	)
	if pc.FaceColumn != "" {
		out = append(out,
			grouping{title: "Conductance by leaf face", value: cond, by: pc.FaceColumn, keys: []porometer.KeyFunc{porometer.Label(pc.FaceColumn)}, obs: obs},
			grouping{title: "Conductance by hour and leaf face", value: cond, by: "hour / " + pc.FaceColumn, keys: []porometer.KeyFunc{porometer.Hour(), porometer.Label(pc.FaceColumn)}, obs: obs},
		)
	}
	if pc.PositionColumn != "" {
		out = append(out, grouping{title: "Conductance by position on the leaf", value: cond, by: pc.PositionColumn, keys: []porometer.KeyFunc{porometer.Label(pc.PositionColumn)}, obs: obs})
	}
	if pc.StateColumn != "" && pc.FaceColumn != "" {
		out = append(out, grouping{title: "Conductance by leaf state and face", value: cond, by: pc.StateColumn + " / " + pc.FaceColumn, keys: []porometer.KeyFunc{porometer.Label(pc.StateColumn), porometer.Label(pc.FaceColumn)}, obs: obs})
	}
	return out, nil
}

// rankRange keeps the readings between rank_from and rank_to, both
// inclusive. Bounds are instants: a date alone means its midnight.
func rankRange(obs []domain.Observation, pc config.Porometer) ([]domain.Observation, string, error) {
	from, err := config.ParseBound(pc.RankFrom)
	if err != nil {
		return nil, "", fmt.Errorf("rank_from: %w", err)
	}
	to, err := config.ParseBound(pc.RankTo)
	if err != nil {
		return nil, "", fmt.Errorf("rank_to: %w", err)
	}
	if from == nil && to == nil {
		return obs, "", nil
	}
	lo, hi := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	span := " ("
	if from != nil {
		lo = from.Time
		span += pc.RankFrom
	}
	span += " to "
	if to != nil {
		hi = to.Time
		span += pc.RankTo
	}
	return porometer.Between(obs, lo, hi), span + ")", nil
}
