package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/logging"
)

type globalFlags struct {
	configPath    string
	vintage       int
	input         string
	outputDir     string
	source        string
	postgresDSN   string
	clickhouseDSN string
	logLevel      string
	logFormat     string
	metricsFile   string
	noFigures     bool
}

type commandContext struct {
	flags *globalFlags
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// loadConfig resolves the configuration of a kind: the --config file when
// given, otherwise the embedded preset of --vintage. Flags override both.
func (c *commandContext) loadConfig(kind string) (*config.Config, error) {
	f := c.flags
	overrides := c.overrides()

	path := strings.TrimSpace(f.configPath)
	if path == "" {
		if f.vintage == 0 {
			return nil, errors.New("either --config or --vintage is required")
		}
		return config.LoadPreset(kind, f.vintage, overrides...)
	}

	cfg, err := config.Load(path, overrides...)
	if err != nil {
		return nil, err
	}
	if kind != "" && cfg.Dataset.Kind != kind {
		return nil, fmt.Errorf("config %s describes a %s dataset, not %s", path, cfg.Dataset.Kind, kind)
	}
	return cfg, nil
}

func (c *commandContext) overrides() []config.Override {
	f := c.flags
	var out []config.Override
	set := func(value string, apply func(*config.Config, string)) {
		if v := strings.TrimSpace(value); v != "" {
			out = append(out, func(cfg *config.Config) { apply(cfg, v) })
		}
	}
	set(f.input, func(cfg *config.Config, v string) { cfg.Dataset.Input = v })
	set(f.outputDir, func(cfg *config.Config, v string) { cfg.Output.Dir = v })
	set(f.source, func(cfg *config.Config, v string) { cfg.Storage.Source = v })
	set(f.postgresDSN, func(cfg *config.Config, v string) { cfg.Storage.PostgresDSN = v })
	set(f.clickhouseDSN, func(cfg *config.Config, v string) { cfg.Storage.ClickhouseDSN = v })
	set(f.logLevel, func(cfg *config.Config, v string) { cfg.Logging.Level = v })
	set(f.metricsFile, func(cfg *config.Config, v string) { cfg.Output.MetricsFile = v })
	if f.vintage != 0 && f.configPath != "" {
		out = append(out, func(cfg *config.Config) { cfg.Dataset.Vintage = f.vintage })
	}
	if f.noFigures {
		out = append(out, func(cfg *config.Config) { cfg.Output.Figures = false })
	}
	return out
}

func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(w, logging.Options{
		Level:  cfg.Logging.Level,
		Format: c.flags.logFormat,
	})
}
