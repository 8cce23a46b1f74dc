package config

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

var timeFormats = map[string]bool{
	"iso-utc":      true,
	"dmy-seconds":  true,
	"dmy-minutes":  true,
	"excel-serial": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateSampling(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if _, err := c.DomainCorrections(); err != nil {
		return err
	}
	if _, err := c.DomainWindows(); err != nil {
		return err
	}
	if c.Dataset.Kind == KindTranspiration && len(c.Evaporation.Controls) == 0 {
		return errors.New("evaporation.controls must list the control pots for transpiration")
	}
	if c.Dataset.Kind == KindPorometer {
		if err := c.validatePorometer(); err != nil {
			return err
		}
	}
	if c.Dataset.Kind == KindGrowth && c.Encoder.TicksPerTurn < 0 {
		return errors.New("encoder.ticks_per_turn must not be negative")
	}
	return nil
}

func (c *Config) validateDataset() error {
	switch c.Dataset.Kind {
	case KindGrowth, KindTranspiration, KindPorometer:
	case "":
		return errors.New("dataset.kind must be set (growth, transpiration or porometer)")
	default:
		return fmt.Errorf("dataset.kind %q is not supported", c.Dataset.Kind)
	}
	if utf8.RuneCountInString(c.Dataset.Delimiter) != 1 {
		return fmt.Errorf("dataset.delimiter must be a single character, got %q", c.Dataset.Delimiter)
	}
	switch c.Dataset.Encoding {
	case "utf-8", "latin-1":
	default:
		return fmt.Errorf("dataset.encoding %q is not supported (utf-8 or latin-1)", c.Dataset.Encoding)
	}
	if len(c.Dataset.TimeColumns) == 0 {
		return errors.New("dataset.time_columns must name at least one column")
	}
	if !timeFormats[c.Dataset.TimeFormat] {
		return fmt.Errorf("dataset.time_format %q is not supported", c.Dataset.TimeFormat)
	}
	if c.Dataset.UTCOffset != "" {
		if _, err := time.ParseDuration(c.Dataset.UTCOffset); err != nil {
			return fmt.Errorf("dataset.utc_offset: %w", err)
		}
	}
	return nil
}

func (c *Config) validateSampling() error {
	if c.Sampling.PeriodMinutes <= 0 || c.Sampling.PeriodMinutes > 24*60 {
		return fmt.Errorf("sampling.period_minutes must be between 1 and 1440, got %d", c.Sampling.PeriodMinutes)
	}
	if c.Sampling.MedianWindow <= 0 || c.Sampling.MedianWindow%2 == 0 {
		return fmt.Errorf("sampling.median_window must be a positive odd number, got %d", c.Sampling.MedianWindow)
	}
	if c.Sampling.DerivativeWindow <= 0 || c.Sampling.DerivativeWindow%2 == 0 {
		return fmt.Errorf("sampling.derivative_window must be a positive odd number, got %d", c.Sampling.DerivativeWindow)
	}
	if c.Sampling.SkipLeadingDays < 0 {
		return fmt.Errorf("sampling.skip_leading_days must not be negative, got %d", c.Sampling.SkipLeadingDays)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Source {
	case SourceCSV:
		if c.Dataset.Input == "" {
			return errors.New("dataset.input is required when storage.source is csv")
		}
	case SourceMemory:
		if c.Dataset.Input == "" {
			return errors.New("dataset.input is required when storage.source is memory")
		}
	case SourcePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required (or set PLANTLAB_POSTGRES_DSN)")
		}
	case SourceClickhouse:
		if c.Storage.ClickhouseDSN == "" {
			return errors.New("storage.clickhouse_dsn is required (or set PLANTLAB_CLICKHOUSE_DSN)")
		}
	default:
		return fmt.Errorf("storage.source %q is not supported", c.Storage.Source)
	}
	return nil
}

func (c *Config) validatePorometer() error {
	if c.Storage.Source != SourceCSV {
		return fmt.Errorf("porometer readings are read from CSV only, storage.source is %q", c.Storage.Source)
	}
	if c.Porometer.Conductance == "" || c.Porometer.PAR == "" {
		return errors.New("porometer.conductance and porometer.par must be set")
	}
	if _, err := ParseBound(c.Porometer.RankFrom); err != nil {
		return fmt.Errorf("porometer.rank_from: %w", err)
	}
	if _, err := ParseBound(c.Porometer.RankTo); err != nil {
		return fmt.Errorf("porometer.rank_to: %w", err)
	}
	return nil
}
