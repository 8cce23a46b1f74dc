package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"plant-growth-lab/internal/domain"
)

// Dataset kinds.
const (
	KindGrowth        = "growth"
	KindTranspiration = "transpiration"
	KindPorometer     = "porometer"
)

// Input sources.
const (
	SourceCSV        = "csv"
	SourceMemory     = "memory"
	SourcePostgres   = "postgres"
	SourceClickhouse = "clickhouse"
)

// Dataset describes where a campaign's data lives and how to parse it.
type Dataset struct {
	Kind        string   `toml:"kind"`
	Vintage     int      `toml:"vintage"`
	Name        string   `toml:"name"` // Default: "<kind>-<vintage>"
	Input       string   `toml:"input"`
	Delimiter   string   `toml:"delimiter"`
	Encoding    string   `toml:"encoding"`     // utf-8 | latin-1
	TimeColumns []string `toml:"time_columns"` // joined with a space before parsing
	TimeFormat  string   `toml:"time_format"`  // iso-utc | dmy-seconds | dmy-minutes | excel-serial
	UTCOffset   string   `toml:"utc_offset"`   // added to parsed timestamps, e.g. "1h"
}

// Sampling holds the declared sampling period and filter windows.
type Sampling struct {
	PeriodMinutes    int  `toml:"period_minutes"`
	MedianWindow     int  `toml:"median_window"`
	DerivativeWindow int  `toml:"derivative_window"`
	TrimPartialDays  bool `toml:"trim_partial_days"`
	SkipLeadingDays  int  `toml:"skip_leading_days"` // after trimming
}

// Channels selects and conditions the measurement columns.
type Channels struct {
	Include  []string          `toml:"include"`
	Drop     []string          `toml:"drop"`
	Labels   map[string]string `toml:"labels"`
	Absolute bool              `toml:"absolute"` // encoder direction does not matter
	Negate   bool              `toml:"negate"`   // pot weight to water lost
}

// Encoder describes the rotary encoder pulley, to convert ticks into length.
type Encoder struct {
	TicksPerTurn     float64 `toml:"ticks_per_turn"`
	PulleyDiameterCM float64 `toml:"pulley_diameter_cm"`
}

// Evaporation lists the control pots whose mean is subtracted from the plants.
type Evaporation struct {
	Controls []string `toml:"controls"`
	Channel  string   `toml:"channel"`
}

// Correction is an additive offset over a time range, as written in TOML.
type Correction struct {
	Channel string  `toml:"channel"`
	From    string  `toml:"from"`
	To      string  `toml:"to"`
	Offset  float64 `toml:"offset"`
}

// Window is a leaf window, as written in TOML.
type Window struct {
	Channel string `toml:"channel"`
	Start   string `toml:"start"`
	End     string `toml:"end"`
	Plant   string `toml:"plant"`
	Rank    string `toml:"rank"`
}

// Porometer names the porometer columns used by the statistics.
type Porometer struct {
	Conductance    string   `toml:"conductance"`
	PAR            string   `toml:"par"`
	RankColumn     string   `toml:"rank_column"`
	FaceColumn     string   `toml:"face_column"`
	PositionColumn string   `toml:"position_column"`
	StateColumn    string   `toml:"state_column"`
	RankFrom       string   `toml:"rank_from"`
	RankTo         string   `toml:"rank_to"`
	RankOrder      []string `toml:"rank_order"`
}

// Output controls where reports and figures go.
type Output struct {
	Dir         string `toml:"dir"`
	Figures     bool   `toml:"figures"`
	MetricsFile string `toml:"metrics_file"`
}

// Storage selects the sample source and its connection strings.
type Storage struct {
	Source        string `toml:"source"`
	PostgresDSN   string `toml:"postgres_dsn"`
	ClickhouseDSN string `toml:"clickhouse_dsn"`
}

// Logging controls console log output.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates one analysis run.
//
// Sections:
//   - Dataset: input file layout and timestamp parsing
//   - Sampling: declared period and median windows
//   - Channels: column selection and sign conditioning
//   - Encoder: tick to length conversion (growth)
//   - Evaporation: control pots (transpiration)
//   - Corrections: manual sensor-jump offsets
//   - Windows: leaf windows for per-leaf reports
//   - Porometer: porometer column names and rank range
//   - Output, Storage, Logging: run environment
type Config struct {
	Dataset     Dataset      `toml:"dataset"`
	Sampling    Sampling     `toml:"sampling"`
	Channels    Channels     `toml:"channels"`
	Encoder     Encoder      `toml:"encoder"`
	Evaporation Evaporation  `toml:"evaporation"`
	Corrections []Correction `toml:"corrections"`
	Windows     []Window     `toml:"windows"`
	Porometer   Porometer    `toml:"porometer"`
	Output      Output       `toml:"output"`
	Storage     Storage      `toml:"storage"`
	Logging     Logging      `toml:"logging"`
}

// Override adjusts a decoded configuration before normalization, typically
// from command-line flags.
type Override func(*Config)

// Load parses, normalizes and validates a TOML file on top of the defaults.
func Load(path string, overrides ...Override) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config %s does not exist", path)
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	return Parse(file, overrides...)
}

// Parse reads a TOML document on top of the defaults.
func Parse(r io.Reader, overrides ...Override) (*Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return nil, err
	}
	return finish(&cfg, overrides)
}

func decode(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func finish(cfg *Config, overrides []Override) (*Config, error) {
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	encoder.SetIndentTables(true)
	return encoder.Encode(c)
}

// Offset returns the parsed UTC offset.
func (c *Config) Offset() time.Duration {
	if c.Dataset.UTCOffset == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Dataset.UTCOffset)
	return d
}

// DelimiterRune returns the CSV delimiter.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Dataset.Delimiter)[0]
}

// Label returns the display label of a channel, or the channel name.
func (c *Config) Label(channel string) string {
	if l, ok := c.Channels.Labels[channel]; ok && l != "" {
		return l
	}
	return channel
}

// LengthScale returns centimetres per encoder tick: one tick is
// 1/ticks_per_turn of the pulley perimeter.
func (c *Config) LengthScale() float64 {
	if c.Encoder.TicksPerTurn == 0 {
		return 1
	}
	return 1 / c.Encoder.TicksPerTurn * (math.Pi * c.Encoder.PulleyDiameterCM)
}

// DomainWindows converts the leaf windows.
func (c *Config) DomainWindows() ([]domain.Window, error) {
	out := make([]domain.Window, 0, len(c.Windows))
	for i, w := range c.Windows {
		start, err := ParseBound(w.Start)
		if err != nil {
			return nil, fmt.Errorf("windows[%d].start: %w", i, err)
		}
		end, err := ParseBound(w.End)
		if err != nil {
			return nil, fmt.Errorf("windows[%d].end: %w", i, err)
		}
		out = append(out, domain.Window{
			Channel: w.Channel,
			Start:   start,
			End:     end,
			Plant:   w.Plant,
			Rank:    w.Rank,
		})
	}
	return out, nil
}

// DomainCorrections converts the correction records.
func (c *Config) DomainCorrections() ([]domain.Correction, error) {
	out := make([]domain.Correction, 0, len(c.Corrections))
	for i, corr := range c.Corrections {
		from, err := ParseBound(corr.From)
		if err != nil {
			return nil, fmt.Errorf("corrections[%d].from: %w", i, err)
		}
		to, err := ParseBound(corr.To)
		if err != nil {
			return nil, fmt.Errorf("corrections[%d].to: %w", i, err)
		}
		out = append(out, domain.Correction{
			Channel: corr.Channel,
			From:    from,
			To:      to,
			Offset:  corr.Offset,
		})
	}
	return out, nil
}
