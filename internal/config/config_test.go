package config_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-growth-lab/internal/config"
)

func TestPresets_AllLoad(t *testing.T) {
	names, err := config.Presets()
	require.NoError(t, err)
	require.Contains(t, names, "growth-2025")
	require.Contains(t, names, "transpiration-2024")
	require.Contains(t, names, "porometer-2025")

	for _, name := range names {
		kind, vintage := splitPreset(t, name)
		cfg, err := config.LoadPreset(kind, vintage)
		require.NoError(t, err, name)
		assert.Equal(t, kind, cfg.Dataset.Kind, name)
		assert.Equal(t, vintage, cfg.Dataset.Vintage, name)
		assert.Equal(t, name, cfg.Dataset.Name, name)
	}
}

func TestLoadPreset_Unknown(t *testing.T) {
	_, err := config.LoadPreset("growth", 1999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no preset")
}

func TestLoadPreset_GrowthGeometry(t *testing.T) {
	cfg, err := config.LoadPreset("growth", 2025)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Sampling.PeriodMinutes)
	assert.Equal(t, 51, cfg.Sampling.MedianWindow)
	assert.True(t, cfg.Channels.Absolute)
	assert.Equal(t, []string{"enc_5"}, cfg.Channels.Drop)
	assert.Equal(t, time.Hour, cfg.Offset())
	assert.InDelta(t, 1.0/80*math.Pi*2.6, cfg.LengthScale(), 1e-12)
	assert.Equal(t, "Encoder 6 (plant 3)", cfg.Label("enc_6"))
	assert.Equal(t, "enc_5", cfg.Label("enc_5"))
}

func TestLoadPreset_Windows(t *testing.T) {
	cfg, err := config.LoadPreset("growth", 2026)
	require.NoError(t, err)

	windows, err := cfg.DomainWindows()
	require.NoError(t, err)
	require.Len(t, windows, 10)

	first := windows[0]
	assert.Equal(t, "enc_1", first.Channel)
	require.NotNil(t, first.Start)
	assert.True(t, first.Start.DateOnly)
	assert.Equal(t, time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC), first.Start.Time)
	require.NotNil(t, first.End)
	assert.False(t, first.End.DateOnly)
	assert.Equal(t, time.Date(2026, 2, 2, 9, 15, 0, 0, time.UTC), first.End.Time)
	assert.Nil(t, windows[1].End)
}

func TestLoadPreset_Corrections(t *testing.T) {
	cfg, err := config.LoadPreset("transpiration", 2024)
	require.NoError(t, err)

	corrections, err := cfg.DomainCorrections()
	require.NoError(t, err)
	require.Len(t, corrections, 5)
	assert.Equal(t, "plant_1", corrections[0].Channel)
	assert.InDelta(t, -30.51, corrections[0].Offset, 1e-9)
	assert.Equal(t, time.Date(2024, 2, 7, 16, 15, 0, 0, time.UTC), corrections[0].From.Time)
	assert.Nil(t, corrections[0].To)

	assert.Equal(t, []string{"tem_1", "tem_2", "tem_3"}, cfg.Evaporation.Controls)
	assert.True(t, cfg.Channels.Negate)
}

func TestLoadPreset_Overrides(t *testing.T) {
	cfg, err := config.LoadPreset("growth", 2023, func(c *config.Config) {
		c.Dataset.Input = "elsewhere.csv"
		c.Output.Dir = "out"
	})
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.csv", cfg.Dataset.Input)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing kind",
			doc:  "[dataset]\ninput = \"a.csv\"\n",
			want: "dataset.kind",
		},
		{
			name: "even median window",
			doc:  "[dataset]\nkind = \"growth\"\ninput = \"a.csv\"\n[sampling]\nmedian_window = 50\n",
			want: "median_window",
		},
		{
			name: "zero period",
			doc:  "[dataset]\nkind = \"growth\"\ninput = \"a.csv\"\n[sampling]\nperiod_minutes = 0\n",
			want: "period_minutes",
		},
		{
			name: "bad time format",
			doc:  "[dataset]\nkind = \"growth\"\ninput = \"a.csv\"\ntime_format = \"unix\"\n",
			want: "time_format",
		},
		{
			name: "multi-char delimiter",
			doc:  "[dataset]\nkind = \"growth\"\ninput = \"a.csv\"\ndelimiter = \";;\"\n",
			want: "delimiter",
		},
		{
			name: "csv without input",
			doc:  "[dataset]\nkind = \"growth\"\n",
			want: "dataset.input",
		},
		{
			name: "postgres without dsn",
			doc:  "[dataset]\nkind = \"growth\"\n[storage]\nsource = \"postgres\"\n",
			want: "postgres_dsn",
		},
		{
			name: "transpiration without controls",
			doc:  "[dataset]\nkind = \"transpiration\"\ninput = \"a.csv\"\n",
			want: "evaporation.controls",
		},
		{
			name: "bad window date",
			doc:  "[dataset]\nkind = \"growth\"\ninput = \"a.csv\"\n[[windows]]\nchannel = \"enc_1\"\nstart = \"yesterday\"\n",
			want: "windows[0].start",
		},
		{
			name: "porometer from warehouse",
			doc:  "[dataset]\nkind = \"porometer\"\n[storage]\nsource = \"clickhouse\"\nclickhouse_dsn = \"clickhouse://localhost:9000/plants\"\n",
			want: "CSV only",
		},
		{
			name: "bad rank range",
			doc:  "[dataset]\nkind = \"porometer\"\ninput = \"p.csv\"\n[porometer]\nrank_from = \"18/02/2025\"\n",
			want: "porometer.rank_from",
		},
		{
			name: "memory without input",
			doc:  "[dataset]\nkind = \"growth\"\n[storage]\nsource = \"memory\"\n",
			want: "dataset.input",
		},
		{
			name: "unknown key",
			doc:  "[dataset]\nkind = \"growth\"\ninput = \"a.csv\"\ncolour = \"red\"\n",
			want: "parse config",
		},
	}

	t.Setenv("PLANTLAB_POSTGRES_DSN", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_EnvFallbacks(t *testing.T) {
	t.Setenv("PLANTLAB_POSTGRES_DSN", "postgres://lab@localhost/plants")
	t.Setenv("PLANTLAB_OUTPUT_DIR", "/tmp/plantlab")

	cfg, err := config.Parse(strings.NewReader("[dataset]\nkind = \"growth\"\n[storage]\nsource = \"Postgres\"\n"))
	require.NoError(t, err)
	assert.Equal(t, config.SourcePostgres, cfg.Storage.Source)
	assert.Equal(t, "postgres://lab@localhost/plants", cfg.Storage.PostgresDSN)
	assert.Equal(t, "/tmp/plantlab", cfg.Output.Dir)
	assert.Equal(t, "growth-0", cfg.Dataset.Name)
}

func TestParse_EncodingAlias(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader("[dataset]\nkind = \"porometer\"\ninput = \"p.csv\"\nencoding = \"ISO-8859-1\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "latin-1", cfg.Dataset.Encoding)
	assert.Equal(t, ';', cfg.DelimiterRune())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lab.toml")
	require.NoError(t, os.WriteFile(path, []byte("[dataset]\nkind = \"growth\"\ninput = \"g.csv\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "g.csv", cfg.Dataset.Input)
	assert.Equal(t, []string{"time"}, cfg.Dataset.TimeColumns)

	_, err = config.Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg, err := config.LoadPreset("transpiration", 2024)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))

	again, err := config.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg.Corrections, again.Corrections)
	assert.Equal(t, cfg.Sampling, again.Sampling)
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		in       string
		want     time.Time
		dateOnly bool
	}{
		{"2025-02-06", time.Date(2025, 2, 6, 0, 0, 0, 0, time.UTC), true},
		{"27-01-2026", time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC), true},
		{"2024-02-07 16:15:00", time.Date(2024, 2, 7, 16, 15, 0, 0, time.UTC), false},
		{"02-02-2026 09:20", time.Date(2026, 2, 2, 9, 20, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		b, err := config.ParseBound(tt.in)
		require.NoError(t, err, tt.in)
		require.NotNil(t, b, tt.in)
		assert.Equal(t, tt.want, b.Time, tt.in)
		assert.Equal(t, tt.dateOnly, b.DateOnly, tt.in)
	}

	b, err := config.ParseBound("  ")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func splitPreset(t *testing.T, name string) (string, int) {
	t.Helper()
	i := strings.LastIndex(name, "-")
	require.Positive(t, i, name)
	var vintage int
	for _, r := range name[i+1:] {
		vintage = vintage*10 + int(r-'0')
	}
	return name[:i], vintage
}
