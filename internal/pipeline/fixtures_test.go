package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"plant-growth-lab/internal/config"
)

// campaignStart is the first (partial) day of every fixture campaign.
var campaignStart = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

// writeCSV writes a semicolon-separated fixture and returns its path.
func writeCSV(t *testing.T, name string, header []string, rows [][]string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(strings.Join(header, ";") + "\n")
	for _, r := range rows {
		sb.WriteString(strings.Join(r, ";") + "\n")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func num(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// growthFixture is four days of hourly encoder counts. The first and last
// days are trimmed; the third day misses its 12:00 reading. enc_1 counts
// backwards to exercise the absolute value.
func growthFixture(t *testing.T) string {
	t.Helper()
	var rows [][]string
	total := 0.0
	for i := 0; i < 4*24; i++ {
		ts := campaignStart.Add(time.Duration(i) * time.Hour)
		hour := ts.Hour()
		if hour >= 8 && hour <= 18 {
			total += 4
		} else {
			total++
		}
		if ts.Day() == 3 && hour == 12 {
			continue
		}
		rows = append(rows, []string{
			ts.Format("02-01-06 15:04"),
			num(-total),
			num(total / 2),
			num(7),
		})
	}
	return writeCSV(t, "croissance.csv", []string{"time", "enc_1", "enc_2", "enc_5"}, rows)
}

// transpirationFixture is four days of hourly pot weights: plants lose
// water faster during the day, control pots evaporate steadily.
func transpirationFixture(t *testing.T) string {
	t.Helper()
	var rows [][]string
	plant, control := 0.0, 0.0
	for i := 0; i < 4*24; i++ {
		ts := campaignStart.Add(time.Duration(i) * time.Hour)
		if h := ts.Hour(); h >= 8 && h <= 18 {
			plant += 3
		} else {
			plant += 0.5
		}
		control += 0.2
		rows = append(rows, []string{
			ts.Format("02-01-06 15:04"),
			num(1000 - plant),
			num(900 - 1.5*plant),
			num(500 - control),
			num(520 - control),
		})
	}
	return writeCSV(t, "balances.csv", []string{"time", "plant_1", "plant_2", "tem_1", "tem_2"}, rows)
}

// porometerFixture is a handful of readings over four days.
func porometerFixture(t *testing.T) string {
	t.Helper()
	rows := [][]string{
		{"17-02-25", "09:00", "40", "50", "1-2", "ad", "base", "saine"},
		{"18-02-25", "09:00", "60", "250", "11-12", "ab", "tip", "saine"},
		{"18-02-25", "14:00", "80", "350", "1-2", "ad", "base", "saine"},
		{"19-02-25", "10:00", "100", "450", "3-4", "ab", "tip", "sèche"},
		{"20-02-25", "10:00", "", "500", "3-4", "ab", "tip", "sèche"},
		{"21-02-25", "09:00", "20", "50", "3-4", "ad", "base", "sèche"},
	}
	return writeCSV(t, "porometre.csv",
		[]string{"date", "heure", "cond", "PAR", "rang_f", "face_f", "pos_f", "état_f"}, rows)
}

// testConfig parses doc on top of the defaults and points the run at input
// and a fresh output directory.
func testConfig(t *testing.T, doc, input string, overrides ...config.Override) *config.Config {
	t.Helper()
	out := t.TempDir()
	all := append([]config.Override{func(c *config.Config) {
		c.Dataset.Input = input
		c.Output.Dir = out
	}}, overrides...)
	cfg, err := config.Parse(strings.NewReader(doc), all...)
	require.NoError(t, err)
	return cfg
}

const growthDoc = `
[dataset]
kind = "growth"
vintage = 2025
time_format = "dmy-minutes"

[sampling]
period_minutes = 60
median_window = 3

[channels]
drop = ["enc_5"]
absolute = true

[channels.labels]
enc_1 = "Encoder 1 (plant 1)"

[encoder]
ticks_per_turn = 80
pulley_diameter_cm = 2.6

[[windows]]
channel = "enc_1"
start = "2025-02-02"
end = "2025-02-03"
plant = "Plant 1"
rank = "rank 3"

[[windows]]
channel = "enc_2"
start = "2025-02-03"

[[windows]]
channel = "enc_9"
plant = "Plant 9"
`

const transpirationDoc = `
[dataset]
kind = "transpiration"
vintage = 2024

[sampling]
period_minutes = 60
median_window = 3
derivative_window = 3

[channels]
include = ["plant_1", "plant_2"]
negate = true

[evaporation]
controls = ["tem_1", "tem_2"]

[[corrections]]
channel = "plant_2"
from = "2025-02-04 00:00"
offset = 0.0
`

const porometerDoc = `
[dataset]
kind = "porometer"
vintage = 2025
time_columns = ["date", "heure"]

[porometer]
rank_column = "rang_f"
face_column = "face_f"
position_column = "pos_f"
state_column = "état_f"
rank_from = "2025-02-18"
rank_to = "2025-02-21"
rank_order = ["1-2", "3-4", "5-6", "7-8", "9-10", "11-12"]
`
