package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeGrowthCampaign(t *testing.T) (configPath, outputDir string) {
	t.Helper()
	dir := t.TempDir()

	var sb strings.Builder
	sb.WriteString("time;enc_1\n")
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3*24; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		fmt.Fprintf(&sb, "%s;%d\n", ts.Format("02-01-06 15:04"), -2*i)
	}
	input := filepath.Join(dir, "croissance.csv")
	if err := os.WriteFile(input, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	doc := fmt.Sprintf(`
[dataset]
kind = "growth"
vintage = 2025
input = %q

[sampling]
period_minutes = 60
median_window = 3

[channels]
absolute = true
`, input)
	configPath = filepath.Join(dir, "growth.toml")
	if err := os.WriteFile(configPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, filepath.Join(dir, "out")
}

func TestConfigPresets(t *testing.T) {
	out, err := execute(t, "config", "presets")
	if err != nil {
		t.Fatalf("config presets: %v", err)
	}
	for _, want := range []string{"growth-2023", "transpiration-2024", "porometer-2025"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %s:\n%s", want, out)
		}
	}
}

func TestConfigShow_Preset(t *testing.T) {
	out, err := execute(t, "config", "show", "--kind", "growth", "--vintage", "2023", "--output-dir", "/tmp/lab")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[dataset]", "croissance-2023.csv", "/tmp/lab", "enc_6"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_RequiresKind(t *testing.T) {
	if _, err := execute(t, "config", "show", "--vintage", "2023"); err == nil {
		t.Fatal("expected error without --kind")
	}
}

func TestAnalysis_RequiresConfigOrVintage(t *testing.T) {
	_, err := execute(t, "growth")
	if err == nil || !strings.Contains(err.Error(), "--vintage") {
		t.Fatalf("expected missing vintage error, got %v", err)
	}
}

func TestAnalysis_KindMismatch(t *testing.T) {
	configPath, _ := writeGrowthCampaign(t)
	_, err := execute(t, "transpiration", "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "not transpiration") {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
}

func TestGrowthCommand(t *testing.T) {
	configPath, outputDir := writeGrowthCampaign(t)
	metricsFile := filepath.Join(t.TempDir(), "plantlab.prom")

	out, err := execute(t, "growth",
		"--config", configPath,
		"--output-dir", outputDir,
		"--metrics-file", metricsFile,
		"--no-figures",
		"--log-level", "error")
	if err != nil {
		t.Fatalf("growth: %v", err)
	}

	if !strings.Contains(out, "growth report for growth-2025") {
		t.Errorf("missing report header:\n%s", out)
	}
	if !strings.Contains(strings.ToLower(out), "enc_1") {
		t.Errorf("missing profile row:\n%s", out)
	}
	report := filepath.Join(outputDir, "growth-2025", "REPORT.md")
	if _, err := os.Stat(report); err != nil {
		t.Errorf("report not written: %v", err)
	}
	if !strings.Contains(out, report) {
		t.Errorf("report path not listed:\n%s", out)
	}

	metrics, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metrics), `plantlab_pipeline_runs_total{pipeline="growth",status="success"} 1`) {
		t.Errorf("run counter missing from metrics file:\n%s", metrics)
	}
}

func TestImport_RequiresWarehouse(t *testing.T) {
	configPath, _ := writeGrowthCampaign(t)
	_, err := execute(t, "import", "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "--source postgres or clickhouse") {
		t.Fatalf("expected warehouse error, got %v", err)
	}
}

func TestImport_RejectsPorometer(t *testing.T) {
	_, err := execute(t, "import", "--kind", "porometer", "--vintage", "2025")
	if err == nil {
		t.Fatal("expected porometer import to fail")
	}
}
