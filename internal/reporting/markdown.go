package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s report: %s\n\n", titleCase(r.Pipeline), r.Dataset))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s` | Source: %s\n\n", r.RunID, r.Source))
	if r.Input != "" {
		sb.WriteString(fmt.Sprintf("Input: `%s`\n\n", r.Input))
	}
	if r.Fingerprint != "" {
		sb.WriteString(fmt.Sprintf("Data fingerprint: `%s`\n\n", r.Fingerprint))
	}

	// Data Summary
	s := r.DataSummary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Readings | %d |\n", s.Readings))
	sb.WriteString(fmt.Sprintf("| Channels | %s |\n", strings.Join(s.Channels, ", ")))
	sb.WriteString(fmt.Sprintf("| Days | %d |\n", s.Days))
	if !s.FirstSample.IsZero() {
		sb.WriteString(fmt.Sprintf("| First sample | %s |\n", s.FirstSample.Format(time.DateTime)))
		sb.WriteString(fmt.Sprintf("| Last sample | %s |\n", s.LastSample.Format(time.DateTime)))
	}
	sb.WriteString("\n")

	// Profiles
	if len(r.Profiles) > 0 {
		sb.WriteString("## Mean Daily Profiles\n\n")
		sb.WriteString("| Series | Channel | Window | N | Days | Padded | From | To | Peak | Peak at | ID |\n")
		sb.WriteString("|--------|---------|--------|---|------|--------|------|----|------|---------|----|\n")
		for _, p := range r.Profiles {
			window := p.Window
			if window == "" {
				window = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %d | %s | %s | %.2f | %s | `%s` |\n",
				p.Series, p.Label, window, p.SamplesPerDay, p.Days, p.PaddedDays,
				p.FirstDay, p.LastDay, p.Peak, p.PeakAt, p.ProfileID))
		}
		sb.WriteString("\n")
	}

	// Regression
	if reg := r.Regression; reg != nil {
		sb.WriteString(fmt.Sprintf("## Regression: %s vs %s\n\n", reg.Y, reg.X))
		sb.WriteString("| N | Slope | Intercept | r (Pearson) |\n")
		sb.WriteString("|---|-------|-----------|-------------|\n")
		sb.WriteString(fmt.Sprintf("| %d | %.4f | %.4f | %.2f |\n\n", reg.N, reg.Slope, reg.Intercept, reg.R))
	}

	// Groups
	for _, t := range r.Groups {
		sb.WriteString(fmt.Sprintf("## %s\n\n", t.Title))
		sb.WriteString(fmt.Sprintf("| %s | count | mean | std | min | 25%% | 50%% | 75%% | max |\n", t.By))
		sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		for _, g := range t.Groups {
			v := g.Summary
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				g.Name(), v.Count, v.Mean, v.Std, v.Min, v.Q25, v.Median, v.Q75, v.Max))
		}
		sb.WriteString("\n")
	}

	// Warnings
	sb.WriteString("## Warnings\n\n")
	if len(r.Warnings) == 0 {
		sb.WriteString("None.\n")
	}
	for _, w := range r.Warnings {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}

	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
