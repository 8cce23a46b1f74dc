package reporting

import (
	"fmt"
	"strings"
)

// RenderProfilesCSV renders mean daily profiles in long format, one row per
// profile slot.
func RenderProfilesCSV(profiles []ProfileEntry) string {
	var sb strings.Builder

	// Header
	sb.WriteString("profile_id,series,channel,window,slot,time_of_day,value\n")

	// Rows
	for _, e := range profiles {
		p := e.Profile
		for i, v := range p.Values {
			sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%s,%.6f\n",
				e.ID,
				e.Series,
				csvField(p.Channel),
				csvField(e.Window),
				i,
				p.Times[i].Format("15:04"),
				v,
			))
		}
	}

	return sb.String()
}

// RenderProfileSummaryCSV renders the profile rows of a report.
func RenderProfileSummaryCSV(rows []ProfileRow) string {
	var sb strings.Builder

	sb.WriteString("profile_id,series,channel,window,samples_per_day,days,padded_days,first_day,last_day,peak,peak_at\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%d,%s,%s,%.6f,%s\n",
			r.ProfileID,
			r.Series,
			csvField(r.Channel),
			csvField(r.Window),
			r.SamplesPerDay,
			r.Days,
			r.PaddedDays,
			r.FirstDay,
			r.LastDay,
			r.Peak,
			r.PeakAt,
		))
	}

	return sb.String()
}

// RenderGroupsCSV renders grouped summaries, one row per group.
func RenderGroupsCSV(tables []GroupTable) string {
	var sb strings.Builder

	sb.WriteString("table,value,key,count,mean,std,min,q25,median,q75,max\n")
	for _, t := range tables {
		for _, g := range t.Groups {
			s := g.Summary
			sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
				csvField(t.Title),
				csvField(t.Value),
				csvField(g.Name()),
				s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max,
			))
		}
	}

	return sb.String()
}

// csvField quotes a field holding a comma or a quote.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
