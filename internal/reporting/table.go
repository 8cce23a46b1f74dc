package reporting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Alignment is the horizontal alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable renders rows as a terminal table.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// GroupTableText renders a grouped summary the way describe() prints it.
func GroupTableText(t GroupTable) string {
	headers := []string{t.By, "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	aligns := []Alignment{AlignLeft}
	for range headers[1:] {
		aligns = append(aligns, AlignRight)
	}
	rows := make([][]string, 0, len(t.Groups))
	for _, g := range t.Groups {
		s := g.Summary
		rows = append(rows, []string{
			g.Name(),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Std),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Q25),
			fmt.Sprintf("%.2f", s.Median),
			fmt.Sprintf("%.2f", s.Q75),
			fmt.Sprintf("%.2f", s.Max),
		})
	}
	return RenderTable(headers, rows, aligns)
}

// ProfileTableText renders the profile rows of a report.
func ProfileTableText(rows []ProfileRow) string {
	headers := []string{"series", "channel", "window", "days", "padded", "peak", "peak at"}
	aligns := []Alignment{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Series,
			r.Label,
			r.Window,
			fmt.Sprintf("%d", r.Days),
			fmt.Sprintf("%d", r.PaddedDays),
			fmt.Sprintf("%.2f", r.Peak),
			r.PeakAt,
		})
	}
	return RenderTable(headers, out, aligns)
}
