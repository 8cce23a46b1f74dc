package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Supported timestamp formats.
const (
	FormatISOUTC      = "iso-utc"      // 2025-02-01 13:00:00 UTC
	FormatDMYSeconds  = "dmy-seconds"  // 27-01-2026 09:15:00
	FormatDMYMinutes  = "dmy-minutes"  // 27-01-23 09:15
	FormatExcelSerial = "excel-serial" // 45689.5
)

var layouts = map[string]string{
	FormatISOUTC:     "2006-01-02 15:04:05 UTC",
	FormatDMYSeconds: "02-01-2006 15:04:05",
	FormatDMYMinutes: "02-01-06 15:04",
}

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseTime parses a raw timestamp cell. The result carries the wall clock in
// time.UTC. Excel serials are rounded to the nearest second.
func ParseTime(value, format string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if format == FormatExcelSerial {
		days, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse excel serial %q: %w", value, err)
		}
		seconds := math.Round(days * 86400)
		return excelEpoch.Add(time.Duration(seconds) * time.Second), nil
	}
	layout, ok := layouts[format]
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported time format %q", format)
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t, nil
}
