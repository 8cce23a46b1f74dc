package reporting

import (
	"time"

	"plant-growth-lab/internal/porometer"
)

// Report represents one analysis run.
type Report struct {
	// Metadata
	RunID       string
	Pipeline    string
	Dataset     string
	Source      string
	Input       string
	Fingerprint string // frame fingerprint, empty for porometer runs
	GeneratedAt time.Time

	// Data Summary
	DataSummary DataSummary

	// Mean daily profiles (sorted by series, channel, window)
	Profiles []ProfileRow

	// Porometer statistics
	Regression *RegressionRow
	Groups     []GroupTable

	// Non-fatal issues raised during the run (padding, skipped windows)
	Warnings []string
}

// DataSummary describes the analysed data.
type DataSummary struct {
	Readings    int // rows for porometer runs, timestamps otherwise
	Channels    []string
	Days        int
	FirstSample time.Time
	LastSample  time.Time
}

// ProfileRow summarises one mean daily profile.
type ProfileRow struct {
	ProfileID     string
	Series        string // reset | normalized | rate
	Channel       string
	Label         string
	Window        string
	SamplesPerDay int
	Days          int
	PaddedDays    int
	FirstDay      string
	LastDay       string
	Peak          float64 // maximum of the mean curve
	PeakAt        string  // time of day of the peak, HH:MM
}

// RegressionRow is a linear fit between two porometer fields.
type RegressionRow struct {
	X         string
	Y         string
	N         int
	Slope     float64
	Intercept float64
	R         float64
}

// GroupTable is a grouped descriptive summary.
type GroupTable struct {
	Title  string
	Value  string // summarised field
	By     string // grouping fields, for display
	Groups []porometer.Group
}
