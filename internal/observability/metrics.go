// Package observability provides Prometheus metrics for pipeline runs.
//
// Batch runs do not expose an HTTP endpoint; metrics are written to a
// node_exporter textfile at the end of a run.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for a run.
type Metrics struct {
	registry *prometheus.Registry

	// Input metrics
	SamplesLoaded *prometheus.CounterVec
	ChannelsKept  *prometheus.GaugeVec

	// Transform metrics
	DaysProcessed *prometheus.CounterVec
	DaysPadded    *prometheus.CounterVec
	ProfilesBuilt *prometheus.CounterVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
	StageFailures     *prometheus.CounterVec
	FiguresRendered   prometheus.Counter
	ReportsGenerated  prometheus.Counter

	// Health metrics
	LastSuccessfulRun *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "plantlab"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SamplesLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "samples_loaded_total",
			Help:      "Total number of readings loaded by dataset",
		}, []string{"dataset"}),
		ChannelsKept: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "channels",
			Help:      "Number of channels analysed by dataset",
		}, []string{"dataset"}),

		DaysProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "days_processed_total",
			Help:      "Total number of channel-days averaged into profiles",
		}, []string{"dataset"}),
		DaysPadded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "days_padded_total",
			Help:      "Total number of channel-days that needed edge padding",
		}, []string{"dataset"}),
		ProfilesBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transform",
			Name:      "profiles_built_total",
			Help:      "Total number of mean daily profiles built by series",
		}, []string{"dataset", "series"}),

		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"pipeline", "status"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"pipeline", "stage"}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Total number of failed pipeline stages",
		}, []string{"pipeline", "stage"}),
		FiguresRendered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "output",
			Name:      "figures_rendered_total",
			Help:      "Total number of figures written",
		}),
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "output",
			Name:      "reports_generated_total",
			Help:      "Total number of report files written",
		}),

		LastSuccessfulRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful run by pipeline",
		}, []string{"pipeline"}),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordStage records a stage duration and, when err is non-nil, a failure.
func (m *Metrics) RecordStage(pipeline, stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(pipeline, stage).Observe(d.Seconds())
	if err != nil {
		m.StageFailures.WithLabelValues(pipeline, stage).Inc()
	}
}

// RecordRun records a finished pipeline run.
func (m *Metrics) RecordRun(pipeline string, err error, now time.Time) {
	if err != nil {
		m.PipelineRunsTotal.WithLabelValues(pipeline, "failure").Inc()
		return
	}
	m.PipelineRunsTotal.WithLabelValues(pipeline, "success").Inc()
	m.LastSuccessfulRun.WithLabelValues(pipeline).Set(float64(now.Unix()))
}

// RecordProfile records one mean daily profile built from days, padded of
// which needed edge padding.
func (m *Metrics) RecordProfile(dataset, series string, days, padded int) {
	m.ProfilesBuilt.WithLabelValues(dataset, series).Inc()
	m.DaysProcessed.WithLabelValues(dataset).Add(float64(days))
	m.DaysPadded.WithLabelValues(dataset).Add(float64(padded))
}

// WriteTextfile writes the metrics in text exposition format for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
