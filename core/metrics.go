package core

import (
	"time"

	"github.com/aipowerranking/toolrank/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricToolsScoredTotal     = "toolrank_tools_scored_total"
	MetricScoringErrorsTotal   = "toolrank_scoring_errors_total"
	MetricToolsSkippedTotal    = "toolrank_tools_skipped_total"
	MetricRankingDuration      = "toolrank_ranking_duration_seconds"
	MetricLastRankingTimestamp = "toolrank_last_ranking_unixtime"
)

// Metrics contains Prometheus collectors for ranking runs.
// All operations are thread-safe.
type Metrics struct {
	registry    *prometheus.Registry
	toolsScored *prometheus.CounterVec
	errors      *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastRun     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolsScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricToolsScoredTotal,
				Help: "Total number of tools ranked by algorithm version",
			},
			[]string{"version"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricScoringErrorsTotal,
				Help: "Total number of tools excluded from a ranking because scoring failed",
			},
			[]string{"version"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricToolsSkippedTotal,
				Help: "Total number of non-active tools skipped by algorithm version",
			},
			[]string{"version"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankingDuration,
				Help:    "Histogram of ranking build duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"version"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricLastRankingTimestamp,
				Help: "Unix time of the last completed ranking build",
			},
			[]string{"version", "period"},
		),
	}
	m.registry.MustRegister(m.Collectors()...)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.toolsScored, m.errors, m.skipped, m.duration, m.lastRun}
}

// ObserveRanking records the outcome of one ranking build.
func (m *Metrics) ObserveRanking(result *schema.RankingResult, took time.Duration) {
	version := result.Snapshot.AlgorithmVersion
	m.toolsScored.WithLabelValues(version).Add(float64(len(result.Snapshot.Entries)))
	m.errors.WithLabelValues(version).Add(float64(len(result.Errors)))
	m.skipped.WithLabelValues(version).Add(float64(len(result.Skipped)))
	m.duration.WithLabelValues(version).Observe(took.Seconds())
	m.lastRun.WithLabelValues(version, result.Snapshot.Period).Set(float64(time.Now().Unix()))
}

// WriteTextfile writes the current metric values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
