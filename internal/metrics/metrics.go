// Package metrics provides centralized Prometheus metrics registry for the props pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SlateRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "slate_runs_total",
		Help:      "Total number of slate pipeline runs",
	})
	GameEventsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "game_events_ingested_total",
		Help:      "Total number of player game logs ingested",
	})
	FeatureRowsBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "feature_rows_built_total",
		Help:      "Total number of player feature rows built",
	})
	CandidatesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "candidates_scored_total",
		Help:      "Total number of prop candidates scored",
	})
)

// Gauge metrics
var (
	LastSlateSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "props_model",
		Name:      "last_slate_size",
		Help:      "Number of picks in the most recent slate",
	})
	LastSlateUnders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "props_model",
		Name:      "last_slate_unders",
		Help:      "Number of UNDER picks in the most recent slate",
	})
	LastSlateTopEdge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "props_model",
		Name:      "last_slate_top_edge",
		Help:      "Best edge in the most recent slate",
	})
	RosterSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "props_model",
		Name:      "roster_size",
		Help:      "Number of players in the loaded roster snapshot",
	})
)

// Histogram metrics
var (
	SlateRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "props_model",
		Name:      "slate_run_duration_seconds",
		Help:      "Duration of slate pipeline runs in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
	FeatureBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "props_model",
		Name:      "feature_build_duration_seconds",
		Help:      "Duration of feature builds in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SlateRunsTotal)
		registry.MustRegister(GameEventsIngestedTotal)
		registry.MustRegister(FeatureRowsBuiltTotal)
		registry.MustRegister(CandidatesScoredTotal)

		// Register gauge metrics
		registry.MustRegister(LastSlateSize)
		registry.MustRegister(LastSlateUnders)
		registry.MustRegister(LastSlateTopEdge)
		registry.MustRegister(RosterSize)

		// Register histogram metrics
		registry.MustRegister(SlateRunDuration)
		registry.MustRegister(FeatureBuildDuration)

		// Register pipeline metrics
		registry.MustRegister(CandidatesExcludedTotal)
		registry.MustRegister(PicksSelectedTotal)
		registry.MustRegister(SlateEdgeDistribution)

		// Register datasource metrics
		registry.MustRegister(QuotesFetchedTotal)
		registry.MustRegister(OddsAPIRequestsTotal)
		registry.MustRegister(OddsAPIRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSlateRun records a completed slate run.
func RecordSlateRun(durationSeconds float64) {
	SlateRunsTotal.Inc()
	SlateRunDuration.Observe(durationSeconds)
}

// RecordGameEventsIngested records a batch of ingested game logs.
func RecordGameEventsIngested(count int) {
	GameEventsIngestedTotal.Add(float64(count))
}

// RecordFeatureBuild records a feature build.
func RecordFeatureBuild(rows int, durationSeconds float64) {
	FeatureRowsBuiltTotal.Add(float64(rows))
	FeatureBuildDuration.Observe(durationSeconds)
}

// RecordCandidateScored records a scored candidate.
func RecordCandidateScored() {
	CandidatesScoredTotal.Inc()
}

// UpdateSlateGauges updates the most-recent-slate gauges.
func UpdateSlateGauges(size, unders int, topEdge float64) {
	LastSlateSize.Set(float64(size))
	LastSlateUnders.Set(float64(unders))
	LastSlateTopEdge.Set(topEdge)
}

// UpdateRosterSize updates the roster snapshot gauge.
func UpdateRosterSize(count int) {
	RosterSize.Set(float64(count))
}
