// Package metrics defines pipeline-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline counter vectors
var (
	CandidatesExcludedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "candidates_excluded_total",
		Help:      "Total number of candidates dropped before scoring by reason",
	}, []string{"category", "reason"})

	PicksSelectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "picks_selected_total",
		Help:      "Total number of picks selected by category and side",
	}, []string{"category", "side"})
)

// Pipeline histogram vectors
var (
	SlateEdgeDistribution = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "props_model",
		Name:      "slate_edge_distribution",
		Help:      "Edges of selected picks by category",
		Buckets:   []float64{0.01, 0.02, 0.03, 0.05, 0.08, 0.12, 0.2, 0.35},
	}, []string{"category"})
)

// RecordCandidateExcluded records a candidate dropped before scoring.
// reason should be one of: "missing_history", "unresolved_opponent",
// "incomplete_quote", "prediction_failed", "malformed_matchup"
func RecordCandidateExcluded(category, reason string) {
	CandidatesExcludedTotal.WithLabelValues(category, reason).Inc()
}

// RecordPickSelected records a selected pick.
func RecordPickSelected(category, side string, edge float64) {
	PicksSelectedTotal.WithLabelValues(category, side).Inc()
	SlateEdgeDistribution.WithLabelValues(category).Observe(edge)
}
