// Package metrics defines datasource-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Datasource counter vectors
var (
	QuotesFetchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "quotes_fetched_total",
		Help:      "Total number of prop quotes fetched by category and bookmaker",
	}, []string{"category", "book"})

	OddsAPIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props_model",
		Name:      "odds_api_requests_total",
		Help:      "Total number of odds API requests by endpoint and status",
	}, []string{"endpoint", "status"})
)

// Datasource histogram vectors
var (
	OddsAPIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "props_model",
		Name:      "odds_api_request_duration_seconds",
		Help:      "Duration of odds API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// RecordQuoteFetched records a fetched prop quote.
func RecordQuoteFetched(category, book string) {
	QuotesFetchedTotal.WithLabelValues(category, book).Inc()
}

// RecordOddsAPIRequest records an odds API request.
// status should be one of: "success", "failure", "rate_limited"
func RecordOddsAPIRequest(endpoint, status string, durationSeconds float64) {
	OddsAPIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	OddsAPIRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}
