// Package ml provides Prometheus metrics for model operations.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks predictions served, by model and cache outcome
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_predictions_total",
			Help: "Total number of model predictions made",
		},
		[]string{"model", "cache_hit"},
	)

	// PredictionLatency tracks prediction latency per model
	PredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_prediction_latency_seconds",
			Help:    "Model prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// PredictionErrorsTotal tracks failed prediction calls
	PredictionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_prediction_errors_total",
			Help: "Total number of failed model prediction calls",
		},
		[]string{"model", "error_type"},
	)

	// CacheHitRatio tracks the prediction cache hit ratio
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_cache_hit_ratio",
			Help: "Model prediction cache hit ratio",
		},
	)
)
