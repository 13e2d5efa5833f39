// Package logger provides model-service-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for model service calls.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model service logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogPredictionRequest logs a model prediction request.
func (ml *ModelLogger) LogPredictionRequest(model string, featuresCount int, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model":          model,
		"features_count": featuresCount,
		"cache_hit":      cacheHit,
		"latency_ms":     latencyMs,
	}).Info("Model prediction request completed")
}

// LogPredictionError logs prediction failures.
func (ml *ModelLogger) LogPredictionError(model string, errorReason string) {
	ml.WithFields(logrus.Fields{
		"model":        model,
		"error_reason": errorReason,
	}).Error("Model prediction failed")
}

// LogCacheStats logs prediction cache statistics.
func (ml *ModelLogger) LogCacheStats(hits, misses int64) {
	total := hits + misses
	var ratio float64
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	ml.WithFields(logrus.Fields{
		"cache_hits":   hits,
		"cache_misses": misses,
		"hit_ratio":    ratio,
	}).Info("Prediction cache statistics")
}
