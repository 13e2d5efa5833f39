// Package ml provides the client for the model-serving service. The core
// pipeline only ever sees the Predictor interface: one synchronous call from
// a feature vector to a scalar point estimate.
package ml

import "context"

// Estimate is a model's point estimate for one feature vector.
type Estimate struct {
	Value        float64 `json:"estimate"`
	ModelVersion string  `json:"model_version"`
}

// Predictor is the trained-model collaborator. Implementations must be safe
// for concurrent use.
type Predictor interface {
	// Predict returns the named model's point estimate for a feature vector.
	Predict(ctx context.Context, model string, features []float64) (Estimate, error)
}

// MinutesModel is the served model projecting a player's minutes for their
// next game; category means compose it with trailing per-minute rates.
const MinutesModel = "minutes"
