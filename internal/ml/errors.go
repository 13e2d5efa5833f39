package ml

import "errors"

var (
	// ErrServiceUnavailable indicates the model service is unreachable
	ErrServiceUnavailable = errors.New("model service unavailable")

	// ErrInvalidPrediction indicates the prediction response is invalid
	ErrInvalidPrediction = errors.New("invalid prediction response")

	// ErrUnknownModel indicates the service does not serve the named model
	ErrUnknownModel = errors.New("unknown model")
)
