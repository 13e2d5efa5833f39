package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/IsaJohn05/nba-player-props-model/internal/config"
)

// HTTPClient calls the model-serving service over HTTP JSON.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewHTTPClient creates a retrying HTTP predictor from model service config.
func NewHTTPClient(cfg *config.ModelServiceConfig, logger *logrus.Logger) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	return &HTTPClient{
		client:  retryClient.StandardClient(),
		baseURL: cfg.URL,
		logger:  logger,
	}
}

// predictRequest is the serving API payload.
type predictRequest struct {
	Features []float64 `json:"features"`
}

// Predict posts a feature vector to the named model's predict endpoint.
func (c *HTTPClient) Predict(ctx context.Context, model string, features []float64) (Estimate, error) {
	start := time.Now()
	defer func() {
		PredictionLatency.WithLabelValues(model).Observe(time.Since(start).Seconds())
	}()

	if len(features) == 0 {
		return Estimate{}, fmt.Errorf("%w: empty feature vector", ErrInvalidPrediction)
	}

	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/models/%s/predict", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Estimate{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		PredictionErrorsTotal.WithLabelValues(model, "network").Inc()
		return Estimate{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		PredictionErrorsTotal.WithLabelValues(model, "unknown_model").Inc()
		return Estimate{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		PredictionErrorsTotal.WithLabelValues(model, "http_error").Inc()
		return Estimate{}, fmt.Errorf("predict failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var estimate Estimate
	if err := json.NewDecoder(resp.Body).Decode(&estimate); err != nil {
		PredictionErrorsTotal.WithLabelValues(model, "decode").Inc()
		return Estimate{}, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	c.logger.WithFields(logrus.Fields{
		"model":    model,
		"estimate": estimate.Value,
		"duration": time.Since(start),
	}).Debug("Prediction served")

	PredictionsTotal.WithLabelValues(model, "false").Inc()
	return estimate, nil
}
