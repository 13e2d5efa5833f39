package ml

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/config"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(serverURL string) *HTTPClient {
	return NewHTTPClient(&config.ModelServiceConfig{
		URL:                   serverURL,
		RequestTimeoutSeconds: 2,
		RetryAttempts:         0,
		CacheTTLSeconds:       60,
	}, testLogger())
}

func TestHTTPClientPredict(t *testing.T) {
	var gotPath string
	var gotFeatures []float64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req struct {
			Features []float64 `json:"features"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotFeatures = req.Features

		json.NewEncoder(w).Encode(Estimate{Value: 31.4, ModelVersion: "minutes-2024-12"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	estimate, err := client.Predict(context.Background(), MinutesModel, []float64{30, 28, 2.1, 20})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/models/minutes/predict", gotPath)
	assert.Equal(t, []float64{30, 28, 2.1, 20}, gotFeatures)
	assert.Equal(t, 31.4, estimate.Value)
	assert.Equal(t, "minutes-2024-12", estimate.ModelVersion)
}

func TestHTTPClientPredictUnknownModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Predict(context.Background(), "bogus", []float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestHTTPClientPredictServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Predict(context.Background(), MinutesModel, []float64{1})
	assert.Error(t, err)
}

func TestHTTPClientPredictUnreachable(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Predict(context.Background(), MinutesModel, []float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestHTTPClientPredictEmptyFeatures(t *testing.T) {
	_, err := newTestClient("http://unused.invalid").Predict(context.Background(), MinutesModel, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}

func TestHTTPClientPredictMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Predict(context.Background(), MinutesModel, []float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}
