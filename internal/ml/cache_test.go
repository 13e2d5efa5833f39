package ml

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPredictor struct {
	calls int
	err   error
}

func (p *countingPredictor) Predict(_ context.Context, _ string, features []float64) (Estimate, error) {
	p.calls++
	if p.err != nil {
		return Estimate{}, p.err
	}
	return Estimate{Value: features[0] * 2, ModelVersion: "v1"}, nil
}

func TestCachedPredictorDeduplicates(t *testing.T) {
	inner := &countingPredictor{}
	cached := NewCachedPredictor(inner, time.Minute)
	ctx := context.Background()

	first, err := cached.Predict(ctx, MinutesModel, []float64{15})
	require.NoError(t, err)
	second, err := cached.Predict(ctx, MinutesModel, []float64{15})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "identical vectors hit the cache")

	hits, misses := cached.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedPredictorDistinguishesVectors(t *testing.T) {
	inner := &countingPredictor{}
	cached := NewCachedPredictor(inner, time.Minute)
	ctx := context.Background()

	_, err := cached.Predict(ctx, MinutesModel, []float64{15})
	require.NoError(t, err)
	_, err = cached.Predict(ctx, MinutesModel, []float64{16})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedPredictorDistinguishesModels(t *testing.T) {
	inner := &countingPredictor{}
	cached := NewCachedPredictor(inner, time.Minute)
	ctx := context.Background()

	_, err := cached.Predict(ctx, "minutes", []float64{15})
	require.NoError(t, err)
	_, err = cached.Predict(ctx, "other", []float64{15})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedPredictorDoesNotCacheErrors(t *testing.T) {
	inner := &countingPredictor{err: errors.New("down")}
	cached := NewCachedPredictor(inner, time.Minute)
	ctx := context.Background()

	_, err := cached.Predict(ctx, MinutesModel, []float64{15})
	require.Error(t, err)
	_, err = cached.Predict(ctx, MinutesModel, []float64{15})
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls, "failures are retried, not served from cache")
}

func TestPredictionKey(t *testing.T) {
	assert.Equal(t, predictionKey("minutes", []float64{1, 2.5}), predictionKey("minutes", []float64{1, 2.5}))
	assert.NotEqual(t, predictionKey("minutes", []float64{1, 2.5}), predictionKey("minutes", []float64{1, 2.50001}))
	assert.NotEqual(t, predictionKey("minutes", []float64{1}), predictionKey("points", []float64{1}))
}
