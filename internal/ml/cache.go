// Package ml provides caching for model predictions.
package ml

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// predictionKey renders a model + feature vector into a cache key. Feature
// vectors are small and fully determine the prediction.
func predictionKey(model string, features []float64) string {
	var b strings.Builder
	b.WriteString(model)
	for _, f := range features {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}

// CachedPredictor wraps a Predictor with an in-memory TTL cache. Feature
// rows repeat across quotes for the same player within a run, so a short TTL
// removes most duplicate round-trips.
type CachedPredictor struct {
	inner Predictor
	cache *cache.Cache

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedPredictor wraps a predictor with a TTL cache.
func NewCachedPredictor(inner Predictor, ttl time.Duration) *CachedPredictor {
	return &CachedPredictor{
		inner: inner,
		cache: cache.New(ttl, ttl*2),
	}
}

// Predict serves from cache when possible, delegating misses to the wrapped
// predictor.
func (p *CachedPredictor) Predict(ctx context.Context, model string, features []float64) (Estimate, error) {
	key := predictionKey(model, features)
	if cached, found := p.cache.Get(key); found {
		if estimate, ok := cached.(Estimate); ok {
			p.recordHit(model, true)
			return estimate, nil
		}
	}
	p.recordHit(model, false)

	estimate, err := p.inner.Predict(ctx, model, features)
	if err != nil {
		return Estimate{}, err
	}
	p.cache.SetDefault(key, estimate)
	return estimate, nil
}

// Stats returns cache hit and miss counts.
func (p *CachedPredictor) Stats() (hits, misses uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hitCount, p.missCount
}

func (p *CachedPredictor) recordHit(model string, hit bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if hit {
		p.hitCount++
		PredictionsTotal.WithLabelValues(model, "true").Inc()
	} else {
		p.missCount++
	}
	total := p.hitCount + p.missCount
	if total > 0 {
		CacheHitRatio.Set(float64(p.hitCount) / float64(total))
	}
}
