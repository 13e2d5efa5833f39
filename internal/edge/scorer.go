package edge

import (
	"fmt"
	"math"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// ScorerConfig bounds the dispersion feeding the probability model.
type ScorerConfig struct {
	// DispersionFloor is the minimum dispersion applied to any estimate.
	// Near-zero historical volatility would otherwise blow the z-score up.
	DispersionFloor float64
	// FallbackDispersion substitutes for a missing trailing standard
	// deviation. A missing std is a degenerate input handled locally, not a
	// row failure.
	FallbackDispersion float64
}

// DefaultScorerConfig mirrors the dispersion handling used in production
// runs: floor 1.5, fallback 2.0.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{DispersionFloor: 1.5, FallbackDispersion: 2.0}
}

// Scorer converts a line, point estimate, and dispersion into over/under
// model probabilities under a normal error assumption, and pairs them with
// the market-implied probabilities.
type Scorer struct {
	cfg ScorerConfig
}

// NewScorer returns a scorer, rejecting non-positive dispersion bounds.
func NewScorer(cfg ScorerConfig) (*Scorer, error) {
	if cfg.DispersionFloor <= 0 {
		return nil, fmt.Errorf("dispersion floor must be positive, got %g", cfg.DispersionFloor)
	}
	if cfg.FallbackDispersion <= 0 {
		return nil, fmt.Errorf("fallback dispersion must be positive, got %g", cfg.FallbackDispersion)
	}
	return &Scorer{cfg: cfg}, nil
}

// Dispersion resolves the effective dispersion for a candidate: the trailing
// standard deviation when available, the fixed fallback when not, floored in
// both cases.
func (s *Scorer) Dispersion(trailingStd float64, hasStd bool) float64 {
	sigma := s.cfg.FallbackDispersion
	if hasStd {
		sigma = trailingStd
	}
	return math.Max(sigma, s.cfg.DispersionFloor)
}

// OverProbability returns the model probability that the total exceeds the
// line: p = 1 - Phi((line - estimate) / dispersion).
func (s *Scorer) OverProbability(line, estimate, dispersion float64) float64 {
	z := (line - estimate) / dispersion
	return 1.0 - normCDF(z)
}

// Score fills a candidate's model and market probabilities and both sides'
// edges. The quote must already be deduplicated and complete; the candidate
// must carry its estimate and dispersion.
func (s *Scorer) Score(candidate *models.EdgeCandidate) error {
	pOverMarket, pUnderMarket, err := ImpliedProbabilities(&candidate.Quote)
	if err != nil {
		return err
	}
	if candidate.Dispersion <= 0 {
		return fmt.Errorf("candidate for %q has non-positive dispersion %g", candidate.Quote.Player, candidate.Dispersion)
	}

	pOver := s.OverProbability(candidate.Quote.Line, candidate.Estimate, candidate.Dispersion)

	candidate.POverModel = pOver
	candidate.PUnderModel = 1.0 - pOver
	candidate.POverMarket = pOverMarket
	candidate.PUnderMarket = pUnderMarket
	candidate.EdgeOver = candidate.POverModel - pOverMarket
	candidate.EdgeUnder = candidate.PUnderModel - pUnderMarket
	return nil
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(z float64) float64 {
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}
