package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func intPtr(v int) *int { return &v }

func TestAmericanToImplied(t *testing.T) {
	assert.InDelta(t, 0.4, AmericanToImplied(150), 1e-9)
	assert.InDelta(t, 2.0/3.0, AmericanToImplied(-200), 1e-9)
	assert.InDelta(t, 0.5, AmericanToImplied(100), 1e-9)
	assert.InDelta(t, 110.0/210.0, AmericanToImplied(-110), 1e-9)
}

func TestImpliedProbabilities(t *testing.T) {
	quote := &models.MarketQuote{OddsOver: intPtr(-110), OddsUnder: intPtr(-110)}
	pOver, pUnder, err := ImpliedProbabilities(quote)
	require.NoError(t, err)
	assert.InDelta(t, 110.0/210.0, pOver, 1e-9)
	assert.InDelta(t, 110.0/210.0, pUnder, 1e-9)
}

func TestImpliedProbabilitiesIncompleteQuote(t *testing.T) {
	quote := &models.MarketQuote{OddsOver: intPtr(-110)}
	_, _, err := ImpliedProbabilities(quote)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIncompleteQuote)
}

func TestNewScorerValidation(t *testing.T) {
	_, err := NewScorer(ScorerConfig{DispersionFloor: 0, FallbackDispersion: 2})
	assert.Error(t, err)

	_, err = NewScorer(ScorerConfig{DispersionFloor: 1.5, FallbackDispersion: -1})
	assert.Error(t, err)

	s, err := NewScorer(DefaultScorerConfig())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestDispersion(t *testing.T) {
	s, err := NewScorer(DefaultScorerConfig())
	require.NoError(t, err)

	// Trailing std above the floor passes through.
	assert.Equal(t, 4.2, s.Dispersion(4.2, true))

	// Near-zero volatility is floored, not trusted.
	assert.Equal(t, 1.5, s.Dispersion(0.3, true))

	// Missing std falls back to the fixed constant; not a row failure.
	assert.Equal(t, 2.0, s.Dispersion(0, false))
}

func TestOverProbability(t *testing.T) {
	s, err := NewScorer(DefaultScorerConfig())
	require.NoError(t, err)

	// Estimate on the line: a coin flip.
	assert.InDelta(t, 0.5, s.OverProbability(20, 20, 2), 1e-12)

	// One dispersion above the line: 1 - Phi(-1).
	assert.InDelta(t, 0.8413447, s.OverProbability(18, 20, 2), 1e-6)

	// Symmetry.
	assert.InDelta(t, 1.0, s.OverProbability(18, 20, 2)+s.OverProbability(22, 20, 2), 1e-12)
}

func TestScore(t *testing.T) {
	s, err := NewScorer(DefaultScorerConfig())
	require.NoError(t, err)

	candidate := &models.EdgeCandidate{
		Quote: models.MarketQuote{
			Player:    "Jayson Tatum",
			Line:      18.5,
			OddsOver:  intPtr(-110),
			OddsUnder: intPtr(-110),
		},
		Estimate:   20.0,
		Dispersion: 1.5,
	}
	require.NoError(t, s.Score(candidate))

	assert.Greater(t, candidate.POverModel, 0.5)
	assert.InDelta(t, 1.0, candidate.POverModel+candidate.PUnderModel, 1e-12)
	assert.InDelta(t, 110.0/210.0, candidate.POverMarket, 1e-9)
	assert.InDelta(t, candidate.POverModel-candidate.POverMarket, candidate.EdgeOver, 1e-12)
	assert.Greater(t, candidate.EdgeOver, candidate.EdgeUnder)

	side, edge := candidate.BestSide()
	assert.Equal(t, models.SideOver, side)
	assert.Equal(t, candidate.EdgeOver, edge)
}

func TestScoreRejectsBadInputs(t *testing.T) {
	s, err := NewScorer(DefaultScorerConfig())
	require.NoError(t, err)

	oneSided := &models.EdgeCandidate{
		Quote:      models.MarketQuote{OddsOver: intPtr(-110)},
		Estimate:   20,
		Dispersion: 1.5,
	}
	assert.ErrorIs(t, s.Score(oneSided), models.ErrIncompleteQuote)

	noDispersion := &models.EdgeCandidate{
		Quote:    models.MarketQuote{OddsOver: intPtr(-110), OddsUnder: intPtr(-110)},
		Estimate: 20,
	}
	assert.Error(t, s.Score(noDispersion))
}

func TestBestSideTiesToOver(t *testing.T) {
	c := &models.EdgeCandidate{EdgeOver: 0.03, EdgeUnder: 0.03}
	side, _ := c.BestSide()
	assert.Equal(t, models.SideOver, side)
}
