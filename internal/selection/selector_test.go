package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func intPtr(v int) *int { return &v }

func candidate(player string, edgeOver, edgeUnder float64) models.EdgeCandidate {
	return models.EdgeCandidate{
		Quote: models.MarketQuote{
			EventID:   "evt1",
			Player:    player,
			Category:  models.CategoryPoints,
			Line:      20.5,
			OddsOver:  intPtr(-110),
			OddsUnder: intPtr(-110),
		},
		PlayerNorm: player,
		EdgeOver:   edgeOver,
		EdgeUnder:  edgeUnder,
	}
}

func TestNewSelectorValidation(t *testing.T) {
	_, err := NewSelector(Config{MaxPicks: 0, MaxUnders: 0})
	assert.Error(t, err)

	_, err = NewSelector(Config{MaxPicks: 5, MaxUnders: 6})
	assert.Error(t, err)

	_, err = NewSelector(Config{MaxPicks: 5, MaxUnders: -1})
	assert.Error(t, err)

	s, err := NewSelector(DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSelectHonorsAllCaps(t *testing.T) {
	s, err := NewSelector(Config{MaxPicks: 11, MaxUnders: 5})
	require.NoError(t, err)

	// Twenty mixed candidates: ten best-side overs, ten best-side unders,
	// with distinct edges so ordering is fully determined.
	var candidates []models.EdgeCandidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("over player %02d", i), 0.10+float64(i)*0.01, -0.05))
		candidates = append(candidates, candidate(fmt.Sprintf("under player %02d", i), -0.05, 0.08+float64(i)*0.01))
	}

	slate := s.Select(candidates)
	require.Len(t, slate, 11)

	var overs, unders int
	for _, pick := range slate {
		switch pick.Side {
		case models.SideOver:
			overs++
		case models.SideUnder:
			unders++
		}
	}
	assert.Equal(t, 5, unders, "under cap binds")
	assert.Equal(t, 6, overs, "overs fill the remaining capacity")

	// Overs come first, each group in descending edge order.
	for i := 0; i < overs; i++ {
		assert.Equal(t, models.SideOver, slate[i].Side)
	}
	for i := 1; i < overs; i++ {
		assert.GreaterOrEqual(t, slate[i-1].Edge, slate[i].Edge)
	}
	for i := overs + 1; i < len(slate); i++ {
		assert.Equal(t, models.SideUnder, slate[i].Side)
		assert.GreaterOrEqual(t, slate[i-1].Edge, slate[i].Edge)
	}

	// The selected unders are the five highest-edge unders.
	assert.Equal(t, "under player 09", slate[overs].Candidate.PlayerNorm)
}

func TestSelectOnePickPerPlayer(t *testing.T) {
	s, err := NewSelector(Config{MaxPicks: 11, MaxUnders: 5})
	require.NoError(t, err)

	// The same player quoted at two lines: only the higher-edge one survives.
	a := candidate("jayson tatum", 0.12, -0.02)
	b := candidate("jayson tatum", 0.07, -0.02)
	b.Quote.Line = 28.5

	slate := s.Select([]models.EdgeCandidate{b, a})
	require.Len(t, slate, 1)
	assert.Equal(t, 20.5, slate[0].Candidate.Quote.Line)
	assert.InDelta(t, 0.12, slate[0].Edge, 1e-12)
}

func TestSelectTiesResolveToOver(t *testing.T) {
	s, err := NewSelector(DefaultConfig())
	require.NoError(t, err)

	slate := s.Select([]models.EdgeCandidate{candidate("even player", 0.04, 0.04)})
	require.Len(t, slate, 1)
	assert.Equal(t, models.SideOver, slate[0].Side)
}

func TestSelectDeterministicOnEqualEdges(t *testing.T) {
	s, err := NewSelector(Config{MaxPicks: 2, MaxUnders: 0})
	require.NoError(t, err)

	a := candidate("aaa", 0.05, 0)
	b := candidate("bbb", 0.05, 0)
	c := candidate("ccc", 0.05, 0)

	first := s.Select([]models.EdgeCandidate{c, a, b})
	second := s.Select([]models.EdgeCandidate{b, c, a})
	require.Equal(t, first, second)

	// Equal edges order by normalized player name ascending.
	assert.Equal(t, "aaa", first[0].Candidate.PlayerNorm)
	assert.Equal(t, "bbb", first[1].Candidate.PlayerNorm)
}

func TestSelectEmptyInput(t *testing.T) {
	s, err := NewSelector(DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, s.Select(nil))
}

func TestSelectAllUndersBounded(t *testing.T) {
	s, err := NewSelector(Config{MaxPicks: 11, MaxUnders: 5})
	require.NoError(t, err)

	var candidates []models.EdgeCandidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("under %d", i), -0.05, 0.06+float64(i)*0.01))
	}

	slate := s.Select(candidates)
	assert.Len(t, slate, 5, "an all-under board cannot exceed the under cap")
}

func TestSelectSkipsMissingBestSideOdds(t *testing.T) {
	s, err := NewSelector(DefaultConfig())
	require.NoError(t, err)

	c := candidate("one sided", 0.10, -0.05)
	c.Quote.OddsOver = nil

	assert.Empty(t, s.Select([]models.EdgeCandidate{c}))
}
