// Package edge converts bookmaker quotes and model estimates into comparable
// probabilities and computes the directional edge per side.
package edge

import (
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// AmericanToImplied converts American odds to the bookmaker-implied
// probability: 100/(o+100) for positive odds, -o/(-o+100) for negative.
func AmericanToImplied(odds int) float64 {
	o := float64(odds)
	if o > 0 {
		return 100.0 / (o + 100.0)
	}
	return -o / (-o + 100.0)
}

// ImpliedProbabilities returns both sides' implied probabilities for a
// quote. A quote missing either side's odds yields ErrIncompleteQuote:
// missing odds propagate as missing, never as zero probability.
func ImpliedProbabilities(quote *models.MarketQuote) (pOver, pUnder float64, err error) {
	if !quote.IsComplete() {
		return 0, 0, models.ErrIncompleteQuote
	}
	return AmericanToImplied(*quote.OddsOver), AmericanToImplied(*quote.OddsUnder), nil
}
