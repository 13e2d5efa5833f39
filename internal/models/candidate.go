package models

// EdgeCandidate joins a deduplicated market quote with the player's feature
// row and the inferred opponent's defensive context, plus the model and
// market probabilities for both sides. Candidates are recomputed per run and
// never persisted; only the selected slate is archived.
type EdgeCandidate struct {
	Quote        MarketQuote `json:"quote"`
	PlayerNorm   string      `json:"player_norm"`
	PlayerTeam   string      `json:"player_team"`
	OpponentTeam string      `json:"opponent_team"`

	// OpponentDefense carries the opponent's trailing allowed aggregates
	// entering the game. Nil when the opponent's window is unsatisfied;
	// defensive context is advisory and never an exclusion.
	OpponentDefense *TeamDefenseRow `json:"opponent_defense,omitempty"`

	Estimate   float64 `json:"estimate"`
	Dispersion float64 `json:"dispersion"`

	POverModel   float64 `json:"p_over_model"`
	PUnderModel  float64 `json:"p_under_model"`
	POverMarket  float64 `json:"p_over_implied"`
	PUnderMarket float64 `json:"p_under_implied"`

	EdgeOver  float64 `json:"edge_over"`
	EdgeUnder float64 `json:"edge_under"`
}

// BestSide reduces the candidate to its higher-edge side. Equal edges resolve
// to OVER; the fixed tie-break keeps selection reproducible.
func (c *EdgeCandidate) BestSide() (Side, float64) {
	if c.EdgeOver >= c.EdgeUnder {
		return SideOver, c.EdgeOver
	}
	return SideUnder, c.EdgeUnder
}

// BestOdds returns the quoted American odds for the candidate's best side.
func (c *EdgeCandidate) BestOdds() (int, bool) {
	side, _ := c.BestSide()
	return c.Quote.SideOdds(side)
}
