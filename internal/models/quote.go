package models

import (
	"time"
)

// MarketQuote is one bookmaker's two-sided line for one (event, player,
// line). Odds are American; a nil side means the book did not quote it, and
// missing odds propagate as missing rather than zero.
type MarketQuote struct {
	EventID      string       `db:"event_id" json:"event_id" validate:"required"`
	CommenceTime time.Time    `db:"commence_time" json:"commence_time" validate:"required"`
	HomeTeam     string       `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam     string       `db:"away_team" json:"away_team" validate:"required"`
	BookKey      string       `db:"book_key" json:"book_key" validate:"required"`
	BookTitle    string       `db:"book_title" json:"book_title"`
	Player       string       `db:"player" json:"player" validate:"required"`
	Category     StatCategory `db:"category" json:"category" validate:"required,oneof=points assists rebounds"`
	Line         float64      `db:"line" json:"line" validate:"required,gt=0"`
	OddsOver     *int         `db:"odds_over" json:"odds_over"`
	OddsUnder    *int         `db:"odds_under" json:"odds_under"`
	FetchedAt    time.Time    `db:"fetched_at" json:"fetched_at"`
}

// IsComplete reports whether both sides of the line were quoted. Incomplete
// quotes are excluded before scoring.
func (q *MarketQuote) IsComplete() bool {
	return q.OddsOver != nil && q.OddsUnder != nil
}

// SideOdds returns the American odds for the given side.
func (q *MarketQuote) SideOdds(side Side) (int, bool) {
	switch side {
	case SideOver:
		if q.OddsOver != nil {
			return *q.OddsOver, true
		}
	case SideUnder:
		if q.OddsUnder != nil {
			return *q.OddsUnder, true
		}
	}
	return 0, false
}

// RosterEntry maps a player to their current team in the source-of-truth
// roster snapshot used for opponent inference.
type RosterEntry struct {
	PlayerID   int64  `db:"player_id" json:"player_id"`
	PlayerName string `db:"player_name" json:"player_name" validate:"required"`
	TeamAbbr   string `db:"team_abbr" json:"team_abbr" validate:"required,len=3"`
}
