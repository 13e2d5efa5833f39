package resolve

import (
	"fmt"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// Roster is the source-of-truth snapshot mapping normalized player identity
// to current team abbreviation.
type Roster struct {
	byPlayer map[string]string
}

// NewRoster indexes roster entries by normalized player name. Later entries
// win duplicates, matching the snapshot's most-recent-wins semantics.
func NewRoster(entries []models.RosterEntry) *Roster {
	byPlayer := make(map[string]string, len(entries))
	for _, entry := range entries {
		abbr, ok := TeamAbbr(entry.TeamAbbr)
		if !ok {
			continue
		}
		byPlayer[NormalizePlayer(entry.PlayerName)] = abbr
	}
	return &Roster{byPlayer: byPlayer}
}

// Team returns the current team abbreviation for a player name.
func (r *Roster) Team(playerName string) (string, bool) {
	abbr, ok := r.byPlayer[NormalizePlayer(playerName)]
	return abbr, ok
}

// Size returns the number of indexed players.
func (r *Roster) Size() int {
	return len(r.byPlayer)
}

// Matchup is a resolved quote matchup: the player's team and the inferred
// opponent, both as abbreviations, plus whether the player is at home.
type Matchup struct {
	PlayerTeam string
	Opponent   string
	IsHome     bool
}

// ResolveMatchup determines which of a quote's two teams is the player's and
// which is the opponent, using the roster snapshot as the source of truth.
// A player whose current team matches neither listed team (trade, stale
// data, or name mismatch) yields ErrUnresolvedOpponent: guessing would
// silently corrupt the defensive-context join, so resolution fails closed.
func ResolveMatchup(roster *Roster, quote *models.MarketQuote) (Matchup, error) {
	playerTeam, ok := roster.Team(quote.Player)
	if !ok {
		return Matchup{}, fmt.Errorf("player %q not in roster snapshot: %w", quote.Player, models.ErrUnresolvedOpponent)
	}

	homeAbbr, homeOK := TeamAbbr(quote.HomeTeam)
	awayAbbr, awayOK := TeamAbbr(quote.AwayTeam)
	if !homeOK || !awayOK {
		return Matchup{}, fmt.Errorf("unmapped team in matchup %q vs %q: %w", quote.HomeTeam, quote.AwayTeam, models.ErrUnresolvedOpponent)
	}

	switch playerTeam {
	case homeAbbr:
		return Matchup{PlayerTeam: playerTeam, Opponent: awayAbbr, IsHome: true}, nil
	case awayAbbr:
		return Matchup{PlayerTeam: playerTeam, Opponent: homeAbbr, IsHome: false}, nil
	}
	return Matchup{}, fmt.Errorf("player %q on %s, quote lists %s at %s: %w",
		quote.Player, playerTeam, awayAbbr, homeAbbr, models.ErrUnresolvedOpponent)
}
