package models

import (
	"strings"
	"time"
)

// StatCategory identifies the prop market a line is quoted on.
type StatCategory string

const (
	CategoryPoints   StatCategory = "points"
	CategoryAssists  StatCategory = "assists"
	CategoryRebounds StatCategory = "rebounds"
)

// Side represents the side of a prop bet.
type Side string

const (
	SideOver  Side = "OVER"
	SideUnder Side = "UNDER"
)

// GameEvent is one player's participation in one game. The historical log of
// events is append-only and is the sole input to feature computation.
type GameEvent struct {
	PlayerID   int64     `db:"player_id" json:"player_id" validate:"required"`
	PlayerName string    `db:"player_name" json:"player_name" validate:"required"`
	TeamID     int64     `db:"team_id" json:"team_id" validate:"required"`
	TeamName   string    `db:"team_name" json:"team_name"`
	GameID     string    `db:"game_id" json:"game_id" validate:"required"`
	Season     string    `db:"season" json:"season"`
	Date       time.Time `db:"game_date" json:"game_date" validate:"required"`
	Matchup    string    `db:"matchup" json:"matchup" validate:"required"`

	Minutes       float64 `db:"minutes" json:"minutes" validate:"gte=0"`
	Points        float64 `db:"points" json:"points" validate:"gte=0"`
	Assists       float64 `db:"assists" json:"assists" validate:"gte=0"`
	Rebounds      float64 `db:"rebounds" json:"rebounds" validate:"gte=0"`
	FieldGoalAtt  float64 `db:"fga" json:"fga" validate:"gte=0"`
	FreeThrowAtt  float64 `db:"fta" json:"fta" validate:"gte=0"`
	ThreePointAtt float64 `db:"fg3a" json:"fg3a" validate:"gte=0"`
	Turnovers     float64 `db:"turnovers" json:"turnovers" validate:"gte=0"`

	// StartPosition is the started-game indicator when the log source carries
	// one; nil when the source does not.
	StartPosition *string `db:"start_position" json:"start_position,omitempty"`
}

// Stat returns the counted statistic for the given name. The boolean is false
// for names the event does not carry.
func (e *GameEvent) Stat(name string) (float64, bool) {
	switch name {
	case "MIN":
		return e.Minutes, true
	case "PTS":
		return e.Points, true
	case "AST":
		return e.Assists, true
	case "REB":
		return e.Rebounds, true
	case "FGA":
		return e.FieldGoalAtt, true
	case "FTA":
		return e.FreeThrowAtt, true
	case "FG3A":
		return e.ThreePointAtt, true
	case "TOV":
		return e.Turnovers, true
	}
	return 0, false
}

// IsHome reports whether the event was a home game, derived from the matchup
// string. League logs use "TEAM vs. OPP" for home games and "TEAM @ OPP" for
// away games; any other format returns ErrMalformedMatchup rather than a
// silent default.
func (e *GameEvent) IsHome() (bool, error) {
	switch {
	case strings.Contains(e.Matchup, " vs. "):
		return true, nil
	case strings.Contains(e.Matchup, " @ "):
		return false, nil
	}
	return false, ErrMalformedMatchup
}

// Started reports the explicit starter indicator. The boolean is false when
// the log source did not carry one.
func (e *GameEvent) Started() (bool, bool) {
	if e.StartPosition == nil {
		return false, false
	}
	return strings.TrimSpace(*e.StartPosition) != "", true
}
