package models

import (
	"time"
)

// PlayerFeatureRow is one player's derived state entering a game: every value
// is computed from events strictly before AsOf. Features absent from the map
// are missing (insufficient trailing history), never zero.
type PlayerFeatureRow struct {
	PlayerID   int64              `json:"player_id"`
	PlayerName string             `json:"player_name"`
	TeamID     int64              `json:"team_id"`
	TeamName   string             `json:"team_name"`
	AsOf       time.Time          `json:"as_of"`
	Features   map[string]float64 `json:"features"`
}

// Feature returns a named feature value; the boolean is false when the
// trailing window behind it was not yet satisfied.
func (r *PlayerFeatureRow) Feature(name string) (float64, bool) {
	v, ok := r.Features[name]
	return v, ok
}

// HasAll reports whether every named feature is present.
func (r *PlayerFeatureRow) HasAll(names []string) bool {
	for _, name := range names {
		if _, ok := r.Features[name]; !ok {
			return false
		}
	}
	return true
}

// Vector assembles the named features into a dense vector in the given order.
// It returns ErrMissingHistory if any required feature is missing; rows with
// unsatisfied windows are excluded, never back-filled.
func (r *PlayerFeatureRow) Vector(names []string) ([]float64, error) {
	vec := make([]float64, len(names))
	for i, name := range names {
		v, ok := r.Features[name]
		if !ok {
			return nil, ErrMissingHistory
		}
		vec[i] = v
	}
	return vec, nil
}

// TeamDefenseRow is one team's derived defensive context entering a game:
// trailing means of totals allowed, shifted one game so AsOf's own game never
// contributes.
type TeamDefenseRow struct {
	TeamID   int64              `json:"team_id"`
	TeamName string             `json:"team_name"`
	AsOf     time.Time          `json:"as_of"`
	Features map[string]float64 `json:"features"`
}

// Feature returns a named defensive feature; the boolean is false when the
// team's trailing window was not yet satisfied.
func (r *TeamDefenseRow) Feature(name string) (float64, bool) {
	v, ok := r.Features[name]
	return v, ok
}
