package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SelectedPick is one slate entry chosen by the constrained selector, tagged
// with its winning side and final edge. Picks are the only per-run output
// persisted for audit.
type SelectedPick struct {
	ID           uuid.UUID    `db:"id" json:"id" validate:"required,uuid4"`
	RunID        uuid.UUID    `db:"run_id" json:"run_id" validate:"required,uuid4"`
	Category     StatCategory `db:"category" json:"category" validate:"required,oneof=points assists rebounds"`
	Player       string       `db:"player" json:"player" validate:"required"`
	PlayerTeam   string       `db:"player_team" json:"player_team" validate:"required"`
	OpponentTeam string       `db:"opponent_team" json:"opponent_team" validate:"required"`
	Side         Side         `db:"side" json:"side" validate:"required,oneof=OVER UNDER"`
	Line         float64      `db:"line" json:"line" validate:"required,gt=0"`
	Odds         int          `db:"odds" json:"odds" validate:"required"`
	Edge         float64      `db:"edge" json:"edge"`
	Rating       float64      `db:"rating" json:"rating"`
	BookKey      string       `db:"book_key" json:"book_key"`
	CommenceTime time.Time    `db:"commence_time" json:"commence_time"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// Label renders the pick in slip form, e.g. "OVER 18.5 POINTS".
func (p *SelectedPick) Label() string {
	return fmt.Sprintf("%s %g %s", p.Side, p.Line, strings.ToUpper(string(p.Category)))
}
