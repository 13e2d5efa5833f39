// Package selection reduces scored edge candidates to the final slate under
// multiplicity and side caps. Selection is a pure function of the candidate
// set and the fixed constraint parameters.
package selection

import (
	"fmt"
	"sort"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/resolve"
)

// Config holds the fixed slate constraints. The under cap is a configured
// constant, not a per-run input.
type Config struct {
	// MaxPicks caps the overall slate size.
	MaxPicks int
	// MaxUnders caps picks whose best side is UNDER.
	MaxUnders int
}

// DefaultConfig is the production slate shape: eleven picks, at most five
// unders.
func DefaultConfig() Config {
	return Config{MaxPicks: 11, MaxUnders: 5}
}

// Pick is one slate entry: a candidate reduced to its winning side.
type Pick struct {
	Candidate models.EdgeCandidate
	Side      models.Side
	Edge      float64
	Odds      int
}

// Selector ranks candidates by edge and applies the slate constraints.
type Selector struct {
	cfg Config
}

// NewSelector validates the constraint parameters and returns a selector.
func NewSelector(cfg Config) (*Selector, error) {
	if cfg.MaxPicks < 1 {
		return nil, fmt.Errorf("max picks must be >= 1, got %d", cfg.MaxPicks)
	}
	if cfg.MaxUnders < 0 || cfg.MaxUnders > cfg.MaxPicks {
		return nil, fmt.Errorf("max unders must be in [0, %d], got %d", cfg.MaxPicks, cfg.MaxUnders)
	}
	return &Selector{cfg: cfg}, nil
}

// Select produces the final ordered slate: overs first then unders, each in
// descending edge order. Constraints: one pick per normalized player
// (highest edge wins), at most MaxUnders unders, at most MaxPicks total with
// overs filling the capacity left after the unders. Equal edges order by
// normalized player name ascending so identical inputs yield identical
// slates. An empty candidate set yields an empty slate; distinguishing "no
// eligible rows" from "zero edge" is the caller's responsibility.
func (s *Selector) Select(candidates []models.EdgeCandidate) []Pick {
	ranked := make([]Pick, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		side, bestEdge := c.BestSide()
		odds, ok := c.Quote.SideOdds(side)
		if !ok {
			continue
		}
		ranked = append(ranked, Pick{Candidate: c, Side: side, Edge: bestEdge, Odds: odds})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Edge != ranked[j].Edge {
			return ranked[i].Edge > ranked[j].Edge
		}
		return playerKey(&ranked[i]) < playerKey(&ranked[j])
	})

	// One pick per player: the ranking order means the first occurrence is
	// that player's best candidate.
	seen := make(map[string]struct{}, len(ranked))
	deduped := ranked[:0]
	for _, pick := range ranked {
		k := playerKey(&pick)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		deduped = append(deduped, pick)
	}

	var unders, overs []Pick
	for _, pick := range deduped {
		switch pick.Side {
		case models.SideUnder:
			if len(unders) < s.cfg.MaxUnders {
				unders = append(unders, pick)
			}
		case models.SideOver:
			overs = append(overs, pick)
		}
	}

	remaining := s.cfg.MaxPicks - len(unders)
	if remaining < 0 {
		remaining = 0
	}
	if len(overs) > remaining {
		overs = overs[:remaining]
	}

	slate := make([]Pick, 0, len(overs)+len(unders))
	slate = append(slate, overs...)
	slate = append(slate, unders...)
	return slate
}

func playerKey(p *Pick) string {
	if p.Candidate.PlayerNorm != "" {
		return p.Candidate.PlayerNorm
	}
	return resolve.NormalizePlayer(p.Candidate.Quote.Player)
}
