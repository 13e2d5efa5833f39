package edge

import (
	"sort"
	"strings"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/resolve"
)

// quoteKey identifies one prop line independent of bookmaker.
type quoteKey struct {
	EventID string
	Player  string
	Line    float64
}

// DedupeByBookPriority reduces multiple bookmakers' quotes to exactly one
// per (event, player, line). Books absent from the priority list are
// discarded; among the rest the highest-priority book wins, with commence
// time, event id, player, and line as fixed secondary keys so the outcome is
// deterministic for identical inputs.
func DedupeByBookPriority(quotes []models.MarketQuote, priority []string) []models.MarketQuote {
	rank := make(map[string]int, len(priority))
	for i, book := range priority {
		rank[strings.ToLower(strings.TrimSpace(book))] = i
	}

	eligible := make([]models.MarketQuote, 0, len(quotes))
	for _, q := range quotes {
		if _, ok := rank[strings.ToLower(strings.TrimSpace(q.BookKey))]; ok {
			eligible = append(eligible, q)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := &eligible[i], &eligible[j]
		if !a.CommenceTime.Equal(b.CommenceTime) {
			return a.CommenceTime.Before(b.CommenceTime)
		}
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		an, bn := resolve.NormalizePlayer(a.Player), resolve.NormalizePlayer(b.Player)
		if an != bn {
			return an < bn
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return rank[strings.ToLower(strings.TrimSpace(a.BookKey))] < rank[strings.ToLower(strings.TrimSpace(b.BookKey))]
	})

	seen := make(map[quoteKey]struct{}, len(eligible))
	out := make([]models.MarketQuote, 0, len(eligible))
	for _, q := range eligible {
		k := quoteKey{EventID: q.EventID, Player: resolve.NormalizePlayer(q.Player), Line: q.Line}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, q)
	}
	return out
}
