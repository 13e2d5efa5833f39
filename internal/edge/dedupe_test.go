package edge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func dedupeQuote(book, player string, line float64, over int) models.MarketQuote {
	return models.MarketQuote{
		EventID:      "evt1",
		CommenceTime: time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC),
		BookKey:      book,
		Player:       player,
		Category:     models.CategoryPoints,
		Line:         line,
		OddsOver:     intPtr(over),
		OddsUnder:    intPtr(-110),
	}
}

func TestDedupePrefersHigherPriorityBook(t *testing.T) {
	quotes := []models.MarketQuote{
		dedupeQuote("bet365", "Jayson Tatum", 27.5, -105),
		dedupeQuote("fanduel", "Jayson Tatum", 27.5, -112),
	}

	out := DedupeByBookPriority(quotes, []string{"fanduel", "bet365"})
	require.Len(t, out, 1)
	assert.Equal(t, "fanduel", out[0].BookKey)
	assert.Equal(t, -112, *out[0].OddsOver)
}

func TestDedupeKeepsDistinctLines(t *testing.T) {
	quotes := []models.MarketQuote{
		dedupeQuote("fanduel", "Jayson Tatum", 27.5, -112),
		dedupeQuote("bet365", "Jayson Tatum", 28.5, -102),
	}

	out := DedupeByBookPriority(quotes, []string{"fanduel", "bet365"})
	assert.Len(t, out, 2, "different lines are different props")
}

func TestDedupeDropsUnlistedBooks(t *testing.T) {
	quotes := []models.MarketQuote{
		dedupeQuote("draftkings", "Jayson Tatum", 27.5, -108),
	}

	out := DedupeByBookPriority(quotes, []string{"fanduel", "bet365"})
	assert.Empty(t, out)
}

func TestDedupeNormalizesPlayerIdentity(t *testing.T) {
	quotes := []models.MarketQuote{
		dedupeQuote("fanduel", "Jaren Jackson Jr.", 17.5, -110),
		dedupeQuote("bet365", "jaren  jackson", 17.5, -104),
	}

	out := DedupeByBookPriority(quotes, []string{"fanduel", "bet365"})
	require.Len(t, out, 1)
	assert.Equal(t, "fanduel", out[0].BookKey)
}

func TestDedupeDeterministic(t *testing.T) {
	quotes := []models.MarketQuote{
		dedupeQuote("bet365", "LeBron James", 25.5, -102),
		dedupeQuote("fanduel", "Jayson Tatum", 27.5, -112),
		dedupeQuote("fanduel", "LeBron James", 25.5, -115),
		dedupeQuote("bet365", "Jayson Tatum", 27.5, -105),
	}

	first := DedupeByBookPriority(quotes, []string{"fanduel", "bet365"})

	// Same quotes in a different arrival order.
	reordered := []models.MarketQuote{quotes[3], quotes[1], quotes[0], quotes[2]}
	second := DedupeByBookPriority(reordered, []string{"fanduel", "bet365"})

	assert.Equal(t, first, second)
}
