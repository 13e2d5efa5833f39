package features

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func testSpecs() []FeatureSpec {
	return []FeatureSpec{
		{Name: "pts_last3", Stat: "PTS", Window: 3, Kind: TrailingMean},
		{Name: "pts_std_last3", Stat: "PTS", Window: 3, Kind: TrailingStdDev},
		{Name: "pts_per_min_last3", Stat: "PTS", Window: 3, Kind: TrailingRatePerMinute},
	}
}

func newTestBuilder(t *testing.T, starter StarterSignal) *Builder {
	t.Helper()
	b, err := NewBuilder(Config{Specs: testSpecs(), Starter: starter, Workers: 2})
	require.NoError(t, err)
	return b
}

// gameLog builds n events for one player at the given day gaps, with points
// and minutes per game.
func gameLog(playerID int64, points, minutes []float64, dates []time.Time) []models.GameEvent {
	events := make([]models.GameEvent, len(points))
	for i := range points {
		events[i] = models.GameEvent{
			PlayerID:   playerID,
			PlayerName: fmt.Sprintf("Player %d", playerID),
			TeamID:     playerID * 10,
			TeamName:   "Boston Celtics",
			GameID:     fmt.Sprintf("g%d-%d", playerID, i),
			Date:       dates[i],
			Matchup:    "BOS vs. MIA",
			Minutes:    minutes[i],
			Points:     points[i],
		}
	}
	return events
}

func everyOtherDay(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, 2*i)
	}
	return dates
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(Config{})
	assert.Error(t, err, "no specs")

	_, err = NewBuilder(Config{Specs: []FeatureSpec{
		{Name: "dup", Stat: "PTS", Window: 3, Kind: TrailingMean},
		{Name: "dup", Stat: "AST", Window: 3, Kind: TrailingMean},
	}})
	assert.Error(t, err, "duplicate name")

	_, err = NewBuilder(Config{Specs: []FeatureSpec{
		{Name: "bad", Stat: "DUNKS", Window: 3, Kind: TrailingMean},
	}})
	assert.Error(t, err, "unknown stat")

	_, err = NewBuilder(Config{Specs: []FeatureSpec{
		{Name: "bad", Stat: "PTS", Window: 1, Kind: TrailingStdDev},
	}})
	assert.Error(t, err, "std window below 2")
}

func TestBuildHistoryWindowGating(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10, 20, 30, 40, 50}, []float64{30, 30, 30, 30, 30}, everyOtherDay(start, 5))

	rows, err := b.BuildHistory(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	// First three rows: window of 3 prior events not satisfied.
	for k := 0; k < 3; k++ {
		_, ok := rows[k].Feature("pts_last3")
		assert.False(t, ok, "row %d should have no pts_last3", k)
	}

	// Row 3 sees events 0..2.
	v, ok := rows[3].Feature("pts_last3")
	require.True(t, ok)
	assert.InDelta(t, 20.0, v, 1e-12)

	// Row 4 sees events 1..3: the row's own game is never included.
	v, ok = rows[4].Feature("pts_last3")
	require.True(t, ok)
	assert.InDelta(t, 30.0, v, 1e-12)

	rate, ok := rows[4].Feature("pts_per_min_last3")
	require.True(t, ok)
	assert.InDelta(t, (20.0+30+40)/90, rate, 1e-12)
}

func TestBuildHistoryNoLookAhead(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []float64{10, 20, 30, 40, 50}
	minutes := []float64{30, 30, 30, 30, 30}

	base, err := b.BuildHistory(context.Background(), gameLog(1, points, minutes, everyOtherDay(start, 5)))
	require.NoError(t, err)

	// Perturb the final game massively.
	perturbed := append([]float64(nil), points...)
	perturbed[4] = 500
	changed, err := b.BuildHistory(context.Background(), gameLog(1, perturbed, minutes, everyOtherDay(start, 5)))
	require.NoError(t, err)

	for k := 0; k < 5; k++ {
		assert.Equal(t, base[k].Features, changed[k].Features, "row %d must not see the later perturbation", k)
	}
}

func TestBuildHistoryRestDays(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	dates := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}
	events := gameLog(1, []float64{10, 12, 14}, []float64{30, 30, 30}, dates)

	rows, err := b.BuildHistory(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// First event: rest is unknowable, not zero.
	_, ok := rows[0].Feature(FeatureRestDays)
	assert.False(t, ok)
	_, ok = rows[0].Feature(FeatureIsB2B)
	assert.False(t, ok)

	rest, ok := rows[1].Feature(FeatureRestDays)
	require.True(t, ok)
	assert.Equal(t, 1.0, rest)
	b2b, _ := rows[1].Feature(FeatureIsB2B)
	assert.Equal(t, 1.0, b2b)

	rest, _ = rows[2].Feature(FeatureRestDays)
	assert.Equal(t, 4.0, rest)
	b2b, _ = rows[2].Feature(FeatureIsB2B)
	assert.Equal(t, 0.0, b2b)
}

func TestBuildHistoryHomeFlag(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10, 12}, []float64{30, 30}, everyOtherDay(start, 2))
	events[1].Matchup = "BOS @ NYK"

	rows, err := b.BuildHistory(context.Background(), events)
	require.NoError(t, err)

	home, _ := rows[0].Feature(FeatureIsHome)
	assert.Equal(t, 1.0, home)
	home, _ = rows[1].Feature(FeatureIsHome)
	assert.Equal(t, 0.0, home)
}

func TestBuildHistoryMalformedMatchup(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10}, []float64{30}, everyOtherDay(start, 1))
	events[0].Matchup = "BOS-MIA"

	_, err := b.BuildHistory(context.Background(), events)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedMatchup)
}

func TestBuildLatest(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10, 20, 30}, []float64{30, 30, 30}, everyOtherDay(start, 3))
	asOf := events[2].Date.AddDate(0, 0, 1)

	rows, err := b.BuildLatest(context.Background(), events, asOf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, asOf, row.AsOf)

	// Latest mode: every logged game is prior, so the 3-window covers all.
	v, ok := row.Feature("pts_last3")
	require.True(t, ok)
	assert.InDelta(t, 20.0, v, 1e-12)

	rest, ok := row.Feature(FeatureRestDays)
	require.True(t, ok)
	assert.Equal(t, 1.0, rest)
	b2b, _ := row.Feature(FeatureIsB2B)
	assert.Equal(t, 1.0, b2b)

	// The home flag cannot come from history; the matchup join fills it.
	_, ok = row.Feature(FeatureIsHome)
	assert.False(t, ok)

	starter, ok := row.Feature(FeatureIsStarter)
	require.True(t, ok)
	assert.Equal(t, 1.0, starter)
}

func TestBuildLatestMultiplePlayers(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10, 20, 30}, []float64{30, 30, 30}, everyOtherDay(start, 3))
	events = append(events, gameLog(2, []float64{5, 6}, []float64{12, 14}, everyOtherDay(start, 2))...)
	asOf := start.AddDate(0, 0, 7)

	rows, err := b.BuildLatest(context.Background(), events, asOf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Output is ordered by player id.
	assert.Equal(t, int64(1), rows[0].PlayerID)
	assert.Equal(t, int64(2), rows[1].PlayerID)

	// Player 2 has only two games; the 3-window stays missing, the context
	// features do not.
	_, ok := rows[1].Feature("pts_last3")
	assert.False(t, ok)
	_, ok = rows[1].Feature(FeatureRestDays)
	assert.True(t, ok)
	starter, ok := rows[1].Feature(FeatureIsStarter)
	require.True(t, ok)
	assert.Equal(t, 0.0, starter, "14 minutes is below the 24-minute proxy threshold")
}

func TestStarterExplicitFlag(t *testing.T) {
	b := newTestBuilder(t, ExplicitFlag())
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10, 20}, []float64{10, 10}, everyOtherDay(start, 2))
	forward := "F"
	events[0].StartPosition = &forward
	bench := ""
	events[1].StartPosition = &bench

	rows, err := b.BuildHistory(context.Background(), events)
	require.NoError(t, err)

	starter, ok := rows[0].Feature(FeatureIsStarter)
	require.True(t, ok)
	assert.Equal(t, 1.0, starter)

	starter, ok = rows[1].Feature(FeatureIsStarter)
	require.True(t, ok)
	assert.Equal(t, 0.0, starter)
}

func TestStarterMinutesProxyUsesPriorGame(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10, 20}, []float64{30, 10}, everyOtherDay(start, 2))

	rows, err := b.BuildHistory(context.Background(), events)
	require.NoError(t, err)

	// No prior game: the proxy has nothing to read.
	_, ok := rows[0].Feature(FeatureIsStarter)
	assert.False(t, ok)

	// The previous game's 30 minutes clears the threshold, even though this
	// game's own minutes would not.
	starter, ok := rows[1].Feature(FeatureIsStarter)
	require.True(t, ok)
	assert.Equal(t, 1.0, starter)
}

func TestDetectStarterSignal(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := gameLog(1, []float64{10}, []float64{30}, everyOtherDay(start, 1))

	sig := DetectStarterSignal(events, 24)
	assert.Equal(t, StarterMinutesProxy, sig.Mode)
	assert.Equal(t, 24.0, sig.MinutesThreshold)

	forward := "F"
	events[0].StartPosition = &forward
	sig = DetectStarterSignal(events, 24)
	assert.Equal(t, StarterExplicitFlag, sig.Mode)
}

func TestBuildHistoryStableTieOrdering(t *testing.T) {
	b := newTestBuilder(t, MinutesThresholdProxy(24))
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// Two games logged on the same date: original log order must break the tie.
	events := gameLog(1, []float64{10, 20}, []float64{30, 30}, []time.Time{date, date})

	rows, err := b.BuildHistory(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "g1-0", events[0].GameID)
	assert.Equal(t, events[0].Date, rows[0].AsOf)
}
