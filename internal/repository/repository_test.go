package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.Nil(t, repos)
}

// TestPickRoundTrip exercises the pick repository against a live database.
// Skipped when no test database is configured.
func TestPickRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	runID := uuid.New()
	pick := &models.SelectedPick{
		ID:           uuid.New(),
		RunID:        runID,
		Category:     models.CategoryPoints,
		Player:       "Jayson Tatum",
		PlayerTeam:   "BOS",
		OpponentTeam: "LAL",
		Side:         models.SideOver,
		Line:         27.5,
		Odds:         -112,
		Edge:         0.054,
		Rating:       5.4,
		BookKey:      "fanduel",
		CommenceTime: time.Now().Add(6 * time.Hour).UTC().Truncate(time.Second),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	ctx := context.Background()
	require.NoError(t, repos.Pick.CreateBatch(ctx, []*models.SelectedPick{pick}))

	got, err := repos.Pick.GetByRunID(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pick.Player, got[0].Player)
	assert.Equal(t, pick.Side, got[0].Side)
	assert.Equal(t, pick.Odds, got[0].Odds)
}

// TestGameEventRoundTrip exercises the game event repository against a live
// database. Skipped when no test database is configured.
func TestGameEventRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ev := &models.GameEvent{
		PlayerID:   99990001,
		PlayerName: "Test Player",
		TeamID:     1610612738,
		TeamName:   "Boston Celtics",
		GameID:     "TEST0001",
		Season:     "2024-25",
		Date:       time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Matchup:    "BOS vs. LAL",
		Minutes:    34.5,
		Points:     27,
		Assists:    5,
		Rebounds:   8,
	}

	ctx := context.Background()
	require.NoError(t, repos.GameEvent.InsertBatch(ctx, []*models.GameEvent{ev}))
	// Duplicate insert is a no-op
	require.NoError(t, repos.GameEvent.InsertBatch(ctx, []*models.GameEvent{ev}))

	got, err := repos.GameEvent.GetByPlayerID(ctx, ev.PlayerID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ev.Matchup, got[0].Matchup)
}
