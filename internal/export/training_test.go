package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/features"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newExporter(t *testing.T) *TrainingExporter {
	t.Helper()
	builder, err := features.NewBuilder(features.Config{
		Specs: []features.FeatureSpec{
			{Name: "pts_last3", Stat: "PTS", Window: 3, Kind: features.TrailingMean},
		},
		Starter: features.MinutesThresholdProxy(24),
		Workers: 1,
	})
	require.NoError(t, err)
	return NewTrainingExporter(builder, testLogger())
}

func playerSeries(playerID int64, name string, n int) []models.GameEvent {
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	events := make([]models.GameEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.GameEvent{
			PlayerID:   playerID,
			PlayerName: name,
			TeamID:     1,
			TeamName:   "Boston Celtics",
			GameID:     "g001",
			Season:     "2024-25",
			Date:       start.AddDate(0, 0, 2*i),
			Matchup:    "BOS vs. MIA",
			Minutes:    30,
			Points:     float64(10 + i),
			Assists:    4,
			Rebounds:   6,
		})
	}
	return events
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWritePlayerFeatures(t *testing.T) {
	exporter := newExporter(t)
	events := playerSeries(101, "Jayson Tatum", 5)

	var buf bytes.Buffer
	n, err := exporter.WritePlayerFeatures(context.Background(), &buf, events)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	records := parseCSV(t, &buf)
	require.Len(t, records, 6)

	header := records[0]
	assert.Equal(t, "player_id", header[0])
	assert.Contains(t, header, "pts_last3")
	assert.Contains(t, header, "rest_days")
	assert.Equal(t, "target_reb", header[len(header)-1])

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	// The first game has no trailing window behind it.
	first := records[1]
	assert.Equal(t, "101", first[col["player_id"]])
	assert.Equal(t, "2024-11-01", first[col["game_date"]])
	assert.Empty(t, first[col["pts_last3"]])
	assert.Equal(t, "30", first[col["target_min"]])
	assert.Equal(t, "10", first[col["target_pts"]])

	// The fourth game sees the mean of games one through three.
	fourth := records[4]
	assert.Equal(t, "11", fourth[col["pts_last3"]])
	assert.Equal(t, "13", fourth[col["target_pts"]])
}

func TestWritePlayerFeaturesMultiplePlayers(t *testing.T) {
	exporter := newExporter(t)
	events := append(playerSeries(202, "Jaylen Brown", 2), playerSeries(101, "Jayson Tatum", 2)...)

	var buf bytes.Buffer
	n, err := exporter.WritePlayerFeatures(context.Background(), &buf, events)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	records := parseCSV(t, &buf)
	require.Len(t, records, 5)
	// Rows come back grouped by player id ascending.
	assert.Equal(t, "101", records[1][0])
	assert.Equal(t, "101", records[2][0])
	assert.Equal(t, "202", records[3][0])
	assert.Equal(t, "202", records[4][0])
}

func TestWritePlayerFeaturesMalformedMatchup(t *testing.T) {
	exporter := newExporter(t)
	events := playerSeries(101, "Jayson Tatum", 2)
	events[1].Matchup = "BOS-MIA"

	var buf bytes.Buffer
	_, err := exporter.WritePlayerFeatures(context.Background(), &buf, events)
	assert.ErrorIs(t, err, models.ErrMalformedMatchup)
}

func TestWriteTeamDefense(t *testing.T) {
	exporter := newExporter(t)

	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	var events []models.GameEvent
	for i := 0; i < 12; i++ {
		date := start.AddDate(0, 0, 2*i)
		gameID := "g" + date.Format("0102")
		events = append(events,
			models.GameEvent{
				PlayerID: 101, PlayerName: "Jayson Tatum",
				TeamID: 1, TeamName: "Boston Celtics",
				GameID: gameID, Date: date, Matchup: "BOS vs. MIA",
				Minutes: 30, Points: 100,
			},
			models.GameEvent{
				PlayerID: 202, PlayerName: "Bam Adebayo",
				TeamID: 2, TeamName: "Miami Heat",
				GameID: gameID, Date: date, Matchup: "MIA @ BOS",
				Minutes: 30, Points: 90,
			},
		)
	}

	var buf bytes.Buffer
	n, err := exporter.WriteTeamDefense(&buf, events)
	require.NoError(t, err)

	records := parseCSV(t, &buf)
	assert.Equal(t, n, len(records)-1)
	assert.Equal(t, "team_id", records[0][0])
	assert.Contains(t, records[0], "opp_pts_allowed_last10")
	for _, record := range records[1:] {
		assert.NotEmpty(t, record[3])
	}
}
