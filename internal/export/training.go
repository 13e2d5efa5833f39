// Package export writes training datasets for the external model-fitting
// job: one row per historical game with the leakage-safe features the player
// carried into it and the realized totals as targets.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IsaJohn05/nba-player-props-model/internal/features"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

const exportDateLayout = "2006-01-02"

// TrainingExporter renders feature histories as CSV.
type TrainingExporter struct {
	builder *features.Builder
	defense *features.DefenseBuilder
	logger  *logrus.Entry
}

// NewTrainingExporter creates an exporter around a configured feature builder.
func NewTrainingExporter(builder *features.Builder, baseLogger *logrus.Logger) *TrainingExporter {
	return &TrainingExporter{
		builder: builder,
		defense: features.NewDefenseBuilder(),
		logger:  baseLogger.WithField("component", "export"),
	}
}

// WritePlayerFeatures writes one row per historical game: identity, the
// feature set entering that game, and the realized minutes, points, assists,
// and rebounds as targets. Missing features stay empty cells; the training
// job decides how to treat them.
func (e *TrainingExporter) WritePlayerFeatures(ctx context.Context, w io.Writer, events []models.GameEvent) (int, error) {
	rows, err := e.builder.BuildHistory(ctx, events)
	if err != nil {
		return 0, fmt.Errorf("failed to build feature history: %w", err)
	}

	featureNames := collectFeatureNames(rows)
	targets := indexTargets(events)

	cw := csv.NewWriter(w)
	header := append([]string{"player_id", "player_name", "team_id", "game_date"}, featureNames...)
	header = append(header, "target_min", "target_pts", "target_ast", "target_reb")
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	written := 0
	for i := range rows {
		row := &rows[i]
		target, ok := targets[targetKey{PlayerID: row.PlayerID, Date: row.AsOf}]
		if !ok {
			continue
		}

		record := []string{
			strconv.FormatInt(row.PlayerID, 10),
			row.PlayerName,
			strconv.FormatInt(row.TeamID, 10),
			row.AsOf.Format(exportDateLayout),
		}
		for _, name := range featureNames {
			if v, present := row.Feature(name); present {
				record = append(record, formatFloat(v))
			} else {
				record = append(record, "")
			}
		}
		record = append(record,
			formatFloat(target.Minutes),
			formatFloat(target.Points),
			formatFloat(target.Assists),
			formatFloat(target.Rebounds),
		)
		if err := cw.Write(record); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, err
	}

	e.logger.WithFields(logrus.Fields{
		"rows":     written,
		"features": len(featureNames),
	}).Info("Player feature export written")
	return written, nil
}

// WriteTeamDefense writes one row per team-game with the trailing allowed
// aggregates the team carried into it.
func (e *TrainingExporter) WriteTeamDefense(w io.Writer, events []models.GameEvent) (int, error) {
	rows := e.defense.BuildHistory(events)

	cw := csv.NewWriter(w)
	header := append([]string{"team_id", "team_name", "as_of"}, features.AllowedFeatureNames...)
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	for i := range rows {
		row := &rows[i]
		record := []string{
			strconv.FormatInt(row.TeamID, 10),
			row.TeamName,
			row.AsOf.Format(exportDateLayout),
		}
		for _, name := range features.AllowedFeatureNames {
			v, _ := row.Feature(name)
			record = append(record, formatFloat(v))
		}
		if err := cw.Write(record); err != nil {
			return i, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(rows), err
	}

	e.logger.WithField("rows", len(rows)).Info("Team defense export written")
	return len(rows), nil
}

type targetKey struct {
	PlayerID int64
	Date     time.Time
}

// indexTargets maps (player, game date) to the realized box score. Feature
// rows carry AsOf equal to the game's date in history mode.
func indexTargets(events []models.GameEvent) map[targetKey]*models.GameEvent {
	targets := make(map[targetKey]*models.GameEvent, len(events))
	for i := range events {
		e := &events[i]
		targets[targetKey{PlayerID: e.PlayerID, Date: e.Date}] = e
	}
	return targets
}

// collectFeatureNames returns the union of feature names across rows, sorted
// so export columns are stable.
func collectFeatureNames(rows []models.PlayerFeatureRow) []string {
	seen := make(map[string]struct{})
	for i := range rows {
		for name := range rows[i].Features {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
