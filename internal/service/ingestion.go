package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/IsaJohn05/nba-player-props-model/internal/metrics"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/repository"
)

// gameDateLayout is the date format league game-log exports use.
const gameDateLayout = "2006-01-02"

// IngestionService loads game-log and roster CSV exports into storage. Rows
// that fail to parse or validate are skipped and counted; a malformed row
// never aborts the file.
type IngestionService struct {
	events    repository.GameEventRepository
	roster    repository.RosterRepository
	validate  *validator.Validate
	logger    *logrus.Entry
	batchSize int
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(repos *repository.Repositories, baseLogger *logrus.Logger, batchSize int) (*IngestionService, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	return &IngestionService{
		events:    repos.GameEvent,
		roster:    repos.Roster,
		validate:  validator.New(),
		logger:    baseLogger.WithField("component", "ingestion"),
		batchSize: batchSize,
	}, nil
}

// IngestGameLog reads a per-player game-log CSV and inserts the events in
// batches. Duplicate (player, game) rows are no-ops at the storage layer, so
// re-running a file is safe.
func (s *IngestionService) IngestGameLog(ctx context.Context, r io.Reader) (*IngestionStats, error) {
	stats := NewIngestionStats()
	start := time.Now()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read game log header: %w", err)
	}
	cols, err := indexColumns(header, []string{
		"player_id", "player_name", "team_id", "team_name", "game_id",
		"season", "game_date", "matchup",
		"min", "pts", "ast", "reb", "fga", "fta", "fg3a", "tov",
	})
	if err != nil {
		return stats, err
	}
	startPosCol, hasStartPos := columnIndex(header, "start_position")

	batch := make([]*models.GameEvent, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.events.InsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert game event batch: %w", err)
		}
		stats.RecordEvents(len(batch))
		metrics.RecordGameEventsIngested(len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.RecordParseError()
			s.logger.WithError(err).Warn("Skipping malformed game log row")
			continue
		}
		stats.RecordRow()

		event, err := s.parseGameEvent(record, cols)
		if err != nil {
			stats.RecordParseError()
			s.logger.WithError(err).Warn("Skipping unparseable game log row")
			continue
		}
		if hasStartPos {
			if sp := strings.TrimSpace(record[startPosCol]); sp != "" {
				event.StartPosition = &sp
			}
		}

		if err := s.validate.Struct(event); err != nil {
			stats.RecordValidationError()
			s.logger.WithError(err).WithField("player", event.PlayerName).Warn("Skipping invalid game event")
			continue
		}

		batch = append(batch, event)
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"rows":              stats.RowsRead,
		"ingested":          stats.EventsIngested,
		"parse_errors":      stats.ParseErrors,
		"validation_errors": stats.ValidationErrors,
		"duration":          stats.Duration.String(),
	}).Info("Game log ingestion complete")

	return stats, nil
}

// IngestRosterSnapshot reads a roster CSV and atomically replaces the stored
// snapshot. The snapshot is all-or-nothing: any invalid row aborts the
// replacement, since a partial roster would silently misresolve opponents.
func (s *IngestionService) IngestRosterSnapshot(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read roster header: %w", err)
	}
	cols, err := indexColumns(header, []string{"player_id", "player_name", "team_abbr"})
	if err != nil {
		return 0, err
	}

	var entries []models.RosterEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("malformed roster row: %w", err)
		}

		playerID, err := strconv.ParseInt(strings.TrimSpace(record[cols["player_id"]]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid roster player_id %q: %w", record[cols["player_id"]], err)
		}
		entry := models.RosterEntry{
			PlayerID:   playerID,
			PlayerName: strings.TrimSpace(record[cols["player_name"]]),
			TeamAbbr:   strings.ToUpper(strings.TrimSpace(record[cols["team_abbr"]])),
		}
		if err := s.validate.Struct(entry); err != nil {
			return 0, fmt.Errorf("invalid roster entry for %q: %w", entry.PlayerName, err)
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("roster snapshot is empty")
	}

	if err := s.roster.ReplaceSnapshot(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to replace roster snapshot: %w", err)
	}
	metrics.UpdateRosterSize(len(entries))
	s.logger.WithField("players", len(entries)).Info("Roster snapshot replaced")

	return len(entries), nil
}

// parseGameEvent converts one CSV record into a GameEvent. Stat fields go
// through decimal so values exported as strings round-trip exactly.
func (s *IngestionService) parseGameEvent(record []string, cols map[string]int) (*models.GameEvent, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[cols[name]])
	}

	playerID, err := strconv.ParseInt(field("player_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid player_id %q: %w", field("player_id"), err)
	}
	teamID, err := strconv.ParseInt(field("team_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid team_id %q: %w", field("team_id"), err)
	}
	date, err := time.Parse(gameDateLayout, field("game_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid game_date %q: %w", field("game_date"), err)
	}

	event := &models.GameEvent{
		PlayerID:   playerID,
		PlayerName: field("player_name"),
		TeamID:     teamID,
		TeamName:   field("team_name"),
		GameID:     field("game_id"),
		Season:     field("season"),
		Date:       date,
		Matchup:    field("matchup"),
	}

	stats := []struct {
		col  string
		dest *float64
	}{
		{"min", &event.Minutes},
		{"pts", &event.Points},
		{"ast", &event.Assists},
		{"reb", &event.Rebounds},
		{"fga", &event.FieldGoalAtt},
		{"fta", &event.FreeThrowAtt},
		{"fg3a", &event.ThreePointAtt},
		{"tov", &event.Turnovers},
	}
	for _, st := range stats {
		d, err := decimal.NewFromString(field(st.col))
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", st.col, field(st.col), err)
		}
		*st.dest = d.InexactFloat64()
	}

	return event, nil
}

// indexColumns maps required column names (case-insensitive) to their
// positions in the header.
func indexColumns(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(required))
	for _, name := range required {
		idx, ok := columnIndex(header, name)
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		cols[name] = idx
	}
	return cols, nil
}

func columnIndex(header []string, name string) (int, bool) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return 0, false
}
