package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

const errScanGameEvent = "failed to scan game event: %w"

const gameEventColumns = `
	player_id, player_name, team_id, team_name, game_id, season, game_date,
	matchup, minutes, points, assists, rebounds, fga, fta, fg3a, turnovers,
	start_position
`

// PostgresGameEventRepository implements GameEventRepository for PostgreSQL
type PostgresGameEventRepository struct {
	db *database.DB
}

// NewPostgresGameEventRepository creates a new game event repository
func NewPostgresGameEventRepository(db *database.DB) GameEventRepository {
	return &PostgresGameEventRepository{db: db}
}

// InsertBatch inserts a batch of game events, skipping duplicates. The game
// log is append-only, so conflicts on (player_id, game_id) are ignored.
func (r *PostgresGameEventRepository) InsertBatch(ctx context.Context, events []*models.GameEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO game_events (` + gameEventColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (player_id, game_id) DO NOTHING
		`
		for _, ev := range events {
			_, err := tx.Exec(ctx, query,
				ev.PlayerID, ev.PlayerName, ev.TeamID, ev.TeamName, ev.GameID,
				ev.Season, ev.Date, ev.Matchup, ev.Minutes, ev.Points, ev.Assists,
				ev.Rebounds, ev.FieldGoalAtt, ev.FreeThrowAtt, ev.ThreePointAtt,
				ev.Turnovers, ev.StartPosition,
			)
			if err != nil {
				return fmt.Errorf("failed to insert game event %s/%d: %w", ev.GameID, ev.PlayerID, err)
			}
		}
		return nil
	})
}

// GetByPlayerID retrieves all game events for one player ordered by date
func (r *PostgresGameEventRepository) GetByPlayerID(ctx context.Context, playerID int64) ([]*models.GameEvent, error) {
	query := `
		SELECT ` + gameEventColumns + `
		FROM game_events
		WHERE player_id = $1
		ORDER BY game_date ASC
	`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game events by player: %w", err)
	}
	defer rows.Close()

	return scanGameEvents(rows)
}

// GetBySeason retrieves all game events for a season ordered by date
func (r *PostgresGameEventRepository) GetBySeason(ctx context.Context, season string) ([]*models.GameEvent, error) {
	query := `
		SELECT ` + gameEventColumns + `
		FROM game_events
		WHERE season = $1
		ORDER BY game_date ASC, player_id ASC
	`

	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query game events by season: %w", err)
	}
	defer rows.Close()

	return scanGameEvents(rows)
}

// GetThrough retrieves all game events dated strictly before the cutoff.
// Feature builds for an upcoming slate load history through the night before.
func (r *PostgresGameEventRepository) GetThrough(ctx context.Context, cutoff time.Time) ([]*models.GameEvent, error) {
	query := `
		SELECT ` + gameEventColumns + `
		FROM game_events
		WHERE game_date < $1
		ORDER BY game_date ASC, player_id ASC
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query game events through cutoff: %w", err)
	}
	defer rows.Close()

	return scanGameEvents(rows)
}

// CountBySeason returns the number of logged events for a season
func (r *PostgresGameEventRepository) CountBySeason(ctx context.Context, season string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM game_events WHERE season = $1`, season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count game events: %w", err)
	}
	return count, nil
}

// scanGameEvents scans query rows into game events
func scanGameEvents(rows pgx.Rows) ([]*models.GameEvent, error) {
	var events []*models.GameEvent
	for rows.Next() {
		ev := &models.GameEvent{}
		err := rows.Scan(
			&ev.PlayerID, &ev.PlayerName, &ev.TeamID, &ev.TeamName, &ev.GameID,
			&ev.Season, &ev.Date, &ev.Matchup, &ev.Minutes, &ev.Points, &ev.Assists,
			&ev.Rebounds, &ev.FieldGoalAtt, &ev.FreeThrowAtt, &ev.ThreePointAtt,
			&ev.Turnovers, &ev.StartPosition,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGameEvent, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
