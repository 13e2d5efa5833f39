package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// PostgresRosterRepository implements RosterRepository for PostgreSQL
type PostgresRosterRepository struct {
	db *database.DB
}

// NewPostgresRosterRepository creates a new roster repository
func NewPostgresRosterRepository(db *database.DB) RosterRepository {
	return &PostgresRosterRepository{db: db}
}

// ReplaceSnapshot replaces the roster snapshot atomically. Opponent inference
// fails closed on stale data, so a partial snapshot must never be visible.
func (r *PostgresRosterRepository) ReplaceSnapshot(ctx context.Context, entries []models.RosterEntry) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM roster_snapshot`); err != nil {
			return fmt.Errorf("failed to clear roster snapshot: %w", err)
		}

		query := `
			INSERT INTO roster_snapshot (player_id, player_name, team_abbr)
			VALUES ($1, $2, $3)
		`
		for _, entry := range entries {
			if _, err := tx.Exec(ctx, query, entry.PlayerID, entry.PlayerName, entry.TeamAbbr); err != nil {
				return fmt.Errorf("failed to insert roster entry %q: %w", entry.PlayerName, err)
			}
		}
		return nil
	})
}

// GetSnapshot retrieves the current roster snapshot
func (r *PostgresRosterRepository) GetSnapshot(ctx context.Context) ([]models.RosterEntry, error) {
	query := `
		SELECT player_id, player_name, team_abbr
		FROM roster_snapshot
		ORDER BY player_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster snapshot: %w", err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var entry models.RosterEntry
		if err := rows.Scan(&entry.PlayerID, &entry.PlayerName, &entry.TeamAbbr); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
