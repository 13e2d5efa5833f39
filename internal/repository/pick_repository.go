package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

const pickColumns = `
	id, run_id, category, player, player_team, opponent_team, side, line,
	odds, edge, rating, book_key, commence_time, created_at
`

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

// CreateBatch persists a slate of picks in one transaction
func (r *PostgresPickRepository) CreateBatch(ctx context.Context, picks []*models.SelectedPick) error {
	if len(picks) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO selected_picks (` + pickColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		for _, pick := range picks {
			_, err := tx.Exec(ctx, query,
				pick.ID, pick.RunID, pick.Category, pick.Player, pick.PlayerTeam,
				pick.OpponentTeam, pick.Side, pick.Line, pick.Odds, pick.Edge,
				pick.Rating, pick.BookKey, pick.CommenceTime, pick.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert pick %s: %w", pick.ID, err)
			}
		}
		return nil
	})
}

// GetByRunID retrieves all picks for one slate run ordered by edge
func (r *PostgresPickRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.SelectedPick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM selected_picks
		WHERE run_id = $1
		ORDER BY edge DESC, player ASC
	`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks by run: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// GetRecent retrieves the most recently created picks
func (r *PostgresPickRepository) GetRecent(ctx context.Context, limit int) ([]*models.SelectedPick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM selected_picks
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// scanPicks scans query rows into selected picks
func scanPicks(rows pgx.Rows) ([]*models.SelectedPick, error) {
	var picks []*models.SelectedPick
	for rows.Next() {
		pick := &models.SelectedPick{}
		err := rows.Scan(
			&pick.ID, &pick.RunID, &pick.Category, &pick.Player, &pick.PlayerTeam,
			&pick.OpponentTeam, &pick.Side, &pick.Line, &pick.Odds, &pick.Edge,
			&pick.Rating, &pick.BookKey, &pick.CommenceTime, &pick.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}
