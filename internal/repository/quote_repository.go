package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/IsaJohn05/nba-player-props-model/internal/database"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

const quoteColumns = `
	event_id, commence_time, home_team, away_team, book_key, book_title,
	player, category, line, odds_over, odds_under, fetched_at
`

// PostgresQuoteRepository implements QuoteRepository for PostgreSQL
type PostgresQuoteRepository struct {
	db *database.DB
}

// NewPostgresQuoteRepository creates a new quote repository
func NewPostgresQuoteRepository(db *database.DB) QuoteRepository {
	return &PostgresQuoteRepository{db: db}
}

// InsertBatch archives a batch of fetched quotes
func (r *PostgresQuoteRepository) InsertBatch(ctx context.Context, quotes []models.MarketQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO market_quotes (` + quoteColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		for _, q := range quotes {
			_, err := tx.Exec(ctx, query,
				q.EventID, q.CommenceTime, q.HomeTeam, q.AwayTeam, q.BookKey,
				q.BookTitle, q.Player, q.Category, q.Line, q.OddsOver, q.OddsUnder,
				q.FetchedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to archive quote %s/%s: %w", q.EventID, q.Player, err)
			}
		}
		return nil
	})
}

// GetByEventID retrieves archived quotes for an event
func (r *PostgresQuoteRepository) GetByEventID(ctx context.Context, eventID string) ([]models.MarketQuote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM market_quotes
		WHERE event_id = $1
		ORDER BY fetched_at ASC, player ASC, line ASC
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes by event: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// GetLatestByCategory retrieves quotes fetched after the given time for a category
func (r *PostgresQuoteRepository) GetLatestByCategory(ctx context.Context, category models.StatCategory, since time.Time) ([]models.MarketQuote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM market_quotes
		WHERE category = $1 AND fetched_at >= $2
		ORDER BY commence_time ASC, event_id ASC, player ASC, line ASC
	`

	rows, err := r.db.Query(ctx, query, category, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes by category: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// scanQuotes scans query rows into market quotes
func scanQuotes(rows pgx.Rows) ([]models.MarketQuote, error) {
	var quotes []models.MarketQuote
	for rows.Next() {
		var q models.MarketQuote
		err := rows.Scan(
			&q.EventID, &q.CommenceTime, &q.HomeTeam, &q.AwayTeam, &q.BookKey,
			&q.BookTitle, &q.Player, &q.Category, &q.Line, &q.OddsOver,
			&q.OddsUnder, &q.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
