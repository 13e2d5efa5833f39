package database

import (
	"context"
	"fmt"

	"github.com/IsaJohn05/nba-player-props-model/internal/config"
)

// Initialize creates a database connection pool and verifies the schema is present
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// Verify migrations are applied by checking schema_migrations table
	var migrationCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount)
	if err != nil {
		// Table might not exist yet, which is OK for initial setup
		return db, nil
	}

	if migrationCount == 0 {
		fmt.Println("Warning: No migrations have been applied. Please run database migrations.")
	}

	// The event log is the one table every run reads; surface its absence
	// at startup instead of on the first slate.
	var hasEvents bool
	err = db.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'game_events')",
	).Scan(&hasEvents)
	if err == nil && !hasEvents {
		fmt.Println("Warning: game_events table not found. Slate runs will fail until migrations are applied.")
	}

	return db, nil
}
