package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// GameEventRepository defines the interface for player game log access
type GameEventRepository interface {
	InsertBatch(ctx context.Context, events []*models.GameEvent) error
	GetByPlayerID(ctx context.Context, playerID int64) ([]*models.GameEvent, error)
	GetBySeason(ctx context.Context, season string) ([]*models.GameEvent, error)
	GetThrough(ctx context.Context, cutoff time.Time) ([]*models.GameEvent, error)
	CountBySeason(ctx context.Context, season string) (int, error)
}

// RosterRepository defines the interface for roster snapshot access
type RosterRepository interface {
	ReplaceSnapshot(ctx context.Context, entries []models.RosterEntry) error
	GetSnapshot(ctx context.Context) ([]models.RosterEntry, error)
}

// QuoteRepository defines the interface for archived market quote access
type QuoteRepository interface {
	InsertBatch(ctx context.Context, quotes []models.MarketQuote) error
	GetByEventID(ctx context.Context, eventID string) ([]models.MarketQuote, error)
	GetLatestByCategory(ctx context.Context, category models.StatCategory, since time.Time) ([]models.MarketQuote, error)
}

// PickRepository defines the interface for selected pick access
type PickRepository interface {
	CreateBatch(ctx context.Context, picks []*models.SelectedPick) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.SelectedPick, error)
	GetRecent(ctx context.Context, limit int) ([]*models.SelectedPick, error)
}
