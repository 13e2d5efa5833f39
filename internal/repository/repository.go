package repository

import (
	"fmt"

	"github.com/IsaJohn05/nba-player-props-model/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	GameEvent GameEventRepository
	Roster    RosterRepository
	Quote     QuoteRepository
	Pick      PickRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		GameEvent: NewPostgresGameEventRepository(db),
		Roster:    NewPostgresRosterRepository(db),
		Quote:     NewPostgresQuoteRepository(db),
		Pick:      NewPostgresPickRepository(db),
	}, nil
}
