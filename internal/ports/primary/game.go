// Package primary defines the primary ports (driving interfaces) for the
// application, together with their request/response types.
package primary

import "context"

// GameService defines the primary port for game administration.
type GameService interface {
	// CreateGame creates a new game seeded with empty chains.
	CreateGame(ctx context.Context, req CreateGameRequest) (*CreateGameResponse, error)

	// GetGame retrieves a game by ID.
	GetGame(ctx context.Context, gameID int64) (*Game, error)

	// ListGames lists visible games, newest first.
	ListGames(ctx context.Context, filters GameFilters) ([]*Game, error)

	// SetGameStatus toggles a game between active and inactive.
	SetGameStatus(ctx context.Context, gameID int64, status string) error

	// ExportGame copies a game's recordings into a directory using the
	// lineage-describing export names.
	ExportGame(ctx context.Context, req ExportGameRequest) (*ExportGameResponse, error)
}

// CreateGameRequest contains parameters for creating a game.
type CreateGameRequest struct {
	Name       string // Optional display name
	NumChains  int
	ChainOrder string // Optional; defaults to sequential
}

// CreateGameResponse contains the result of creating a game.
type CreateGameResponse struct {
	GameID   int64
	ChainIDs []int64
	Game     *Game
}

// Game represents a game entity at the port boundary.
type Game struct {
	ID         int64
	Name       string
	ChainOrder string
	Status     string
	NumChains  int
	CreatedAt  string
}

// GameFilters contains filter options for listing games.
type GameFilters struct {
	IncludeInactive bool
}

// ExportGameRequest contains parameters for exporting a game's recordings.
type ExportGameRequest struct {
	GameID  int64
	DestDir string
}

// ExportGameResponse lists the files written by an export.
type ExportGameResponse struct {
	Files []string
}

// Game lifecycle status constants
const (
	GameStatusActive   = "active"
	GameStatusInactive = "inactive"
)
