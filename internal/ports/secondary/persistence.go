// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// GameRepository defines the secondary port for game persistence.
type GameRepository interface {
	// Create persists a new game and returns its assigned ID.
	Create(ctx context.Context, game *GameRecord) (int64, error)

	// GetByID retrieves a game by its ID.
	GetByID(ctx context.Context, id int64) (*GameRecord, error)

	// List retrieves games matching the given filters, newest first.
	List(ctx context.Context, filters GameFilters) ([]*GameRecord, error)

	// UpdateStatus updates the lifecycle status of a game.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// CountChains returns the number of chains owned by a game.
	CountChains(ctx context.Context, gameID int64) (int, error)
}

// GameRecord represents a game as stored in persistence.
type GameRecord struct {
	ID         int64
	Name       string
	ChainOrder string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// GameFilters contains filter options for querying games.
type GameFilters struct {
	Status string
}

// ChainRepository defines the secondary port for chain persistence.
type ChainRepository interface {
	// Create persists a new chain and returns its assigned ID.
	Create(ctx context.Context, chain *ChainRecord) (int64, error)

	// GetByID retrieves a chain by its ID.
	GetByID(ctx context.Context, id int64) (*ChainRecord, error)

	// ListByGame retrieves a game's chains in creation order.
	ListByGame(ctx context.Context, gameID int64) ([]*ChainRecord, error)

	// GameExists checks if a game exists (for validation).
	GameExists(ctx context.Context, gameID int64) (bool, error)
}

// ChainRecord represents a chain as stored in persistence.
type ChainRecord struct {
	ID              int64
	GameID          int64
	SelectionMethod string
	CreatedAt       string
}

// MessageRepository defines the secondary port for message persistence.
type MessageRepository interface {
	// Create persists a new message slot and returns its assigned ID.
	// A chain may hold at most one parent-less message; attempting to
	// create a second seed must fail.
	Create(ctx context.Context, message *MessageRecord) (int64, error)

	// GetByID retrieves a message by its ID.
	GetByID(ctx context.Context, id int64) (*MessageRecord, error)

	// ListByChain retrieves all of a chain's messages in insertion order.
	ListByChain(ctx context.Context, chainID int64) ([]*MessageRecord, error)

	// ListEmptyByChain retrieves a chain's empty slots ordered by
	// generation, then insertion order.
	ListEmptyByChain(ctx context.Context, chainID int64) ([]*MessageRecord, error)

	// Fill sets the audio path on an empty message. The update is
	// conditional on the slot still being empty; filled reports whether
	// this call won the slot.
	Fill(ctx context.Context, id int64, audioPath string) (filled bool, err error)

	// CountChildren returns the number of children of a message.
	CountChildren(ctx context.Context, id int64) (int, error)

	// Delete removes a message from persistence.
	Delete(ctx context.Context, id int64) error
}

// MessageRecord represents a message as stored in persistence.
// ParentID is zero for the seed (root) message. Audio is the
// storage-relative path of the recording; empty means an unfilled slot.
type MessageRecord struct {
	ID         int64
	ChainID    int64
	ParentID   int64
	Name       string
	Generation int
	Audio      string
	CreatedAt  string
}

// SessionRepository defines the secondary port for player session persistence.
type SessionRepository interface {
	// Get retrieves a session by its token.
	Get(ctx context.Context, token string) (*SessionRecord, error)

	// Put creates or replaces a session.
	Put(ctx context.Context, session *SessionRecord) error

	// Delete removes a session from persistence.
	Delete(ctx context.Context, token string) error
}

// SessionRecord represents a player's progress through one game.
// Receipts holds the chains already responded to; Messages holds the
// filled message IDs in fill order (the basis of the completion code).
type SessionRecord struct {
	Token      string
	GameID     int64
	Instructed bool
	Receipts   []int64
	Messages   []int64
	CreatedAt  string
	UpdatedAt  string
}
