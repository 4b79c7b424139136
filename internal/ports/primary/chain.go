package primary

import (
	"context"
	"io"
)

// ChainService defines the primary port for chain administration and inspection.
type ChainService interface {
	// AddChain creates an additional chain in a game, seeded with one
	// empty message.
	AddChain(ctx context.Context, gameID int64) (*CreateChainResponse, error)

	// Nest produces the serializable tree view of a chain.
	Nest(ctx context.Context, chainID int64) (*ChainTree, error)

	// Sprout grows an additional empty child under a filled message,
	// forking a second branch of the conversation.
	Sprout(ctx context.Context, messageID int64) (int64, error)

	// Close prunes an empty leaf message from its chain.
	Close(ctx context.Context, messageID int64) error

	// SeedChain records starting audio into a chain's empty seed slot so
	// the experiment begins from a known prompt.
	SeedChain(ctx context.Context, chainID int64, audio io.Reader) error
}

// CreateChainResponse contains the result of adding a chain.
type CreateChainResponse struct {
	ChainID int64
	SeedID  int64
}

// ChainTree is the serializable projection of one chain.
//
// Generations is the tree depth (max generation + 1) and Branches the
// maximum sibling count at any generation, matching the inspect payload
// consumed by the rendering layer.
type ChainTree struct {
	ChainID     int64        `json:"pk"`
	Generations int          `json:"generations"`
	Branches    int          `json:"branches"`
	Messages    *MessageNode `json:"messages"`
}

// MessageNode is one node of a ChainTree. Audio is null for empty slots.
// The Can* flags mark where sprout/close/upload actions apply; the HTTP
// rendering layer turns them into action URLs.
type MessageNode struct {
	ID         int64          `json:"pk"`
	Audio      *string        `json:"audio"`
	Generation int            `json:"generation"`
	CanSprout  bool           `json:"can_sprout,omitempty"`
	CanClose   bool           `json:"can_close,omitempty"`
	CanUpload  bool           `json:"can_upload,omitempty"`
	Children   []*MessageNode `json:"children"`
}

// Chain message selection constants
const (
	SelectionYoungest = "youngest"
	SelectionRandom   = "random"
)
