package primary

import (
	"context"
	"io"
)

// AllocationService defines the primary port for the play protocol: the
// request/response cycle that decides what a player should do next.
type AllocationService interface {
	// StartSession opens a session against a game. New sessions start
	// uninstructed.
	StartSession(ctx context.Context, gameID int64) (*Session, error)

	// Accept records that the player has read the instructions.
	Accept(ctx context.Context, token string) error

	// NextTask returns the slot the player should record into, or the
	// completion state when the game holds nothing more for them.
	NextTask(ctx context.Context, token string) (*TaskResponse, error)

	// Submit records audio into a slot, grows the chain, and returns the
	// player's next task. Submissions never fail on an allocation race;
	// a lost slot forks a sibling branch instead.
	Submit(ctx context.Context, req SubmitRequest) (*TaskResponse, error)

	// Clear forgets the player's progress, returning the session to the
	// uninstructed state. No messages are deleted.
	Clear(ctx context.Context, token string) error

	// GetSession retrieves the current session state.
	GetSession(ctx context.Context, token string) (*Session, error)
}

// Session state constants
const (
	StateUninstructed = "uninstructed"
	StatePlaying      = "playing"
	StateComplete     = "complete"
)

// Session represents a player's progress through a game.
type Session struct {
	Token      string
	GameID     int64
	State      string
	Receipts   []int64
	Messages   []int64
	Instructed bool
}

// Task describes one recording slot allocated to a player.
type Task struct {
	MessageID   int64
	ChainID     int64
	Generation  int
	PromptAudio string // parent's recording; empty at the seed
}

// TaskResponse is the outcome of NextTask or Submit.
// Task is nil unless State is playing; CompletionCode is set once complete.
type TaskResponse struct {
	State          string
	Task           *Task
	CompletionCode string
}

// SubmitRequest contains a player's recording for an allocated slot.
type SubmitRequest struct {
	Token     string
	MessageID int64
	Audio     io.Reader
}
