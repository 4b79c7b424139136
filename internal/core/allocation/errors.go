// Package allocation contains the pure logic that decides which chain and
// which message slot a player should fill next. Exhaustion and conflict
// conditions are expected control-flow outcomes, modeled as sentinel errors
// so callers can branch with errors.Is rather than treating them as failures.
package allocation

import "errors"

var (
	// ErrNoChains means the game owns no chains at all.
	ErrNoChains = errors.New("no chains in game")

	// ErrAllChainsVisited means every chain is excluded by the player's receipts.
	ErrAllChainsVisited = errors.New("all chains visited")

	// ErrNoEmptyMessage means a chain has no empty slots left to allocate.
	ErrNoEmptyMessage = errors.New("no empty message in chain")

	// ErrAlreadyFilled means a fill lost the race for an empty slot.
	ErrAlreadyFilled = errors.New("message already filled")

	// ErrNotPrunable means a close was attempted on a message with audio or children.
	ErrNotPrunable = errors.New("message is not prunable")
)
