// Package message contains the pure business logic for message operations.
// Guards are pure functions that evaluate preconditions without side effects.
package message

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// PruneContext provides context for close (prune) guards.
type PruneContext struct {
	MessageID   int64
	HasAudio    bool
	HasChildren bool
}

// CanPrune evaluates whether a message can be removed from its chain.
// Rules:
// - The message must be empty (no audio payload)
// - The message must be a leaf (no children)
func CanPrune(ctx PruneContext) GuardResult {
	if ctx.HasAudio {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("message %d has a recording and cannot be closed", ctx.MessageID),
		}
	}

	if ctx.HasChildren {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("message %d has children and cannot be closed", ctx.MessageID),
		}
	}

	return GuardResult{Allowed: true}
}

// SproutContext provides context for sprout (manual branch) guards.
type SproutContext struct {
	MessageID int64
	HasAudio  bool
}

// CanSprout evaluates whether a message can grow an additional empty child.
// Only filled messages fork; an empty slot is itself the pending branch.
func CanSprout(ctx SproutContext) GuardResult {
	if !ctx.HasAudio {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("message %d is empty and cannot sprout a branch", ctx.MessageID),
		}
	}

	return GuardResult{Allowed: true}
}
