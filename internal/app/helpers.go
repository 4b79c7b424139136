// Package app implements the primary ports: service orchestration over the
// repository and store adapters.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/telephone/internal/ports/secondary"
)

// audioPathFor returns the canonical storage path for a recording:
// game-{game}/chain-{chain}/{generation}.wav. Tests and the export tooling
// rely on this layout.
func audioPathFor(gameID, chainID int64, generation int) string {
	return fmt.Sprintf("game-%d/chain-%d/%d.wav", gameID, chainID, generation)
}

// replicateMessage spawns one empty child under a filled message, keeping
// the chain growable. Returns the new child's ID.
func replicateMessage(ctx context.Context, repo secondary.MessageRepository, parent *secondary.MessageRecord) (int64, error) {
	id, err := repo.Create(ctx, &secondary.MessageRecord{
		ChainID:    parent.ChainID,
		ParentID:   parent.ID,
		Generation: parent.Generation + 1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replicate message %d: %w", parent.ID, err)
	}
	return id, nil
}

// completionCode derives the code players hand to external reward systems:
// G{game}-{dash-joined message ids in fill order}. The format is a stable
// contract with the verification tooling.
func completionCode(gameID int64, messageIDs []int64) string {
	parts := make([]string, len(messageIDs))
	for i, id := range messageIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("G%d-%s", gameID, strings.Join(parts, "-"))
}
