package allocation

import "math/rand"

// Chain ordering policies (games).
const (
	OrderSequential = "sequential"
	OrderRandom     = "random"
)

// Message selection policies (chains).
const (
	SelectYoungest = "youngest"
	SelectRandom   = "random"
)

// Slot is the minimal view of an empty message a chain can allocate.
type Slot struct {
	ID         int64
	Generation int
}

// PickNextChain determines which chain should be played next.
//
// chainIDs must be in creation order (ascending id); this makes the
// sequential policy stable across requests, which matters for reproducing
// the "first available" chain. excluded holds the player's receipts.
func PickNextChain(chainIDs []int64, excluded map[int64]bool, order string, rng *rand.Rand) (int64, error) {
	if len(chainIDs) == 0 {
		return 0, ErrNoChains
	}

	remaining := make([]int64, 0, len(chainIDs))
	for _, id := range chainIDs {
		if !excluded[id] {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return 0, ErrAllChainsVisited
	}

	if order == OrderRandom {
		return remaining[rng.Intn(len(remaining))], nil
	}
	return remaining[0], nil
}

// SelectEmptyMessage determines which empty slot should be filled next.
//
// slots must be in insertion order (ascending id). The youngest policy
// picks the smallest generation, breaking ties by insertion order, which
// keeps chains growing breadth-first instead of deepening one branch.
func SelectEmptyMessage(slots []Slot, method string, rng *rand.Rand) (int64, error) {
	if len(slots) == 0 {
		return 0, ErrNoEmptyMessage
	}

	if method == SelectRandom {
		return slots[rng.Intn(len(slots))].ID, nil
	}

	youngest := slots[0]
	for _, slot := range slots[1:] {
		if slot.Generation < youngest.Generation {
			youngest = slot
		}
	}
	return youngest.ID, nil
}
