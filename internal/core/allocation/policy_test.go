package allocation

import (
	"errors"
	"math/rand"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestPickNextChain_Sequential(t *testing.T) {
	chains := []int64{1, 2, 3}

	got, err := PickNextChain(chains, nil, OrderSequential, testRNG())
	if err != nil {
		t.Fatalf("PickNextChain failed: %v", err)
	}
	if got != 1 {
		t.Errorf("picked chain %d, want 1", got)
	}

	got, err = PickNextChain(chains, map[int64]bool{1: true}, OrderSequential, testRNG())
	if err != nil {
		t.Fatalf("PickNextChain failed: %v", err)
	}
	if got != 2 {
		t.Errorf("picked chain %d, want 2", got)
	}

	got, err = PickNextChain(chains, map[int64]bool{1: true, 2: true}, OrderSequential, testRNG())
	if err != nil {
		t.Fatalf("PickNextChain failed: %v", err)
	}
	if got != 3 {
		t.Errorf("picked chain %d, want 3", got)
	}
}

func TestPickNextChain_NoChains(t *testing.T) {
	_, err := PickNextChain(nil, nil, OrderSequential, testRNG())
	if !errors.Is(err, ErrNoChains) {
		t.Errorf("err = %v, want ErrNoChains", err)
	}
}

func TestPickNextChain_AllExcluded(t *testing.T) {
	chains := []int64{1, 2}
	excluded := map[int64]bool{1: true, 2: true}

	_, err := PickNextChain(chains, excluded, OrderSequential, testRNG())
	if !errors.Is(err, ErrAllChainsVisited) {
		t.Errorf("err = %v, want ErrAllChainsVisited", err)
	}
}

func TestPickNextChain_RandomStaysInRemaining(t *testing.T) {
	chains := []int64{1, 2, 3, 4}
	excluded := map[int64]bool{2: true, 4: true}
	rng := testRNG()

	for i := 0; i < 50; i++ {
		got, err := PickNextChain(chains, excluded, OrderRandom, rng)
		if err != nil {
			t.Fatalf("PickNextChain failed: %v", err)
		}
		if got != 1 && got != 3 {
			t.Fatalf("picked excluded chain %d", got)
		}
	}
}

func TestSelectEmptyMessage_Youngest(t *testing.T) {
	slots := []Slot{
		{ID: 10, Generation: 5},
		{ID: 11, Generation: 4},
		{ID: 12, Generation: 4},
	}

	got, err := SelectEmptyMessage(slots, SelectYoungest, testRNG())
	if err != nil {
		t.Fatalf("SelectEmptyMessage failed: %v", err)
	}
	// Ties broken by insertion order
	if got != 11 {
		t.Errorf("selected message %d, want 11", got)
	}
}

func TestSelectEmptyMessage_NoSlots(t *testing.T) {
	_, err := SelectEmptyMessage(nil, SelectYoungest, testRNG())
	if !errors.Is(err, ErrNoEmptyMessage) {
		t.Errorf("err = %v, want ErrNoEmptyMessage", err)
	}
}

func TestSelectEmptyMessage_RandomCoversAll(t *testing.T) {
	slots := []Slot{
		{ID: 1, Generation: 0},
		{ID: 2, Generation: 1},
		{ID: 3, Generation: 2},
	}
	rng := testRNG()

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		got, err := SelectEmptyMessage(slots, SelectRandom, rng)
		if err != nil {
			t.Fatalf("SelectEmptyMessage failed: %v", err)
		}
		seen[got] = true
	}
	if len(seen) != 3 {
		t.Errorf("random selection hit %d distinct slots over 100 draws, want 3", len(seen))
	}
}
