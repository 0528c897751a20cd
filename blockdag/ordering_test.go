package blockdag

import (
	"testing"

	"github.com/latticenet/latticed/util/daghash"
)

// TestTotalOrderCompleteness builds a layered DAG and verifies that the
// total order of the final merge block contains every ancestor exactly
// once and never places a block before its selected parent.
func TestTotalOrderCompleteness(t *testing.T) {
	params := testParams(2, 100)
	dag := newTestDAG(t, params)
	genesisHash := params.GenesisHash

	// Three waves of parallel blocks, each wave merging the previous
	// one from two sides.
	wave1a := addBlock(t, dag, 1, genesisHash)
	wave1b := addBlock(t, dag, 2, genesisHash)
	wave1c := addBlock(t, dag, 3, genesisHash)
	wave2a := addBlock(t, dag, 4, wave1a, wave1b)
	wave2b := addBlock(t, dag, 5, wave1b, wave1c)
	target := addBlock(t, dag, 6, wave2a, wave2b)

	all := []*daghash.Hash{genesisHash, wave1a, wave1b, wave1c, wave2a, wave2b, target}

	order, err := dag.TotalOrder(target)
	if err != nil {
		t.Fatalf("TestTotalOrderCompleteness: TotalOrder: %+v", err)
	}

	if len(order) != len(all) {
		t.Fatalf("TestTotalOrderCompleteness: order has %d entries, want %d: %s",
			len(order), len(all), daghash.Strings(order))
	}
	position := make(map[daghash.Hash]int, len(order))
	for i, hash := range order {
		if _, seen := position[*hash]; seen {
			t.Fatalf("TestTotalOrderCompleteness: block %s emitted twice", hash)
		}
		position[*hash] = i
	}
	for _, hash := range all {
		if _, ok := position[*hash]; !ok {
			t.Fatalf("TestTotalOrderCompleteness: block %s is missing from the order", hash)
		}
	}

	// Every block must come after its selected parent. Note that a
	// chain block may legitimately precede its non-selected parents:
	// the contract emits each chain block before its own mergeset.
	for _, hash := range all[1:] {
		selectedParent, err := dag.SelectedParentHash(hash)
		if err != nil {
			t.Fatalf("TestTotalOrderCompleteness: SelectedParentHash: %+v", err)
		}
		if position[*selectedParent] >= position[*hash] {
			t.Errorf("TestTotalOrderCompleteness: block %s is ordered before "+
				"its selected parent %s", hash, selectedParent)
		}
	}

	if !order[0].IsEqual(genesisHash) {
		t.Errorf("TestTotalOrderCompleteness: order starts with %s, want genesis", order[0])
	}
}

// TestTotalOrderScopedToTarget verifies that ordering from a non-tip
// block only covers that block's past.
func TestTotalOrderScopedToTarget(t *testing.T) {
	params := testParams(2, 100)
	dag := newTestDAG(t, params)
	genesisHash := params.GenesisHash

	chain := addChain(t, dag, 4, 1, genesisHash)
	sideHash := addBlock(t, dag, 100, chain[0])

	order, err := dag.TotalOrder(chain[2])
	if err != nil {
		t.Fatalf("TestTotalOrderScopedToTarget: TotalOrder: %+v", err)
	}
	if len(order) != 4 {
		t.Fatalf("TestTotalOrderScopedToTarget: order has %d entries, want 4: %s",
			len(order), daghash.Strings(order))
	}
	if containsHash(order, sideHash) || containsHash(order, chain[3]) {
		t.Errorf("TestTotalOrderScopedToTarget: order %s contains blocks outside the "+
			"target's past", daghash.Strings(order))
	}
}

// TestTotalOrderUnknownTarget verifies the fail-fast contract on an
// unknown target hash.
func TestTotalOrderUnknownTarget(t *testing.T) {
	dag := newTestDAG(t, testParams(2, 100))

	_, err := dag.TotalOrder(&daghash.Hash{0xab, 0xcd})
	if !IsNotInDAGErr(err) {
		t.Fatalf("TestTotalOrderUnknownTarget: expected an ErrNotInDAG error, got %v", err)
	}
}

// TestTotalOrderStableUnderGrowth verifies that extending the DAG never
// changes the order already established for an older target.
func TestTotalOrderStableUnderGrowth(t *testing.T) {
	params := testParams(2, 100)
	dag := newTestDAG(t, params)
	genesisHash := params.GenesisHash

	hashX := addBlock(t, dag, 1, genesisHash)
	hashY := addBlock(t, dag, 2, genesisHash)
	target := addBlock(t, dag, 3, hashX, hashY)

	before, err := dag.TotalOrder(target)
	if err != nil {
		t.Fatalf("TestTotalOrderStableUnderGrowth: TotalOrder: %+v", err)
	}

	addChain(t, dag, 5, 10, target)

	after, err := dag.TotalOrder(target)
	if err != nil {
		t.Fatalf("TestTotalOrderStableUnderGrowth: TotalOrder: %+v", err)
	}
	if !daghash.HashesEqual(before, after) {
		t.Fatalf("TestTotalOrderStableUnderGrowth: the order of an old target changed "+
			"after new blocks arrived:\n%s\nvs\n%s",
			daghash.Strings(before), daghash.Strings(after))
	}
}
