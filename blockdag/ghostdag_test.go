package blockdag

import (
	"testing"

	"github.com/latticenet/latticed/util/daghash"
)

// TestKClusterRejection covers the k=0 degenerate case: any mergeset
// block with a non-empty anticone relative to the existing blues must be
// classified red and excluded from the blue set.
func TestKClusterRejection(t *testing.T) {
	params := testParams(0, 100)
	dag := newTestDAG(t, params)
	genesisHash := params.GenesisHash

	hashX := addBlock(t, dag, 1, genesisHash)
	hashY := addBlock(t, dag, 2, genesisHash)
	hashZ := addBlock(t, dag, 3, hashX, hashY)

	selectedParent, err := dag.SelectedParentHash(hashZ)
	if err != nil {
		t.Fatalf("TestKClusterRejection: SelectedParentHash: %+v", err)
	}
	other := hashX
	if selectedParent.IsEqual(hashX) {
		other = hashY
	}

	// With k=0 the non-selected fork block is in the selected parent's
	// anticone and must be red, so it contributes nothing to the merge
	// block's score.
	blueScoreZ, err := dag.BlueScore(hashZ)
	if err != nil {
		t.Fatalf("TestKClusterRejection: BlueScore: %+v", err)
	}
	if blueScoreZ != 2 {
		t.Errorf("TestKClusterRejection: merge block blue score is %d, want 2", blueScoreZ)
	}

	blueSet, err := dag.BlueSet(hashZ)
	if err != nil {
		t.Fatalf("TestKClusterRejection: BlueSet: %+v", err)
	}
	if containsHash(blueSet, other) {
		t.Errorf("TestKClusterRejection: red block %s appears in the blue set %s",
			other, daghash.Strings(blueSet))
	}
	if !containsHash(blueSet, selectedParent) || !containsHash(blueSet, genesisHash) {
		t.Errorf("TestKClusterRejection: blue set %s is missing chain blocks",
			daghash.Strings(blueSet))
	}

	// The red block is still part of the DAG and of the total order.
	order, err := dag.TotalOrder(hashZ)
	if err != nil {
		t.Fatalf("TestKClusterRejection: TotalOrder: %+v", err)
	}
	if !containsHash(order, other) {
		t.Errorf("TestKClusterRejection: red block %s is missing from the total order", other)
	}
}

// TestKClusterAdmission is the counterpart of TestKClusterRejection:
// with k=1 the same topology admits the fork block as blue.
func TestKClusterAdmission(t *testing.T) {
	params := testParams(1, 100)
	dag := newTestDAG(t, params)
	genesisHash := params.GenesisHash

	hashX := addBlock(t, dag, 1, genesisHash)
	hashY := addBlock(t, dag, 2, genesisHash)
	hashZ := addBlock(t, dag, 3, hashX, hashY)

	blueScoreZ, err := dag.BlueScore(hashZ)
	if err != nil {
		t.Fatalf("TestKClusterAdmission: BlueScore: %+v", err)
	}
	if blueScoreZ != 3 {
		t.Errorf("TestKClusterAdmission: merge block blue score is %d, want 3", blueScoreZ)
	}

	blueSet, err := dag.BlueSet(hashZ)
	if err != nil {
		t.Fatalf("TestKClusterAdmission: BlueSet: %+v", err)
	}
	if !containsHash(blueSet, hashX) || !containsHash(blueSet, hashY) {
		t.Errorf("TestKClusterAdmission: blue set %s is missing a fork block",
			daghash.Strings(blueSet))
	}
}

// TestTipTieBreakStability verifies that among tips with equal blue
// score the selected tip is always the lexicographically smaller hash,
// regardless of arrival order.
func TestTipTieBreakStability(t *testing.T) {
	params := testParams(2, 100)
	genesisHash := params.GenesisHash

	blockA := buildBlock(10, genesisHash)
	blockB := buildBlock(11, genesisHash)
	smaller := blockA.BlockHash()
	if daghash.Less(blockB.BlockHash(), smaller) {
		smaller = blockB.BlockHash()
	}

	dagAB := newTestDAG(t, params)
	dagBA := newTestDAG(t, params)

	if _, err := dagAB.ProcessBlock(blockA); err != nil {
		t.Fatalf("TestTipTieBreakStability: %+v", err)
	}
	if _, err := dagAB.ProcessBlock(blockB); err != nil {
		t.Fatalf("TestTipTieBreakStability: %+v", err)
	}
	if _, err := dagBA.ProcessBlock(blockB); err != nil {
		t.Fatalf("TestTipTieBreakStability: %+v", err)
	}
	if _, err := dagBA.ProcessBlock(blockA); err != nil {
		t.Fatalf("TestTipTieBreakStability: %+v", err)
	}

	if !dagAB.SelectedTipHash().IsEqual(smaller) {
		t.Errorf("TestTipTieBreakStability: selected tip is %s, want the smaller hash %s",
			dagAB.SelectedTipHash(), smaller)
	}
	if !dagBA.SelectedTipHash().IsEqual(dagAB.SelectedTipHash()) {
		t.Errorf("TestTipTieBreakStability: arrival order changed the selected tip: %s vs %s",
			dagBA.SelectedTipHash(), dagAB.SelectedTipHash())
	}
}

// TestMonotonicBlueScore verifies blue score strictly grows along every
// selected parent edge in a mixed topology.
func TestMonotonicBlueScore(t *testing.T) {
	params := testParams(1, 100)
	dag := newTestDAG(t, params)
	genesisHash := params.GenesisHash

	hashes := []*daghash.Hash{genesisHash}
	hashes = append(hashes, addChain(t, dag, 3, 1, genesisHash)...)
	forkHash := addBlock(t, dag, 10, hashes[1])
	hashes = append(hashes, forkHash)
	hashes = append(hashes, addBlock(t, dag, 11, hashes[3], forkHash))

	for _, hash := range hashes[1:] {
		selectedParent, err := dag.SelectedParentHash(hash)
		if err != nil {
			t.Fatalf("TestMonotonicBlueScore: SelectedParentHash: %+v", err)
		}
		blockScore, err := dag.BlueScore(hash)
		if err != nil {
			t.Fatalf("TestMonotonicBlueScore: BlueScore: %+v", err)
		}
		parentScore, err := dag.BlueScore(selectedParent)
		if err != nil {
			t.Fatalf("TestMonotonicBlueScore: BlueScore: %+v", err)
		}
		if blockScore <= parentScore {
			t.Errorf("TestMonotonicBlueScore: block %s has blue score %d, not above "+
				"its selected parent's %d", hash, blockScore, parentScore)
		}
	}
}
