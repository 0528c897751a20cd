package blockdag

import (
	"testing"

	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/util/daghash"
)

// TestBlueSetCachePinning verifies that shrinking the blue set cache to a
// single evictable entry changes no consensus output, and that the blue
// sets of selected-parent-chain blocks are pinned so eviction pressure
// can never reach them.
func TestBlueSetCachePinning(t *testing.T) {
	paramsTiny := testParams(1, 100)
	paramsTiny.BlueSetCacheSize = 1
	paramsBig := testParams(1, 100)

	dagTiny := newTestDAG(t, paramsTiny)
	dagBig := newTestDAG(t, paramsBig)
	genesisHash := paramsTiny.GenesisHash

	// A chain with two side blocks, one of which a merge block pulls in
	// as a red.
	chain1 := buildBlock(1, genesisHash)
	chain2 := buildBlock(2, chain1.BlockHash())
	chain3 := buildBlock(3, chain2.BlockHash())
	side1 := buildBlock(10, genesisHash)
	side2 := buildBlock(11, chain1.BlockHash())
	merge := buildBlock(12, chain3.BlockHash(), side2.BlockHash())

	blocks := []*domainmessage.MsgBlock{chain1, chain2, chain3, side1, side2, merge}
	hashes := []*daghash.Hash{genesisHash}
	for _, block := range blocks {
		for _, dag := range []*BlockDAG{dagTiny, dagBig} {
			isNew, err := dag.ProcessBlock(block)
			if err != nil {
				t.Fatalf("TestBlueSetCachePinning: ProcessBlock: %+v", err)
			}
			if !isNew {
				t.Fatalf("TestBlueSetCachePinning: block %s was unexpectedly known",
					block.BlockHash())
			}
		}
		hashes = append(hashes, block.BlockHash())
	}

	// Churn the tiny cache: every query of an unpinned block competes
	// for its single LRU slot.
	for i := 0; i < 3; i++ {
		for _, hash := range hashes {
			if _, err := dagTiny.BlueSet(hash); err != nil {
				t.Fatalf("TestBlueSetCachePinning: BlueSet: %+v", err)
			}
		}
	}

	for _, hash := range hashes {
		tinyScore, err := dagTiny.BlueScore(hash)
		if err != nil {
			t.Fatalf("TestBlueSetCachePinning: BlueScore: %+v", err)
		}
		bigScore, err := dagBig.BlueScore(hash)
		if err != nil {
			t.Fatalf("TestBlueSetCachePinning: BlueScore: %+v", err)
		}
		if tinyScore != bigScore {
			t.Errorf("TestBlueSetCachePinning: blue score of %s differs under "+
				"eviction pressure: %d vs %d", hash, tinyScore, bigScore)
		}

		tinySet, err := dagTiny.BlueSet(hash)
		if err != nil {
			t.Fatalf("TestBlueSetCachePinning: BlueSet: %+v", err)
		}
		bigSet, err := dagBig.BlueSet(hash)
		if err != nil {
			t.Fatalf("TestBlueSetCachePinning: BlueSet: %+v", err)
		}
		if !daghash.HashesEqual(tinySet, bigSet) {
			t.Errorf("TestBlueSetCachePinning: blue set of %s differs under "+
				"eviction pressure: %s vs %s", hash,
				daghash.Strings(tinySet), daghash.Strings(bigSet))
		}
	}

	tinyOrder, err := dagTiny.TotalOrder(merge.BlockHash())
	if err != nil {
		t.Fatalf("TestBlueSetCachePinning: TotalOrder: %+v", err)
	}
	bigOrder, err := dagBig.TotalOrder(merge.BlockHash())
	if err != nil {
		t.Fatalf("TestBlueSetCachePinning: TotalOrder: %+v", err)
	}
	if !daghash.HashesEqual(tinyOrder, bigOrder) {
		t.Fatalf("TestBlueSetCachePinning: total order differs under eviction "+
			"pressure:\n%s\nvs\n%s",
			daghash.Strings(tinyOrder), daghash.Strings(bigOrder))
	}

	// Exactly the selected-parent-chain blocks must be pinned.
	for _, hash := range hashes {
		inChain, err := dagTiny.IsInSelectedParentChain(hash)
		if err != nil {
			t.Fatalf("TestBlueSetCachePinning: IsInSelectedParentChain: %+v", err)
		}
		_, pinned := dagTiny.blueSetCache.pinned[*hash]
		if inChain && !pinned {
			t.Errorf("TestBlueSetCachePinning: chain block %s is not pinned", hash)
		}
		if !inChain && pinned {
			t.Errorf("TestBlueSetCachePinning: non-chain block %s is pinned", hash)
		}
	}
}
