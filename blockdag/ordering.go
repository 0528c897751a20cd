package blockdag

import (
	"sort"

	"github.com/latticenet/latticed/util/daghash"
)

// TotalOrder returns a deterministic linear sequence of all blocks
// reachable from the block with the given target hash, including the
// target itself. Any two instances holding the same DAG contents produce
// the identical sequence for the same target, which is what lets the
// execution layer on different nodes apply transactions in the same
// order.
//
// The sequence is built by walking the target's selected parent chain
// from genesis: each chain block is emitted, followed by its mergeset
// sorted by (blue score descending, hash ascending), where each mergeset
// block's not-yet-emitted ancestry is fully expanded, oldest first,
// before the block itself. Every block appears exactly once; first
// occurrence wins.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) TotalOrder(targetHash *daghash.Hash) ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	target, ok := dag.index.LookupNode(targetHash)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", targetHash)
	}

	// The selected parent chain from genesis to the target, oldest
	// first.
	chain := make([]*blockNode, 0, target.chainHeight+1)
	for node := target; node != nil; node = node.selectedParent {
		chain = append(chain, node)
	}
	for left, right := 0, len(chain)-1; left < right; left, right = left+1, right-1 {
		chain[left], chain[right] = chain[right], chain[left]
	}

	emitted := newBlockSet()
	order := make([]*daghash.Hash, 0, len(chain))
	emit := func(node *blockNode) {
		emitted.add(node)
		order = append(order, node.hash)
	}

	for _, chainBlock := range chain {
		if !emitted.contains(chainBlock) {
			emit(chainBlock)
		}

		mergeSet := chainBlock.mergeSet()
		sort.Slice(mergeSet, func(i, j int) bool {
			if mergeSet[i].blueScore == mergeSet[j].blueScore {
				return daghash.Less(mergeSet[i].hash, mergeSet[j].hash)
			}
			return mergeSet[i].blueScore > mergeSet[j].blueScore
		})

		for _, mergeBlock := range mergeSet {
			if emitted.contains(mergeBlock) {
				continue
			}
			dag.emitWithAncestry(mergeBlock, emitted, emit)
		}
	}
	return order, nil
}

// emitWithAncestry emits all not-yet-emitted ancestors of node followed
// by node itself, oldest first. The ancestry is gathered with an explicit
// work list and drained through a min-heap on (blue score, hash), which
// is a valid topological order because blue score strictly decreases
// along every parent edge.
func (dag *BlockDAG) emitWithAncestry(node *blockNode, emitted blockSet, emit func(*blockNode)) {
	pending := newUpHeap()
	pending.push(node)
	visited := blockSetFromSlice(node)

	queue := []*blockNode{node}
	for len(queue) > 0 {
		var current *blockNode
		current, queue = queue[0], queue[1:]

		for _, parent := range current.parents {
			if visited.contains(parent) || emitted.contains(parent) {
				continue
			}
			visited.add(parent)
			pending.push(parent)
			queue = append(queue, parent)
		}
	}

	for pending.Len() > 0 {
		emit(pending.pop())
	}
}
