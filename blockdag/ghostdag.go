package blockdag

import (
	"sort"
)

// ghostdag runs the GHOSTDAG protocol on the given new node and returns
// its selected parent, its mergeset split into blues and reds, and its
// blue score.
//
// The protocol works as follows:
//  1. The selected parent is the parent with the highest blue score,
//     where ties are broken by the lexicographically smaller hash.
//  2. The mergeset is the set of blocks in the new node's past that are
//     not in the selected parent's past, including the selected parent.
//  3. Mergeset blocks other than the selected parent are considered in
//     ascending (blueScore, hash) order. A candidate is colored blue iff
//     the anticone of the candidate contains at most k blocks of the new
//     node's blue set as accumulated so far. All other mergeset blocks
//     are colored red.
//
// The returned blues slice always has the selected parent as its first
// element, and its order is the admission order of step 3.
//
// This function MUST be called with the DAG state lock held (for writes).
func (dag *BlockDAG) ghostdag(newNode *blockNode) (selectedParent *blockNode, blues, reds []*blockNode, blueScore uint64) {
	selectedParent = newNode.parents.bluest()

	candidates := dag.mergeSetCandidates(newNode, selectedParent)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].less(candidates[j])
	})

	// workingBlueSet is the blue set of the node under construction:
	// the selected parent's blue set, the selected parent itself, and
	// every candidate admitted so far.
	workingBlueSet := dag.blueSet(selectedParent).clone()
	workingBlueSet.add(selectedParent)

	blues = []*blockNode{selectedParent}
	reds = []*blockNode{}
	k := int(dag.Params.K)

	for _, candidate := range candidates {
		if dag.blueAnticoneWithinK(candidate, workingBlueSet, k) {
			blues = append(blues, candidate)
			workingBlueSet.add(candidate)
		} else {
			reds = append(reds, candidate)
		}
	}

	blueScore = selectedParent.blueScore + uint64(len(blues))
	return selectedParent, blues, reds, blueScore
}

// mergeSetCandidates returns the blocks in newNode's past that are not in
// selectedParent's past, excluding the selected parent itself. The walk
// starts from newNode's parents and expands backwards, stopping at any
// block that is an ancestor of the selected parent.
func (dag *BlockDAG) mergeSetCandidates(newNode *blockNode, selectedParent *blockNode) []*blockNode {
	candidates := []*blockNode{}
	mergeSet := newBlockSet()
	selectedParentPast := newBlockSet()
	queue := []*blockNode{}

	for _, parent := range newNode.parents {
		if parent == selectedParent {
			continue
		}
		mergeSet.add(parent)
		candidates = append(candidates, parent)
		queue = append(queue, parent)
	}

	for len(queue) > 0 {
		var current *blockNode
		current, queue = queue[0], queue[1:]

		for _, parent := range current.parents {
			if mergeSet.contains(parent) || selectedParentPast.contains(parent) {
				continue
			}
			if parent == selectedParent || isAncestorOf(parent, selectedParent) {
				selectedParentPast.add(parent)
				continue
			}
			mergeSet.add(parent)
			candidates = append(candidates, parent)
			queue = append(queue, parent)
		}
	}

	return candidates
}

// blueAnticoneWithinK returns whether the anticone of the given candidate
// contains at most k blocks of blueSet. It bails out as soon as the k+1'th
// anticone member is found.
func (dag *BlockDAG) blueAnticoneWithinK(candidate *blockNode, blueSet blockSet, k int) bool {
	anticoneSize := 0
	for _, blue := range blueSet {
		if isInAnticone(blue, candidate) {
			anticoneSize++
			if anticoneSize > k {
				return false
			}
		}
	}
	return true
}

// isInAnticone returns whether a and b are in each other's anticone:
// neither is an ancestor of the other.
func isInAnticone(a, b *blockNode) bool {
	return !isAncestorOf(a, b) && !isAncestorOf(b, a)
}

// isAncestorOf returns whether ancestor is a strict ancestor of node. The
// walk goes backwards from node through parents and prunes any block whose
// blue score is not greater than the ancestor's, since blue score strictly
// decreases along every parent edge.
func isAncestorOf(ancestor, node *blockNode) bool {
	if ancestor == node {
		return false
	}
	visited := newBlockSet()
	queue := []*blockNode{node}
	for len(queue) > 0 {
		var current *blockNode
		current, queue = queue[0], queue[1:]

		for _, parent := range current.parents {
			if parent == ancestor {
				return true
			}
			if visited.contains(parent) {
				continue
			}
			visited.add(parent)
			if parent.blueScore > ancestor.blueScore {
				queue = append(queue, parent)
			}
		}
	}
	return false
}
