package blockdag

import (
	"fmt"

	"github.com/latticenet/latticed/util/daghash"
)

// checkFinalityRules checks that the new node does not violate the
// finality rules: its selected parent chain must pass through the last
// finality point, so that accepting the node can never require the
// selected parent chain to diverge before it.
//
// This function MUST be called with the DAG state lock held (for writes).
func (dag *BlockDAG) checkFinalityRules(node *blockNode) error {
	if node.isGenesis() {
		return nil
	}

	finalityPoint := dag.lastFinalityPoint
	ancestor := node.SelectedAncestor(finalityPoint.chainHeight)
	if ancestor == nil || !ancestor.hash.IsEqual(finalityPoint.hash) {
		// A block that tries to rewrite finalized history is either an
		// attack or a serious bug on the sending side. Either way it
		// deserves more than a trace line.
		log.Warnf("Rejecting block %s: its selected parent chain bypasses "+
			"the finality point %s", node.hash, finalityPoint.hash)
		str := fmt.Sprintf("block %s is not a descendant of the last finality point %s",
			node.hash, finalityPoint.hash)
		return ruleError(ErrFinality, str)
	}
	return nil
}

// updateFinalityPoint moves the finality point forward if the selected
// tip's chain has grown deep enough: the new finality point is the
// selected ancestor of the selected tip at confirmation-depth hops below
// it. The finality point never moves backwards, since every accepted
// block's chain is known to pass through the previous one.
//
// It returns the new finality point, or nil if the point did not move.
// The caller is responsible for notifying subscribers, so that an
// advance that is later rolled back is never announced.
//
// This function MUST be called with the DAG state lock held (for writes).
func (dag *BlockDAG) updateFinalityPoint() *blockNode {
	selectedTip := dag.virtual.SelectedTip()
	if selectedTip == nil || selectedTip.chainHeight < dag.Params.ConfirmationDepth {
		return nil
	}

	newFinalityPoint := selectedTip.RelativeAncestor(dag.Params.ConfirmationDepth)
	if newFinalityPoint == nil ||
		newFinalityPoint.chainHeight <= dag.lastFinalityPoint.chainHeight {
		return nil
	}

	dag.lastFinalityPoint = newFinalityPoint
	log.Debugf("Finality point moved to %s (chain height %d)",
		newFinalityPoint.hash, newFinalityPoint.chainHeight)
	return newFinalityPoint
}

// IsFinalized returns whether the block with the given hash is final:
// on the selected parent chain at or below the current finality point.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) IsFinalized(hash *daghash.Hash) (bool, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return false, errNotInDAG("block %s is not in the DAG", hash)
	}
	return dag.virtual.selectedParentChainSet.contains(node) &&
		node.chainHeight <= dag.lastFinalityPoint.chainHeight, nil
}

// LastFinalityPointHash returns the hash of the current finality point:
// the deepest block guaranteed irreversible.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) LastFinalityPointHash() *daghash.Hash {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	if dag.lastFinalityPoint == nil {
		return nil
	}
	return dag.lastFinalityPoint.hash
}
