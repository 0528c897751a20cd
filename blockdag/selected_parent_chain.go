package blockdag

import (
	"github.com/pkg/errors"

	"github.com/latticenet/latticed/util/daghash"
)

// SelectedParentChain returns the selected parent chain starting from
// blockHash (exclusive) up to the selected tip (inclusive). If blockHash
// is nil then the genesis block is used. If blockHash is not within the
// selected parent chain, it goes down blockHash's own selected parent
// chain, collecting each block hash in removedChainHashes, until reaching
// a block within the main selected parent chain.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) SelectedParentChain(blockHash *daghash.Hash) ([]*daghash.Hash, []*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()
	return dag.selectedParentChain(blockHash)
}

func (dag *BlockDAG) selectedParentChain(blockHash *daghash.Hash) ([]*daghash.Hash, []*daghash.Hash, error) {
	if blockHash == nil {
		blockHash = dag.genesis.hash
	}
	node, ok := dag.index.LookupNode(blockHash)
	if !ok {
		return nil, nil, errNotInDAG("block %s is not in the DAG", blockHash)
	}

	// If the block is not in the selected parent chain, go down its own
	// selected parent chain until we find a block that is.
	var removedChainHashes []*daghash.Hash
	for !dag.virtual.selectedParentChainSet.contains(node) {
		removedChainHashes = append(removedChainHashes, node.hash)
		if node.selectedParent == nil {
			return nil, nil, errors.Errorf("block %s is not connected to the selected parent chain", blockHash)
		}
		node = node.selectedParent
	}

	// Find the index of the node in the selected parent chain slice.
	nodeIndex := len(dag.virtual.selectedParentChainSlice) - 1
	for nodeIndex >= 0 {
		if dag.virtual.selectedParentChainSlice[nodeIndex] == node {
			break
		}
		nodeIndex--
	}

	// Copy all the chain hashes starting from nodeIndex (exclusive).
	addedChainHashes := make([]*daghash.Hash, len(dag.virtual.selectedParentChainSlice)-nodeIndex-1)
	for i, chainNode := range dag.virtual.selectedParentChainSlice[nodeIndex+1:] {
		addedChainHashes[i] = chainNode.hash
	}

	return removedChainHashes, addedChainHashes, nil
}

// IsInSelectedParentChain returns whether or not the block with the given
// hash is found in the selected parent chain. Note that this method
// returns an error if the given blockHash does not exist within the block
// index.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) IsInSelectedParentChain(blockHash *daghash.Hash) (bool, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(blockHash)
	if !ok {
		return false, errNotInDAG("block %s is not in the DAG", blockHash)
	}
	return dag.virtual.selectedParentChainSet.contains(node), nil
}

// GetBlockPath returns the selected-parent path between the two given
// blocks, oldest first and inclusive on both ends. One of the blocks must
// be a selected ancestor of the other, otherwise an error is returned.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) GetBlockPath(hashA, hashB *daghash.Hash) ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	nodeA, ok := dag.index.LookupNode(hashA)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hashA)
	}
	nodeB, ok := dag.index.LookupNode(hashB)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hashB)
	}

	lower, higher := nodeA, nodeB
	if lower.chainHeight > higher.chainHeight {
		lower, higher = higher, lower
	}
	if higher.SelectedAncestor(lower.chainHeight) != lower {
		return nil, errors.Errorf("blocks %s and %s are not on the same selected parent path",
			hashA, hashB)
	}

	path := make([]*daghash.Hash, higher.chainHeight-lower.chainHeight+1)
	for node, i := higher, len(path)-1; i >= 0; node, i = node.selectedParent, i-1 {
		path[i] = node.hash
	}
	return path, nil
}
