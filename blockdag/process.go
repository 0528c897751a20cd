package blockdag

import (
	"fmt"
	"time"

	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/util/daghash"
)

// ProcessBlock is the main workhorse for handling insertion of new blocks
// into the block DAG. It includes functionality such as rejecting
// malformed blocks, rejecting blocks with unknown parents, running the
// blue set calculation, enforcing the finality rules, updating the
// virtual block and advancing the finality point, all atomically.
//
// The returned isNew flag reports whether the block was inserted:
// submitting a block that is already in the DAG is a no-op rather than an
// error.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) ProcessBlock(block *domainmessage.MsgBlock) (isNew bool, err error) {
	dag.dagLock.Lock()
	defer dag.dagLock.Unlock()
	return dag.processBlock(block, true)
}

func (dag *BlockDAG) processBlock(block *domainmessage.MsgBlock, persist bool) (isNew bool, err error) {
	blockHash := block.BlockHash()
	log.Tracef("Processing block %s", blockHash)

	// The block may already be known. This is not an error: the caller
	// simply learns nothing new.
	if dag.index.HaveBlock(blockHash) {
		log.Debugf("Already have block %s", blockHash)
		return false, nil
	}

	header := &block.Header
	err = dag.checkBlockHeaderSanity(header, blockHash)
	if err != nil {
		return false, err
	}

	parents, err := dag.lookupParentNodes(header)
	if err != nil {
		return false, err
	}

	// Running the blue set calculation is what attaches the block to
	// its place in the DAG: selected parent, blues, reds and blue score
	// are all determined here, exactly once.
	node := dag.newBlockNode(header, parents)

	err = dag.checkFinalityRules(node)
	if err != nil {
		return false, err
	}

	chainUpdates, err := dag.applyDAGChanges(node, block, persist)
	if err != nil {
		return false, err
	}

	dag.sendNotification(NTBlockAdded, &BlockAddedNotificationData{
		BlockHash: node.hash,
		BlueScore: node.blueScore,
		Timestamp: time.UnixMilli(node.timestamp),
	})
	if len(chainUpdates.addedChainBlockHashes) > 0 {
		dag.sendNotification(NTChainChanged, &ChainChangedNotificationData{
			RemovedChainBlockHashes: chainUpdates.removedChainBlockHashes,
			AddedChainBlockHashes:   chainUpdates.addedChainBlockHashes,
		})
	}

	log.Debugf("Accepted block %s with blue score %d", blockHash, node.blueScore)
	return true, nil
}

// checkBlockHeaderSanity performs the context-free checks on a block
// header: parent count bounds and parent uniqueness. A block without
// parents is only accepted when it is the network's genesis block and the
// DAG is still empty.
func (dag *BlockDAG) checkBlockHeaderSanity(header *domainmessage.BlockHeader, blockHash *daghash.Hash) error {
	if header.IsGenesis() {
		if !blockHash.IsEqual(dag.Params.GenesisHash) {
			str := fmt.Sprintf("block %s has no parents and is not the genesis block", blockHash)
			return ruleError(ErrNoParents, str)
		}
		if dag.genesis != nil {
			str := fmt.Sprintf("the genesis block %s already exists", blockHash)
			return ruleError(ErrDuplicateBlock, str)
		}
		return nil
	}

	if len(header.ParentHashes) > dag.Params.MaxMergeParents {
		str := fmt.Sprintf("block %s points to %d parents while the maximum is %d",
			blockHash, len(header.ParentHashes), dag.Params.MaxMergeParents)
		return ruleError(ErrTooManyParents, str)
	}

	seen := make(map[daghash.Hash]struct{}, len(header.ParentHashes))
	for _, parentHash := range header.ParentHashes {
		if _, ok := seen[*parentHash]; ok {
			str := fmt.Sprintf("block %s points to parent %s more than once", blockHash, parentHash)
			return ruleError(ErrDuplicateParents, str)
		}
		seen[*parentHash] = struct{}{}
	}
	return nil
}

// lookupParentNodes returns the block nodes of the header's parents. If
// any parent is unknown, an ErrParentBlockUnknown rule error naming all
// missing parents is returned so the caller knows exactly what to fetch.
func (dag *BlockDAG) lookupParentNodes(header *domainmessage.BlockHeader) (blockSet, error) {
	parents := newBlockSet()
	var missing []*daghash.Hash
	for _, parentHash := range header.ParentHashes {
		node, ok := dag.index.LookupNode(parentHash)
		if !ok {
			missing = append(missing, parentHash)
			continue
		}
		parents.add(node)
	}
	if len(missing) > 0 {
		str := fmt.Sprintf("block references unknown parents %s", daghash.Strings(missing))
		return nil, ruleError(ErrParentBlockUnknown, str)
	}
	return parents, nil
}

// applyDAGChanges connects the fully-resolved node to the DAG: reverse
// edges, block index, the virtual block's tip set, blue set cache
// pinning, the finality point and persistence.
//
// The virtual block and the finality point are staged first so the new
// tip set can be persisted, and are rolled back if persistence fails.
// The node only reaches the block index and the reverse edges once the
// block is safely on disk, so a caller that received an error can be
// sure the in-memory DAG does not run ahead of the database.
//
// This function MUST be called with the DAG state lock held (for writes).
func (dag *BlockDAG) applyDAGChanges(node *blockNode, block *domainmessage.MsgBlock, persist bool) (*chainUpdates, error) {
	if node.isGenesis() {
		dag.genesis = node
		dag.lastFinalityPoint = node
	}

	if dag.virtual == nil {
		dag.virtual = newVirtualBlock()
	}
	oldTips := dag.virtual.tips().clone()
	oldFinalityPoint := dag.lastFinalityPoint

	chainUpdates := dag.virtual.AddTip(dag, node)
	newFinalityPoint := dag.updateFinalityPoint()

	if persist {
		err := dag.saveState(node, block)
		if err != nil {
			if len(oldTips) == 0 {
				// The failed block is genesis: revert to the
				// pre-genesis state of a lazily-created virtual.
				dag.virtual = nil
				dag.genesis = nil
			} else {
				dag.virtual.SetTips(dag, oldTips)
			}
			dag.lastFinalityPoint = oldFinalityPoint
			return nil, err
		}
	}

	node.updateParentsChildren()
	dag.index.AddNode(node)

	// Keep the blue sets of selected-parent-chain blocks out of the
	// LRU's reach: the incremental blue set construction leans on them
	// for every new block.
	for _, removedHash := range chainUpdates.removedChainBlockHashes {
		dag.blueSetCache.unpin(removedHash)
	}
	for _, addedHash := range chainUpdates.addedChainBlockHashes {
		addedNode, ok := dag.index.LookupNode(addedHash)
		if ok {
			dag.blueSet(addedNode)
			dag.blueSetCache.pin(addedHash)
		}
	}

	if newFinalityPoint != nil {
		dag.sendNotification(NTFinalityAdvanced, &FinalityAdvancedNotificationData{
			FinalityBlockHash: newFinalityPoint.hash,
			FinalityBlueScore: newFinalityPoint.blueScore,
			Timestamp:         time.UnixMilli(newFinalityPoint.timestamp),
		})
	}

	return chainUpdates, nil
}
