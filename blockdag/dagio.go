package blockdag

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/util/daghash"
)

// dagState is the persisted summary of the DAG, stored alongside the
// blocks themselves. The blocks are the source of truth: on restore the
// whole DAG is rebuilt by replaying them, and the summary is only used to
// verify that the replay converged to the state that was last saved.
type dagState struct {
	TipHashes         []*daghash.Hash
	LastFinalityPoint *daghash.Hash
}

// initDAGState either restores the DAG from the database or, when the
// database is empty or absent, processes the configured genesis block
// into the fresh DAG.
func (dag *BlockDAG) initDAGState() error {
	if dag.databaseContext != nil {
		serializedState, err := dag.databaseContext.FetchDAGState()
		if err != nil {
			return err
		}
		if serializedState != nil {
			return dag.restoreDAG(serializedState)
		}
	}

	log.Infof("Processing genesis block %s", dag.Params.GenesisHash)
	isNew, err := dag.processBlock(dag.Params.GenesisBlock, true)
	if err != nil {
		return err
	}
	if !isNew {
		return errors.New("genesis block is unexpectedly already known to an empty DAG")
	}
	return nil
}

// restoreDAG rebuilds the in-memory DAG by replaying every stored block
// in insertion order, which is a valid topological order because each
// block was stored only after its parents. The replay runs through the
// regular processing path, so every consensus field is recomputed rather
// than trusted from disk.
func (dag *BlockDAG) restoreDAG(serializedState []byte) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "restoreDAG")
	defer onEnd()

	var state dagState
	err := json.Unmarshal(serializedState, &state)
	if err != nil {
		return errors.Wrap(err, "could not deserialize DAG state")
	}

	log.Infof("Restoring DAG from the database...")
	blocksRestored := uint64(0)
	err = dag.databaseContext.ForEachBlockInInsertionOrder(func(hash *daghash.Hash, blockBytes []byte) error {
		block := &domainmessage.MsgBlock{}
		err := block.Deserialize(bytes.NewReader(blockBytes))
		if err != nil {
			return errors.Wrapf(err, "could not deserialize block %s", hash)
		}

		isNew, err := dag.processBlock(block, false)
		if err != nil {
			return errors.Wrapf(err, "could not replay block %s", hash)
		}
		if !isNew {
			return errors.Errorf("block %s appears more than once in the insertion log", hash)
		}

		blocksRestored++
		if blocksRestored%10000 == 0 {
			log.Infof("Restored %d blocks", blocksRestored)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if blocksRestored == 0 {
		return errors.New("DAG state exists but no blocks are stored")
	}

	// The replay must converge to exactly the persisted summary.
	if !daghash.HashesEqual(dag.virtual.tips().hashes(), state.TipHashes) {
		return errors.Errorf("restored tips %s do not match the saved DAG state %s",
			daghash.Strings(dag.virtual.tips().hashes()), daghash.Strings(state.TipHashes))
	}
	if !dag.lastFinalityPoint.hash.IsEqual(state.LastFinalityPoint) {
		return errors.Errorf("restored finality point %s does not match the saved DAG state %s",
			dag.lastFinalityPoint.hash, state.LastFinalityPoint)
	}

	log.Infof("DAG restored: %d blocks", blocksRestored)
	return nil
}

// saveState persists the newly accepted block and the updated DAG
// summary in a single atomic write. It is a no-op for a databaseless
// DAG.
//
// This function MUST be called with the DAG state lock held (for writes).
func (dag *BlockDAG) saveState(node *blockNode, block *domainmessage.MsgBlock) error {
	if dag.databaseContext == nil {
		return nil
	}

	var blockBuf bytes.Buffer
	err := block.Serialize(&blockBuf)
	if err != nil {
		return err
	}

	state := &dagState{
		TipHashes:         dag.virtual.tips().hashes(),
		LastFinalityPoint: dag.lastFinalityPoint.hash,
	}
	serializedState, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "could not serialize DAG state")
	}
	return dag.databaseContext.StoreBlockAndDAGState(node.hash, blockBuf.Bytes(), serializedState)
}

// fetchBlock loads a block's bytes from the database and deserializes
// it.
func (dag *BlockDAG) fetchBlock(hash *daghash.Hash) (*domainmessage.MsgBlock, error) {
	blockBytes, err := dag.databaseContext.FetchBlock(hash)
	if err != nil {
		return nil, err
	}
	if blockBytes == nil {
		return nil, errors.Errorf("block %s is missing from the database", hash)
	}
	block := &domainmessage.MsgBlock{}
	err = block.Deserialize(bytes.NewReader(blockBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "could not deserialize block %s", hash)
	}
	return block, nil
}
