package blockdag

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/latticenet/latticed/dagconfig"
	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/infrastructure/db/dbaccess"
	"github.com/latticenet/latticed/util/daghash"
)

// BlockDAG provides functions for working with the lattice block DAG.
// It includes functionality such as inserting blocks, resolving each
// block's blue set and blue score, tracking the selected parent chain,
// producing the total order over blocks, and advancing the finality
// point.
type BlockDAG struct {
	// Params identifies the network the DAG is associated with. The
	// parameters are treated as immutable.
	Params *dagconfig.Params

	// databaseContext is the database the DAG persists blocks and its
	// state into. It may be nil, in which case the DAG lives purely in
	// memory.
	databaseContext *dbaccess.DatabaseContext

	// dagLock protects concurrent access to the DAG. Block insertion,
	// the blue set calculation and the finality update happen atomically
	// under the write lock, so readers never observe a block whose
	// consensus fields are only partially written.
	dagLock sync.RWMutex

	index        *blockIndex
	virtual      *virtualBlock
	genesis      *blockNode
	blueSetCache *blueSetCache

	// lastFinalityPoint is the latest block on the selected parent
	// chain that is guaranteed irreversible.
	lastFinalityPoint *blockNode

	notificationsLock sync.RWMutex
	notifications     []NotificationCallback
}

// Config is a descriptor which specifies the BlockDAG instance
// configuration.
type Config struct {
	// Params identifies the network the DAG is associated with.
	//
	// This field is required.
	Params *dagconfig.Params

	// DatabaseContext is the database the DAG persists into. When nil
	// the DAG is not persisted and starts empty on every construction.
	//
	// This field is optional.
	DatabaseContext *dbaccess.DatabaseContext
}

// New returns a BlockDAG instance using the provided configuration
// details. If the provided database already holds DAG state, the DAG is
// restored from it, otherwise the configured genesis block is processed
// into the new DAG.
func New(config *Config) (*BlockDAG, error) {
	if config == nil || config.Params == nil {
		return nil, errors.New("blockdag.New: no network parameters specified")
	}

	blueSetCache, err := newBlueSetCache(config.Params.BlueSetCacheSize)
	if err != nil {
		return nil, err
	}

	dag := &BlockDAG{
		Params:          config.Params,
		databaseContext: config.DatabaseContext,
		index:           newBlockIndex(),
		blueSetCache:    blueSetCache,
	}

	err = dag.initDAGState()
	if err != nil {
		return nil, err
	}

	log.Infof("DAG state (%s): %d blocks, selected tip %s",
		dag.Params.Name, dag.BlockCount(), dag.virtual.SelectedTip().hash)
	return dag, nil
}

// newBlockNode creates a block node attached to this DAG for the given
// header and parent set, running the blue set calculation over it.
//
// This function MUST be called with the DAG state lock held (for writes).
func (dag *BlockDAG) newBlockNode(header *domainmessage.BlockHeader, parents blockSet) *blockNode {
	node := &blockNode{}
	initBlockNode(node, header, parents)
	if len(parents) > 0 {
		selectedParent, blues, reds, blueScore := dag.ghostdag(node)
		node.selectedParent = selectedParent
		node.blues = blues
		node.reds = reds
		node.blueScore = blueScore
		node.chainHeight = selectedParent.chainHeight + 1
	}
	return node
}

// IsInDAG determines whether a block with the given hash exists in the
// DAG.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) IsInDAG(hash *daghash.Hash) bool {
	return dag.index.HaveBlock(hash)
}

// BlockCount returns the number of blocks in the DAG.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) BlockCount() uint64 {
	return dag.index.BlockCount()
}

// TipHashes returns the hashes of the DAG's current tips: the blocks not
// yet referenced as a parent by any accepted block.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) TipHashes() []*daghash.Hash {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()
	return dag.virtual.tips().hashes()
}

// SelectedTipHash returns the hash of the DAG's selected tip: the tip
// with the highest blue score, where ties are broken by the
// lexicographically smaller hash.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) SelectedTipHash() *daghash.Hash {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()
	return dag.virtual.SelectedTip().hash
}

// BlueScore returns the blue score of the block with the given hash.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) BlueScore(hash *daghash.Hash) (uint64, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return 0, errNotInDAG("block %s is not in the DAG", hash)
	}
	return node.blueScore, nil
}

// ChainHeight returns the selected-parent-chain height of the block with
// the given hash: the number of selected-parent hops between the block
// and genesis.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) ChainHeight(hash *daghash.Hash) (uint64, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return 0, errNotInDAG("block %s is not in the DAG", hash)
	}
	return node.chainHeight, nil
}

// SelectedParentHash returns the hash of the selected parent of the
// block with the given hash. The selected parent of genesis is nil.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) SelectedParentHash(hash *daghash.Hash) (*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hash)
	}
	if node.selectedParent == nil {
		return nil, nil
	}
	return node.selectedParent.hash, nil
}

// ChildHashes returns the hashes of all the known children of the block
// with the given hash.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) ChildHashes(hash *daghash.Hash) ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hash)
	}
	return node.children.hashes(), nil
}

// ParentHashes returns the hashes of the parents of the block with the
// given hash.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) ParentHashes(hash *daghash.Hash) ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hash)
	}
	return node.ParentHashes(), nil
}

// BlockHeaderByHash returns the header of the block with the given hash.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) BlockHeaderByHash(hash *daghash.Hash) (*domainmessage.BlockHeader, error) {
	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hash)
	}
	return node.Header(), nil
}

// BlockByHash returns the full block with the given hash, fetched from
// the database. It requires the DAG to have been constructed with a
// database context.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) BlockByHash(hash *daghash.Hash) (*domainmessage.MsgBlock, error) {
	if !dag.index.HaveBlock(hash) {
		return nil, errNotInDAG("block %s is not in the DAG", hash)
	}
	if dag.databaseContext == nil {
		return nil, errors.New("block payloads are not retained by a databaseless DAG")
	}
	return dag.fetchBlock(hash)
}
