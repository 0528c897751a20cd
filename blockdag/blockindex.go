package blockdag

import (
	"sync"

	"github.com/latticenet/latticed/util/daghash"
)

// blockIndex provides facilities for keeping track of an in-memory index
// of the block DAG.
type blockIndex struct {
	sync.RWMutex
	index map[daghash.Hash]*blockNode
}

// newBlockIndex returns a new empty instance of a block index.
func newBlockIndex() *blockIndex {
	return &blockIndex{
		index: make(map[daghash.Hash]*blockNode),
	}
}

// HaveBlock returns whether or not the block index contains the provided
// hash.
//
// This function is safe for concurrent access.
func (bi *blockIndex) HaveBlock(hash *daghash.Hash) bool {
	bi.RLock()
	defer bi.RUnlock()
	_, hasBlock := bi.index[*hash]
	return hasBlock
}

// LookupNode returns the block node identified by the provided hash. It
// will return nil if there is no entry for the hash.
//
// This function is safe for concurrent access.
func (bi *blockIndex) LookupNode(hash *daghash.Hash) (*blockNode, bool) {
	bi.RLock()
	defer bi.RUnlock()
	node, ok := bi.index[*hash]
	return node, ok
}

// AddNode adds the provided node to the block index.
//
// This function is safe for concurrent access.
func (bi *blockIndex) AddNode(node *blockNode) {
	bi.Lock()
	defer bi.Unlock()
	bi.index[*node.hash] = node
}

// BlockCount returns the number of blocks in the index.
//
// This function is safe for concurrent access.
func (bi *blockIndex) BlockCount() uint64 {
	bi.RLock()
	defer bi.RUnlock()
	return uint64(len(bi.index))
}
