package blockdag

import (
	"fmt"
	"time"

	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/util/daghash"
)

// blockNode represents a block within the block DAG.
type blockNode struct {
	// parents is the parent blocks for this node.
	parents blockSet

	// selectedParent is the selected parent for this node.
	// The selected parent is the parent that if chosen will maximize
	// the blue score of this block.
	selectedParent *blockNode

	// children are all the blocks that refer to this block as a parent.
	children blockSet

	// blues are all blue blocks in this block's mergeset, ordered by
	// the worklist order in which the blue-set calculation admitted
	// them. The selected parent is always blues[0].
	blues []*blockNode

	// reds are all red blocks in this block's mergeset: the mergeset
	// blocks that violated the k-cluster rule.
	reds []*blockNode

	// blueScore is the count of all the blue blocks in this block's
	// past, not including the block itself.
	blueScore uint64

	// chainHeight is the number of hops you need to go down the
	// selected parent chain in order to get to the genesis block.
	chainHeight uint64

	// hash is the double sha256 of the block header.
	hash *daghash.Hash

	// Some fields from the block header to aid in reconstructing
	// headers from memory. These must be treated as immutable.
	version        int32
	nonce          uint64
	timestamp      int64
	hashMerkleRoot *daghash.Hash
}

// initBlockNode initializes a block node from the given header and parent
// nodes. This function is NOT safe for concurrent access. It must only be
// called when initially creating a node.
func initBlockNode(node *blockNode, blockHeader *domainmessage.BlockHeader, parents blockSet) {
	*node = blockNode{
		parents:   parents,
		children:  newBlockSet(),
		timestamp: time.Now().UnixMilli(),
	}

	// blockHeader is nil only for the virtual block.
	if blockHeader != nil {
		node.hash = blockHeader.BlockHash()
		node.version = blockHeader.Version
		node.nonce = blockHeader.Nonce
		node.timestamp = blockHeader.Timestamp.UnixMilli()
		node.hashMerkleRoot = blockHeader.HashMerkleRoot
	} else {
		node.hash = &daghash.ZeroHash
	}
}

// updateParentsChildren updates the node's parents to point to new node.
func (node *blockNode) updateParentsChildren() {
	for _, parent := range node.parents {
		parent.children.add(node)
	}
}

// Header constructs a block header from the node and returns it.
//
// This function is safe for concurrent access.
func (node *blockNode) Header() *domainmessage.BlockHeader {
	// No lock is needed because all accessed fields are immutable.
	return &domainmessage.BlockHeader{
		Version:        node.version,
		ParentHashes:   node.ParentHashes(),
		HashMerkleRoot: node.hashMerkleRoot,
		Timestamp:      time.UnixMilli(node.timestamp),
		Nonce:          node.nonce,
	}
}

// SelectedAncestor returns the ancestor block node at the provided
// chain-height by following the selected-parent chain backwards from this
// node. The returned block will be nil when a height is requested that is
// greater than the height of the passed node.
//
// This function is safe for concurrent access.
func (node *blockNode) SelectedAncestor(chainHeight uint64) *blockNode {
	if chainHeight > node.chainHeight {
		return nil
	}

	n := node
	for ; n != nil && n.chainHeight != chainHeight; n = n.selectedParent {
		// Intentionally left blank
	}

	return n
}

// RelativeAncestor returns the ancestor block node a relative 'distance' of
// chain-blocks before this node. This is equivalent to calling
// SelectedAncestor with the node's chain-height minus provided distance.
//
// This function is safe for concurrent access.
func (node *blockNode) RelativeAncestor(distance uint64) *blockNode {
	if distance > node.chainHeight {
		return nil
	}
	return node.SelectedAncestor(node.chainHeight - distance)
}

// less returns true iff this node is strictly less than the other node in
// the canonical (blueScore, hash) order that breaks blue-score ties by the
// lexicographically smaller hash.
func (node *blockNode) less(other *blockNode) bool {
	if node.blueScore == other.blueScore {
		return daghash.Less(node.hash, other.hash)
	}
	return node.blueScore < other.blueScore
}

// mergeSet returns this node's mergeset: the blocks in its past that are
// not in its selected parent's past, including the selected parent itself.
// The returned slice is freshly allocated on every call.
func (node *blockNode) mergeSet() []*blockNode {
	mergeSet := make([]*blockNode, 0, len(node.blues)+len(node.reds))
	mergeSet = append(mergeSet, node.blues...)
	mergeSet = append(mergeSet, node.reds...)
	return mergeSet
}

// ParentHashes returns the hashes of this node's parents.
func (node *blockNode) ParentHashes() []*daghash.Hash {
	return node.parents.hashes()
}

// isGenesis returns if the current block is the genesis block.
func (node *blockNode) isGenesis() bool {
	return len(node.parents) == 0
}

func (node *blockNode) String() string {
	return fmt.Sprintf("%s (%d)", node.hash, node.blueScore)
}
