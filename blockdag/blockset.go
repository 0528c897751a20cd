package blockdag

import (
	"strings"

	"github.com/latticenet/latticed/util/daghash"
)

// blockSet implements a basic unsorted set of blocks.
type blockSet map[daghash.Hash]*blockNode

// newBlockSet creates a new, empty blockSet.
func newBlockSet() blockSet {
	return map[daghash.Hash]*blockNode{}
}

// blockSetFromSlice converts a slice of blocks into an unordered set
// represented as map.
func blockSetFromSlice(blocks ...*blockNode) blockSet {
	set := newBlockSet()
	for _, block := range blocks {
		set.add(block)
	}
	return set
}

// add adds a block to this blockSet.
func (bs blockSet) add(block *blockNode) {
	bs[*block.hash] = block
}

// remove removes a block from this blockSet, if exists.
// Does nothing if this set does not contain the block.
func (bs blockSet) remove(block *blockNode) {
	delete(bs, *block.hash)
}

// clone clones this block set.
func (bs blockSet) clone() blockSet {
	clone := newBlockSet()
	for _, block := range bs {
		clone.add(block)
	}
	return clone
}

// subtract returns the difference between the blockSet and another blockSet.
func (bs blockSet) subtract(other blockSet) blockSet {
	diff := newBlockSet()
	for _, block := range bs {
		if !other.contains(block) {
			diff.add(block)
		}
	}
	return diff
}

// addSet adds all blocks in other set to this set.
func (bs blockSet) addSet(other blockSet) {
	for _, block := range other {
		bs.add(block)
	}
}

// addSlice adds provided slice to this set.
func (bs blockSet) addSlice(slice []*blockNode) {
	for _, block := range slice {
		bs.add(block)
	}
}

// union returns a blockSet that contains all blocks included in this set,
// the other set, or both.
func (bs blockSet) union(other blockSet) blockSet {
	union := bs.clone()
	union.addSet(other)
	return union
}

// contains returns true iff this set contains block.
func (bs blockSet) contains(block *blockNode) bool {
	_, ok := bs[*block.hash]
	return ok
}

// containsHash returns true iff this set contains a block with the given
// hash.
func (bs blockSet) containsHash(hash *daghash.Hash) bool {
	_, ok := bs[*hash]
	return ok
}

// hashes returns the hashes of the blocks in this set, sorted so that the
// result is deterministic.
func (bs blockSet) hashes() []*daghash.Hash {
	hashes := make([]*daghash.Hash, 0, len(bs))
	for _, block := range bs {
		hashes = append(hashes, block.hash)
	}
	daghash.Sort(hashes)
	return hashes
}

// toSlice converts a set of blocks into a slice.
func (bs blockSet) toSlice() []*blockNode {
	slice := make([]*blockNode, 0, len(bs))
	for _, block := range bs {
		slice = append(slice, block)
	}
	return slice
}

// first returns the first block in this set or nil if this set is empty.
func (bs blockSet) first() *blockNode {
	for _, block := range bs {
		return block
	}
	return nil
}

// bluest returns the block in this set with the highest blue score, where
// ties are broken by the lexicographically smaller hash.
func (bs blockSet) bluest() *blockNode {
	var bluestNode *blockNode
	for _, node := range bs {
		if bluestNode == nil ||
			node.blueScore > bluestNode.blueScore ||
			(node.blueScore == bluestNode.blueScore && daghash.Less(node.hash, bluestNode.hash)) {
			bluestNode = node
		}
	}
	return bluestNode
}

// anyChildInSet returns true iff any child of block is contained within
// this set.
func (bs blockSet) anyChildInSet(block *blockNode) bool {
	for _, child := range block.children {
		if bs.contains(child) {
			return true
		}
	}
	return false
}

func (bs blockSet) String() string {
	ids := make([]string, 0, len(bs))
	for _, hash := range bs.hashes() {
		ids = append(ids, hash.String())
	}
	return strings.Join(ids, ",")
}
