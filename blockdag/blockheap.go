package blockdag

import (
	"container/heap"

	"github.com/latticenet/latticed/util/daghash"
)

// baseHeap is an implementation for heap.Interface that sorts blocks by
// their blue score.
type baseHeap []*blockNode

func (h baseHeap) Len() int      { return len(h) }
func (h baseHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *baseHeap) Push(x interface{}) {
	*h = append(*h, x.(*blockNode))
}

func (h *baseHeap) Pop() interface{} {
	oldHeap := *h
	oldLength := len(oldHeap)
	popped := oldHeap[oldLength-1]
	*h = oldHeap[0 : oldLength-1]
	return popped
}

// upHeap extends baseHeap to include a Less operation that traverses from
// bottom to top: lowest blue score first, ties broken by the
// lexicographically smaller hash.
type upHeap struct{ baseHeap }

func (h upHeap) Less(i, j int) bool {
	if h.baseHeap[i].blueScore == h.baseHeap[j].blueScore {
		return daghash.Less(h.baseHeap[i].hash, h.baseHeap[j].hash)
	}
	return h.baseHeap[i].blueScore < h.baseHeap[j].blueScore
}

// downHeap extends baseHeap to include a Less operation that traverses
// from top to bottom: highest blue score first, ties broken by the
// lexicographically smaller hash.
type downHeap struct{ baseHeap }

func (h downHeap) Less(i, j int) bool {
	if h.baseHeap[i].blueScore == h.baseHeap[j].blueScore {
		return daghash.Less(h.baseHeap[i].hash, h.baseHeap[j].hash)
	}
	return h.baseHeap[i].blueScore > h.baseHeap[j].blueScore
}

// blockHeap represents a mutable heap of blocks, sorted by their blue
// score.
type blockHeap struct {
	impl heap.Interface
}

// newDownHeap initializes and returns a new blockHeap that pops the
// highest blue score first.
func newDownHeap() blockHeap {
	h := blockHeap{impl: &downHeap{}}
	heap.Init(h.impl)
	return h
}

// newUpHeap initializes and returns a new blockHeap that pops the lowest
// blue score first.
func newUpHeap() blockHeap {
	h := blockHeap{impl: &upHeap{}}
	heap.Init(h.impl)
	return h
}

// pop removes the block at the top of this heap and returns it.
func (bh blockHeap) pop() *blockNode {
	return heap.Pop(bh.impl).(*blockNode)
}

// push pushes the block onto the heap.
func (bh blockHeap) push(block *blockNode) {
	heap.Push(bh.impl, block)
}

// pushSet pushes a blockSet to the heap.
func (bh blockHeap) pushSet(bs blockSet) {
	for _, block := range bs {
		heap.Push(bh.impl, block)
	}
}

// pushSlice pushes a slice of blocks to the heap.
func (bh blockHeap) pushSlice(slice []*blockNode) {
	for _, block := range slice {
		heap.Push(bh.impl, block)
	}
}

// Len returns the length of this heap.
func (bh blockHeap) Len() int {
	return bh.impl.Len()
}
