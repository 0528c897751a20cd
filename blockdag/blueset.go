package blockdag

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/latticenet/latticed/util/daghash"
)

// blueSetCache holds materialized blue sets keyed by block hash. Entries
// for selected-parent-chain blocks are pinned so that the incremental
// blue-set construction below never has to rebuild the chain's sets from
// genesis, while sets of other blocks live in an LRU and may be evicted.
type blueSetCache struct {
	cache  *lru.Cache
	pinned map[daghash.Hash]blockSet
}

func newBlueSetCache(size int) (*blueSetCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &blueSetCache{
		cache:  cache,
		pinned: make(map[daghash.Hash]blockSet),
	}, nil
}

func (c *blueSetCache) get(hash *daghash.Hash) (blockSet, bool) {
	if set, ok := c.pinned[*hash]; ok {
		return set, true
	}
	if entry, ok := c.cache.Get(*hash); ok {
		return entry.(blockSet), true
	}
	return nil, false
}

func (c *blueSetCache) put(hash *daghash.Hash, set blockSet) {
	if _, ok := c.pinned[*hash]; ok {
		c.pinned[*hash] = set
		return
	}
	c.cache.Add(*hash, set)
}

// pin moves the entry for the given hash out of the LRU so it can no
// longer be evicted. It is a no-op if no entry exists.
func (c *blueSetCache) pin(hash *daghash.Hash) {
	if _, ok := c.pinned[*hash]; ok {
		return
	}
	if entry, ok := c.cache.Get(*hash); ok {
		c.pinned[*hash] = entry.(blockSet)
		c.cache.Remove(*hash)
	}
}

// unpin moves the entry for the given hash back into the LRU. It is a
// no-op if the hash is not pinned.
func (c *blueSetCache) unpin(hash *daghash.Hash) {
	set, ok := c.pinned[*hash]
	if !ok {
		return
	}
	delete(c.pinned, *hash)
	c.cache.Add(*hash, set)
}

// blueSet returns the set of blue blocks in node's past. The blue set of
// genesis is empty, and the blue set of any other block is its selected
// parent's blue set plus its own mergeset blues.
//
// The result is built incrementally from the nearest selected-parent
// ancestor whose blue set is cached, and every set built along the way is
// cached as well. Callers must not mutate the returned set.
//
// This function MUST be called with the DAG state lock held (for reads).
func (dag *BlockDAG) blueSet(node *blockNode) blockSet {
	// Walk down the selected parent chain until a cached entry or
	// genesis is found.
	uncached := []*blockNode{}
	current := node
	var baseSet blockSet
	for current != nil {
		if set, ok := dag.blueSetCache.get(current.hash); ok {
			baseSet = set
			break
		}
		uncached = append(uncached, current)
		current = current.selectedParent
	}
	if baseSet == nil {
		baseSet = newBlockSet()
	}

	// Roll forward, extending the base set one chain block at a time.
	// Each extension clones so that cached sets stay immutable.
	for i := len(uncached) - 1; i >= 0; i-- {
		chainNode := uncached[i]
		set := baseSet.clone()
		set.addSlice(chainNode.blues)
		dag.blueSetCache.put(chainNode.hash, set)
		baseSet = set
	}
	return baseSet
}

// BlueSet returns the hashes of all blue blocks in the past of the block
// with the given hash.
//
// This function is safe for concurrent access.
func (dag *BlockDAG) BlueSet(hash *daghash.Hash) ([]*daghash.Hash, error) {
	dag.dagLock.RLock()
	defer dag.dagLock.RUnlock()

	node, ok := dag.index.LookupNode(hash)
	if !ok {
		return nil, errNotInDAG("block %s is not in the DAG", hash)
	}
	return dag.blueSet(node).hashes(), nil
}
