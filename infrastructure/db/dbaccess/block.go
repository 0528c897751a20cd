package dbaccess

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/latticenet/latticed/infrastructure/db/ldb"
	"github.com/latticenet/latticed/util/daghash"
)

var (
	blocksBucket     = []byte("blocks/")
	blockIndexBucket = []byte("block-index/")
	blockCountKey    = []byte("block-count")
)

func blockKey(hash *daghash.Hash) []byte {
	key := make([]byte, len(blocksBucket)+daghash.HashSize)
	copy(key, blocksBucket)
	copy(key[len(blocksBucket):], hash[:])
	return key
}

func blockIndexKey(index uint64) []byte {
	// Big-endian so that lexicographic key order is insertion order.
	key := make([]byte, len(blockIndexBucket)+8)
	copy(key, blockIndexBucket)
	binary.BigEndian.PutUint64(key[len(blockIndexBucket):], index)
	return key
}

// StoreBlockAndDAGState atomically stores the given block bytes keyed by
// the block's hash, appends the hash to the insertion log, bumps the
// block count and overwrites the DAG state summary. Returns an error if
// the block already exists.
//
// All four writes go through a single batch: a failure partway can never
// leave the insertion log and the summary disagreeing about which blocks
// exist.
func (ctx *DatabaseContext) StoreBlockAndDAGState(hash *daghash.Hash, blockBytes []byte, dagState []byte) error {
	// Make sure that the block does not already exist.
	exists, err := ctx.HasBlock(hash)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("block %s already exists", hash)
	}

	count, err := ctx.BlockCount()
	if err != nil {
		return err
	}
	countBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(countBytes, count+1)

	batch := &ldb.Batch{}
	batch.Put(blockKey(hash), blockBytes)
	batch.Put(blockIndexKey(count), hash[:])
	batch.Put(blockCountKey, countBytes)
	batch.Put(dagStateKey, dagState)
	return ctx.db.WriteBatch(batch)
}

// HasBlock returns whether the block of the given hash has been
// previously stored.
func (ctx *DatabaseContext) HasBlock(hash *daghash.Hash) (bool, error) {
	return ctx.db.Has(blockKey(hash))
}

// FetchBlock returns the bytes of the block with the given hash. Returns
// nil if the block had not been previously stored.
func (ctx *DatabaseContext) FetchBlock(hash *daghash.Hash) ([]byte, error) {
	return ctx.db.Get(blockKey(hash))
}

// BlockCount returns the number of blocks stored so far.
func (ctx *DatabaseContext) BlockCount() (uint64, error) {
	countBytes, err := ctx.db.Get(blockCountKey)
	if err != nil {
		return 0, err
	}
	if countBytes == nil {
		return 0, nil
	}
	if len(countBytes) != 8 {
		return 0, errors.Errorf("block count has unexpected length %d", len(countBytes))
	}
	return binary.BigEndian.Uint64(countBytes), nil
}

// ForEachBlockInInsertionOrder calls fn with each stored block's hash and
// bytes, in the order blocks were stored. The insertion log is a
// topological order of the DAG because every block is stored after its
// parents.
func (ctx *DatabaseContext) ForEachBlockInInsertionOrder(fn func(hash *daghash.Hash, blockBytes []byte) error) error {
	return ctx.db.ForEachWithPrefix(blockIndexBucket, func(_, value []byte) error {
		hash, err := daghash.NewHash(value)
		if err != nil {
			return err
		}
		blockBytes, err := ctx.FetchBlock(hash)
		if err != nil {
			return err
		}
		if blockBytes == nil {
			return errors.Errorf("insertion log references missing block %s", hash)
		}
		return fn(hash, blockBytes)
	})
}
