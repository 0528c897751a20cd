package domainmessage

import (
	"bytes"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/latticenet/latticed/util/daghash"
)

// MaxNumParentBlocks is the maximum number of parent blocks a block may
// reference.
const MaxNumParentBlocks = 255

// BlockHeader defines information about a block. The header alone determines
// the block hash, so every consensus-relevant field lives here.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// ParentHashes are the hashes of the blocks this block references as
	// parents. Empty for the genesis block only.
	ParentHashes []*daghash.Hash

	// HashMerkleRoot is the merkle root of the block's transactions.
	HashMerkleRoot *daghash.Hash

	// Timestamp is the time the block was created.
	Timestamp time.Time

	// Nonce distinguishes otherwise-identical blocks.
	Nonce uint64
}

// NumParentBlocks returns the number of entries in ParentHashes.
func (h *BlockHeader) NumParentBlocks() byte {
	numParents := len(h.ParentHashes)
	if numParents > MaxNumParentBlocks {
		panic(errors.Errorf("number of parents is %d while the maximum is %d", numParents, MaxNumParentBlocks))
	}
	return byte(numParents)
}

// BlockHash computes the block identifier hash for the given block header:
// the double-sha256 of the serialized header.
func (h *BlockHeader) BlockHash() *daghash.Hash {
	var buf bytes.Buffer
	// Ignoring the error here is safe because writing to a bytes.Buffer
	// cannot fail.
	_ = h.serialize(&buf)
	return daghash.DoubleHashP(buf.Bytes())
}

// IsGenesis returns whether this header is of the genesis block: the only
// block allowed to carry no parents.
func (h *BlockHeader) IsGenesis() bool {
	return len(h.ParentHashes) == 0
}

// serialize encodes the header into w using the canonical little-endian
// format. The encoding is the hashing preimage, so any change to it is a
// consensus change.
func (h *BlockHeader) serialize(w io.Writer) error {
	err := writeElements(w, h.Version, h.NumParentBlocks())
	if err != nil {
		return err
	}
	for _, parent := range h.ParentHashes {
		err = writeHash(w, parent)
		if err != nil {
			return err
		}
	}
	err = writeHash(w, h.HashMerkleRoot)
	if err != nil {
		return err
	}
	return writeElements(w, h.Timestamp.UnixMilli(), h.Nonce)
}

// deserialize decodes a header from r, the inverse of serialize.
func (h *BlockHeader) deserialize(r io.Reader) error {
	var numParents byte
	err := readElements(r, &h.Version, &numParents)
	if err != nil {
		return err
	}
	h.ParentHashes = make([]*daghash.Hash, numParents)
	for i := range h.ParentHashes {
		h.ParentHashes[i], err = readHash(r)
		if err != nil {
			return err
		}
	}
	h.HashMerkleRoot, err = readHash(r)
	if err != nil {
		return err
	}
	var timestampMilli int64
	err = readElements(r, &timestampMilli, &h.Nonce)
	if err != nil {
		return err
	}
	h.Timestamp = time.UnixMilli(timestampMilli)
	return nil
}
