package daghash

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/pkg/errors"
)

// HashSize is the size in bytes of a Hash.
const HashSize = 32

// Hash is the 32-byte identifier of a block or transaction.
type Hash [HashSize]byte

// ZeroHash is the all-zeroes hash. It is the parent hash carried by
// no block; genesis has an empty parent list instead.
var ZeroHash Hash

// String returns the Hash as the hexadecimal string of the hash bytes.
func (hash Hash) String() string {
	return hex.EncodeToString(hash[:])
}

// CloneBytes returns a copy of the bytes which represent the hash.
//
// It is generally cheaper to just slice the hash directly, thereby reusing
// the same bytes rather than calling this method.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return errors.Errorf("invalid hash length of %d, want %d",
			len(newHash), HashSize)
	}
	copy(hash[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var hash Hash
	err := hash.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &hash, nil
}

// NewHashFromStr creates a Hash from a hash string. The string must be the
// full hexadecimal representation of the hash bytes.
func NewHashFromStr(src string) (*Hash, error) {
	expectedLength := HashSize * 2
	if len(src) != expectedLength {
		return nil, errors.Errorf("hash string length is %d, while it "+
			"should be %d", len(src), expectedLength)
	}

	hashBytes, err := hex.DecodeString(src)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewHash(hashBytes)
}

// Less returns true if hashA is lexicographically smaller than hashB. It is
// the canonical tie-break over hashes and must sort identically on every
// node.
func Less(hashA, hashB *Hash) bool {
	return bytes.Compare(hashA[:], hashB[:]) < 0
}

// CloneHashes returns a clone of the given hash slice. Note that since
// Hash values are never mutated once created, the clone is shallow.
func CloneHashes(hashes []*Hash) []*Hash {
	clone := make([]*Hash, len(hashes))
	copy(clone, hashes)
	return clone
}

// HashesEqual returns whether the given hash slices are equal element-wise.
func HashesEqual(a, b []*Hash) bool {
	if len(a) != len(b) {
		return false
	}
	for i, hash := range a {
		if !hash.IsEqual(b[i]) {
			return false
		}
	}
	return true
}

// Sort sorts a slice of hashes in place, lexicographically ascending.
func Sort(hashes []*Hash) {
	sort.Slice(hashes, func(i, j int) bool {
		return Less(hashes[i], hashes[j])
	})
}

// Strings converts a slice of hashes to a slice of their string
// representations. Useful mainly for logging.
func Strings(hashes []*Hash) []string {
	strs := make([]string, len(hashes))
	for i, hash := range hashes {
		strs[i] = hash.String()
	}
	return strs
}
