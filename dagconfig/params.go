package dagconfig

import (
	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/util/daghash"
)

// KType is the size of the GHOSTDAG k parameter. A dedicated type makes
// it impossible to accidentally pass a full-width integer where the
// consensus parameter is expected.
type KType uint8

// Params defines a lattice network by its consensus parameters. Params
// values are treated as immutable once handed to a DAG instance.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// K defines the maximum anticone size a blue block may have within
	// the blue set of its merging block.
	K KType

	// MaxMergeParents is the maximum number of parents a block may
	// reference.
	MaxMergeParents int

	// ConfirmationDepth is the selected-parent-chain depth at which a
	// chain block becomes final.
	ConfirmationDepth uint64

	// GenesisBlock is the first block of the network.
	GenesisBlock *domainmessage.MsgBlock

	// GenesisHash is the hash of GenesisBlock.
	GenesisHash *daghash.Hash

	// BlueSetCacheSize is the number of blue-set entries retained in
	// memory beyond the pinned selected-parent-chain entries.
	BlueSetCacheSize int
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:              "lattice-mainnet",
	K:                 18,
	MaxMergeParents:   10,
	ConfirmationDepth: 100,
	GenesisBlock:      &genesisBlock,
	GenesisHash:       genesisHash,
	BlueSetCacheSize:  2000,
}

// SimnetParams defines the network parameters for the simulation network.
// The small k and confirmation depth make consensus edge cases reachable
// with a handful of blocks.
var SimnetParams = Params{
	Name:              "lattice-simnet",
	K:                 1,
	MaxMergeParents:   10,
	ConfirmationDepth: 5,
	GenesisBlock:      &simnetGenesisBlock,
	GenesisHash:       simnetGenesisHash,
	BlueSetCacheSize:  200,
}
