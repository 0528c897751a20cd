package dagconfig

import (
	"time"

	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/util/daghash"
)

// genesisCoinbaseTx is the single transaction carried by the genesis block.
var genesisCoinbaseTx = domainmessage.NewMsgTx([]byte("lattice genesis"))

// genesisBlock defines the genesis block of the main network. It carries no
// parents, which is what marks it as genesis.
var genesisBlock = domainmessage.MsgBlock{
	Header: domainmessage.BlockHeader{
		Version:        1,
		ParentHashes:   []*daghash.Hash{},
		HashMerkleRoot: genesisCoinbaseTx.TxID(),
		Timestamp:      time.Unix(1690000000, 0),
		Nonce:          0,
	},
	Transactions: []*domainmessage.MsgTx{genesisCoinbaseTx},
}

// genesisHash is derived from the header rather than hardcoded so that the
// two can never drift apart.
var genesisHash = genesisBlock.BlockHash()

// simnetGenesisBlock defines the genesis block of the simulation network.
var simnetGenesisBlock = domainmessage.MsgBlock{
	Header: domainmessage.BlockHeader{
		Version:        1,
		ParentHashes:   []*daghash.Hash{},
		HashMerkleRoot: genesisCoinbaseTx.TxID(),
		Timestamp:      time.Unix(1690000000, 0),
		Nonce:          1,
	},
	Transactions: []*domainmessage.MsgTx{genesisCoinbaseTx},
}

var simnetGenesisHash = simnetGenesisBlock.BlockHash()
