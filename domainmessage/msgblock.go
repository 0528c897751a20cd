package domainmessage

import (
	"io"

	"github.com/pkg/errors"

	"github.com/latticenet/latticed/util/daghash"
)

// MaxTxPerBlock is the maximum number of transactions a block may carry.
const MaxTxPerBlock = 1 << 16

// MsgTx is an opaque transaction. The ordering core never interprets the
// payload, it only carries it and derives a transaction ID from it.
type MsgTx struct {
	Payload []byte
}

// TxID returns the transaction identifier: the double-sha256 of the payload.
func (tx *MsgTx) TxID() *daghash.Hash {
	return daghash.DoubleHashP(tx.Payload)
}

// NewMsgTx returns a transaction wrapping the given payload.
func NewMsgTx(payload []byte) *MsgTx {
	return &MsgTx{Payload: payload}
}

// MsgBlock is a block: a header plus the transactions it merges into the
// ledger.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// BlockHash returns the hash of the block's header.
func (msg *MsgBlock) BlockHash() *daghash.Hash {
	return msg.Header.BlockHash()
}

// AddTransaction appends tx to the block's transaction list.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// Serialize encodes the block into w.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	err := msg.Header.serialize(w)
	if err != nil {
		return err
	}
	err = writeElements(w, uint32(len(msg.Transactions)))
	if err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		err = writeVarBytes(w, tx.Payload)
		if err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r, the inverse of Serialize.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	err := msg.Header.deserialize(r)
	if err != nil {
		return err
	}
	var numTxs uint32
	err = readElements(r, &numTxs)
	if err != nil {
		return err
	}
	if numTxs > MaxTxPerBlock {
		return errors.Errorf("block contains %d transactions while the maximum is %d",
			numTxs, MaxTxPerBlock)
	}
	msg.Transactions = make([]*MsgTx, numTxs)
	for i := range msg.Transactions {
		payload, err := readVarBytes(r)
		if err != nil {
			return err
		}
		msg.Transactions[i] = &MsgTx{Payload: payload}
	}
	return nil
}

// NewMsgBlock returns a block with the given header and no transactions.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{Header: *header}
}
