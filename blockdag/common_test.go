package blockdag

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/latticenet/latticed/dagconfig"
	"github.com/latticenet/latticed/domainmessage"
	"github.com/latticenet/latticed/util/daghash"
)

// testParams returns a copy of the mainnet parameters with the given k
// and confirmation depth, so tests can reach consensus edge cases with a
// small number of blocks.
func testParams(k dagconfig.KType, confirmationDepth uint64) *dagconfig.Params {
	params := dagconfig.MainnetParams
	params.K = k
	params.ConfirmationDepth = confirmationDepth
	return &params
}

// newTestDAG returns a DAG instance that lives purely in memory.
func newTestDAG(t *testing.T, params *dagconfig.Params) *BlockDAG {
	t.Helper()
	dag, err := New(&Config{Params: params})
	if err != nil {
		t.Fatalf("newTestDAG: New: unexpected error: %+v", err)
	}
	return dag
}

// buildBlock assembles a block over the given parents. The nonce makes
// otherwise-identical blocks distinct, and doubles as the transaction
// payload so each block carries a unique merkle root.
func buildBlock(nonce uint64, parentHashes ...*daghash.Hash) *domainmessage.MsgBlock {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, nonce)
	tx := domainmessage.NewMsgTx(payload)

	block := domainmessage.NewMsgBlock(&domainmessage.BlockHeader{
		Version:        1,
		ParentHashes:   parentHashes,
		HashMerkleRoot: tx.TxID(),
		Timestamp:      time.Unix(1690000100, 0),
		Nonce:          nonce,
	})
	block.AddTransaction(tx)
	return block
}

// addBlock builds a block over the given parents, processes it and fails
// the test on any outcome other than a fresh acceptance.
func addBlock(t *testing.T, dag *BlockDAG, nonce uint64, parentHashes ...*daghash.Hash) *daghash.Hash {
	t.Helper()
	block := buildBlock(nonce, parentHashes...)
	isNew, err := dag.ProcessBlock(block)
	if err != nil {
		t.Fatalf("addBlock: ProcessBlock: unexpected error: %+v", err)
	}
	if !isNew {
		t.Fatalf("addBlock: block %s was unexpectedly already known", block.BlockHash())
	}
	return block.BlockHash()
}

// addChain extends the DAG with a linear chain of the given length
// starting from the given parent, and returns the chain hashes oldest
// first.
func addChain(t *testing.T, dag *BlockDAG, length int, firstNonce uint64, parent *daghash.Hash) []*daghash.Hash {
	t.Helper()
	chain := make([]*daghash.Hash, 0, length)
	for i := 0; i < length; i++ {
		parent = addBlock(t, dag, firstNonce+uint64(i), parent)
		chain = append(chain, parent)
	}
	return chain
}

// checkRuleError ensures the given error is a RuleError with the wanted
// code.
func checkRuleError(t *testing.T, err error, wantCode ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("checkRuleError: expected a rule error with code %s, got no error", wantCode)
	}
	ruleErr, ok := err.(RuleError)
	if !ok {
		t.Fatalf("checkRuleError: expected a RuleError, got %T: %v", err, err)
	}
	if ruleErr.ErrorCode != wantCode {
		t.Fatalf("checkRuleError: expected error code %s, got %s (%s)",
			wantCode, ruleErr.ErrorCode, ruleErr.Description)
	}
}

// containsHash reports whether hashes contains the given hash.
func containsHash(hashes []*daghash.Hash, hash *daghash.Hash) bool {
	for _, candidate := range hashes {
		if candidate.IsEqual(hash) {
			return true
		}
	}
	return false
}
