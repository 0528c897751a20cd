package blockdag

import (
	"path/filepath"
	"testing"

	"github.com/latticenet/latticed/infrastructure/db/dbaccess"
	"github.com/latticenet/latticed/util/daghash"
)

// TestDAGRestore stores a DAG into a database, reopens it, and verifies
// the restored instance reproduces the original one bit for bit.
func TestDAGRestore(t *testing.T) {
	params := testParams(1, 3)
	dbPath := filepath.Join(t.TempDir(), "db")

	databaseContext, err := dbaccess.New(dbPath)
	if err != nil {
		t.Fatalf("TestDAGRestore: opening the database: %+v", err)
	}

	dag, err := New(&Config{Params: params, DatabaseContext: databaseContext})
	if err != nil {
		t.Fatalf("TestDAGRestore: New: %+v", err)
	}

	chain := addChain(t, dag, 5, 1, params.GenesisHash)
	forkHash := addBlock(t, dag, 10, chain[2])
	mergeHash := addBlock(t, dag, 11, chain[4], forkHash)

	tipsBefore := dag.TipHashes()
	orderBefore, err := dag.TotalOrder(mergeHash)
	if err != nil {
		t.Fatalf("TestDAGRestore: TotalOrder: %+v", err)
	}
	finalityBefore := dag.LastFinalityPointHash()
	blockCountBefore := dag.BlockCount()

	err = databaseContext.Close()
	if err != nil {
		t.Fatalf("TestDAGRestore: closing the database: %+v", err)
	}

	databaseContext, err = dbaccess.New(dbPath)
	if err != nil {
		t.Fatalf("TestDAGRestore: reopening the database: %+v", err)
	}
	defer databaseContext.Close()

	restored, err := New(&Config{Params: params, DatabaseContext: databaseContext})
	if err != nil {
		t.Fatalf("TestDAGRestore: restoring the DAG: %+v", err)
	}

	if restored.BlockCount() != blockCountBefore {
		t.Errorf("TestDAGRestore: restored %d blocks, want %d",
			restored.BlockCount(), blockCountBefore)
	}
	if !daghash.HashesEqual(restored.TipHashes(), tipsBefore) {
		t.Errorf("TestDAGRestore: restored tips %s, want %s",
			daghash.Strings(restored.TipHashes()), daghash.Strings(tipsBefore))
	}
	if !restored.LastFinalityPointHash().IsEqual(finalityBefore) {
		t.Errorf("TestDAGRestore: restored finality point %s, want %s",
			restored.LastFinalityPointHash(), finalityBefore)
	}

	orderAfter, err := restored.TotalOrder(mergeHash)
	if err != nil {
		t.Fatalf("TestDAGRestore: TotalOrder after restore: %+v", err)
	}
	if !daghash.HashesEqual(orderAfter, orderBefore) {
		t.Errorf("TestDAGRestore: restored total order differs:\n%s\nvs\n%s",
			daghash.Strings(orderAfter), daghash.Strings(orderBefore))
	}

	// The restored DAG must keep accepting blocks where the old one
	// left off.
	if _, err := restored.ProcessBlock(buildBlock(20, mergeHash)); err != nil {
		t.Fatalf("TestDAGRestore: the restored DAG rejected a valid block: %+v", err)
	}

	// Full block payloads survive the round trip.
	block, err := restored.BlockByHash(forkHash)
	if err != nil {
		t.Fatalf("TestDAGRestore: BlockByHash: %+v", err)
	}
	if !block.BlockHash().IsEqual(forkHash) {
		t.Errorf("TestDAGRestore: fetched block hashes to %s, want %s",
			block.BlockHash(), forkHash)
	}
	if len(block.Transactions) != 1 {
		t.Errorf("TestDAGRestore: fetched block carries %d transactions, want 1",
			len(block.Transactions))
	}
}

// TestFailedPersistRollback verifies that a block whose database write
// fails is rolled back from the in-memory DAG, so memory never runs
// ahead of disk.
func TestFailedPersistRollback(t *testing.T) {
	params := testParams(1, 3)
	dbPath := filepath.Join(t.TempDir(), "db")

	databaseContext, err := dbaccess.New(dbPath)
	if err != nil {
		t.Fatalf("TestFailedPersistRollback: opening the database: %+v", err)
	}

	dag, err := New(&Config{Params: params, DatabaseContext: databaseContext})
	if err != nil {
		t.Fatalf("TestFailedPersistRollback: New: %+v", err)
	}
	tipHash := addBlock(t, dag, 1, params.GenesisHash)

	tipsBefore := dag.TipHashes()
	blockCountBefore := dag.BlockCount()
	finalityBefore := dag.LastFinalityPointHash()

	// Closing the database makes every subsequent write fail.
	err = databaseContext.Close()
	if err != nil {
		t.Fatalf("TestFailedPersistRollback: closing the database: %+v", err)
	}

	block := buildBlock(2, tipHash)
	isNew, err := dag.ProcessBlock(block)
	if err == nil {
		t.Fatalf("TestFailedPersistRollback: ProcessBlock unexpectedly " +
			"succeeded against a closed database")
	}
	if isNew {
		t.Errorf("TestFailedPersistRollback: an unpersisted block was reported as new")
	}

	if dag.IsInDAG(block.BlockHash()) {
		t.Errorf("TestFailedPersistRollback: unpersisted block %s is in the DAG",
			block.BlockHash())
	}
	if dag.BlockCount() != blockCountBefore {
		t.Errorf("TestFailedPersistRollback: block count is %d, want %d",
			dag.BlockCount(), blockCountBefore)
	}
	if !daghash.HashesEqual(dag.TipHashes(), tipsBefore) {
		t.Errorf("TestFailedPersistRollback: tips are %s, want %s",
			daghash.Strings(dag.TipHashes()), daghash.Strings(tipsBefore))
	}
	if !dag.SelectedTipHash().IsEqual(tipHash) {
		t.Errorf("TestFailedPersistRollback: selected tip is %s, want %s",
			dag.SelectedTipHash(), tipHash)
	}
	if !dag.LastFinalityPointHash().IsEqual(finalityBefore) {
		t.Errorf("TestFailedPersistRollback: finality point is %s, want %s",
			dag.LastFinalityPointHash(), finalityBefore)
	}
	children, err := dag.ChildHashes(tipHash)
	if err != nil {
		t.Fatalf("TestFailedPersistRollback: ChildHashes: %+v", err)
	}
	if len(children) != 0 {
		t.Errorf("TestFailedPersistRollback: the rolled back block is still "+
			"a child of %s", tipHash)
	}

	// A retry hits the same write failure and rolls back the same way.
	if _, err := dag.ProcessBlock(block); err == nil {
		t.Fatalf("TestFailedPersistRollback: reprocessing unexpectedly succeeded")
	}
	if dag.IsInDAG(block.BlockHash()) {
		t.Errorf("TestFailedPersistRollback: unpersisted block %s is in the DAG "+
			"after a retry", block.BlockHash())
	}
}

// TestDatabaselessDAG verifies a DAG constructed without a database
// works in memory and starts from scratch every time.
func TestDatabaselessDAG(t *testing.T) {
	params := testParams(1, 3)

	dag := newTestDAG(t, params)
	addChain(t, dag, 3, 1, params.GenesisHash)
	if dag.BlockCount() != 4 {
		t.Fatalf("TestDatabaselessDAG: block count is %d, want 4", dag.BlockCount())
	}

	// Block payloads are not retained without a database.
	_, err := dag.BlockByHash(dag.SelectedTipHash())
	if err == nil {
		t.Errorf("TestDatabaselessDAG: BlockByHash unexpectedly succeeded")
	}

	fresh := newTestDAG(t, params)
	if fresh.BlockCount() != 1 {
		t.Errorf("TestDatabaselessDAG: a fresh DAG holds %d blocks, want only genesis",
			fresh.BlockCount())
	}
}
