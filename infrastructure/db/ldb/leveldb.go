package ldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB defines a thin wrapper around leveldb.
type LevelDB struct {
	ldb *leveldb.DB
}

// NewLevelDB opens a leveldb instance defined by the given path.
func NewLevelDB(path string) (*LevelDB, error) {
	// Open leveldb. If it doesn't exist, create it.
	ldb, err := leveldb.OpenFile(path, nil)

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			path)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.WithStack(err)
	}

	db := &LevelDB{
		ldb: ldb,
	}
	return db, nil
}

// Close closes the leveldb instance.
func (db *LevelDB) Close() error {
	return errors.WithStack(db.ldb.Close())
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
func (db *LevelDB) Put(key []byte, value []byte) error {
	return errors.WithStack(db.ldb.Put(key, value, nil))
}

// Get gets the value for the given key. It returns nil if
// the given key does not exist.
func (db *LevelDB) Get(key []byte) ([]byte, error) {
	data, err := db.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// Has returns true if the database contains the given key.
func (db *LevelDB) Has(key []byte) (bool, error) {
	has, err := db.ldb.Has(key, nil)
	return has, errors.WithStack(err)
}

// Delete removes the value for the given key. It is a no-op if the key
// does not exist.
func (db *LevelDB) Delete(key []byte) error {
	return errors.WithStack(db.ldb.Delete(key, nil))
}

// Batch accumulates writes that are later applied atomically with
// WriteBatch.
type Batch struct {
	batch leveldb.Batch
}

// Put queues setting the value for the given key.
func (b *Batch) Put(key []byte, value []byte) {
	b.batch.Put(key, value)
}

// WriteBatch atomically applies all the writes queued in the given
// batch. Either every write in the batch reaches the database or none
// does.
func (db *LevelDB) WriteBatch(batch *Batch) error {
	return errors.WithStack(db.ldb.Write(&batch.batch, nil))
}

// ForEachWithPrefix iterates over all key/value pairs whose keys begin
// with the given prefix, in ascending key order, and calls fn for each.
// Iteration stops on the first error fn returns.
func (db *LevelDB) ForEachWithPrefix(prefix []byte, fn func(key []byte, value []byte) error) error {
	iterator := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iterator.Release()

	for iterator.Next() {
		// The slices the iterator hands out are only valid until the
		// next call to Next, so they are copied before use.
		key := make([]byte, len(iterator.Key()))
		copy(key, iterator.Key())
		value := make([]byte, len(iterator.Value()))
		copy(value, iterator.Value())

		err := fn(key, value)
		if err != nil {
			return err
		}
	}
	return errors.WithStack(iterator.Error())
}
