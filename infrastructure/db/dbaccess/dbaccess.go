package dbaccess

import (
	"github.com/latticenet/latticed/infrastructure/db/ldb"
)

// DatabaseContext represents an open database connection and is the
// handle all database accessors in this package operate on.
type DatabaseContext struct {
	db *ldb.LevelDB
}

// New opens (or creates) the database at the given path and wraps it in
// a DatabaseContext.
func New(path string) (*DatabaseContext, error) {
	db, err := ldb.NewLevelDB(path)
	if err != nil {
		return nil, err
	}
	return &DatabaseContext{db: db}, nil
}

// Close closes the underlying database.
func (ctx *DatabaseContext) Close() error {
	return ctx.db.Close()
}
