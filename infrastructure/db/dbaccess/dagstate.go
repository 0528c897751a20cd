package dbaccess

var dagStateKey = []byte("dag-state")

// FetchDAGState returns the serialized DAG state, or nil if no state had
// been previously stored.
func (ctx *DatabaseContext) FetchDAGState() ([]byte, error) {
	return ctx.db.Get(dagStateKey)
}
