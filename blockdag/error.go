package blockdag

import (
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists in the DAG.
	ErrDuplicateBlock ErrorCode = iota

	// ErrNoParents indicates a non-genesis block carries no parent
	// hashes.
	ErrNoParents

	// ErrDuplicateParents indicates a block references the same parent
	// hash more than once.
	ErrDuplicateParents

	// ErrTooManyParents indicates a block references more parents than
	// the maximum allowed by the active network parameters.
	ErrTooManyParents

	// ErrParentBlockUnknown indicates a block references a parent that
	// is not known to the DAG.
	ErrParentBlockUnknown

	// ErrFinality indicates a block's selected parent chain does not
	// pass through the current finality point, so accepting it would
	// reorganize finalized history.
	ErrFinality
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:     "ErrDuplicateBlock",
	ErrNoParents:          "ErrNoParents",
	ErrDuplicateParents:   "ErrDuplicateParents",
	ErrTooManyParents:     "ErrTooManyParents",
	ErrParentBlockUnknown: "ErrParentBlockUnknown",
	ErrFinality:           "ErrFinality",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation rules.
// The caller can use type assertions to determine if a failure was
// specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// ErrNotInDAG signifies that some data requested by a caller is not
// present in the DAG.
type ErrNotInDAG string

// Error implements the error interface.
func (e ErrNotInDAG) Error() string {
	return string(e)
}

// errNotInDAG creates an ErrNotInDAG with the given format string.
func errNotInDAG(format string, args ...interface{}) ErrNotInDAG {
	return ErrNotInDAG(fmt.Sprintf(format, args...))
}

// IsNotInDAGErr returns whether or not the passed error is an
// ErrNotInDAG error.
func IsNotInDAGErr(err error) bool {
	_, ok := err.(ErrNotInDAG)
	return ok
}
