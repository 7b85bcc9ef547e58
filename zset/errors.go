package zset

import (
	"fmt"

	"github.com/juju/errors"
)

// InvariantError reports a fatal, non-recoverable violation of a Z-set
// contract: a non-canonical Z-set handed to an operator that requires
// canonical form, or a weight computation that overflowed int64. Callers
// that see an InvariantError should reset the owning operator and abort
// the current mutation rather than retry; it is a programmer error, not
// a transient condition.
type InvariantError struct {
	Op     string
	Detail string
	cause  error
}

func (e *InvariantError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("zset: invariant violation in %s: %s: %v", e.Op, e.Detail, e.cause)
	}
	return fmt.Sprintf("zset: invariant violation in %s: %s", e.Op, e.Detail)
}

func (e *InvariantError) Unwrap() error { return e.cause }

var errOverflow = errors.New("int64 overflow")

func newInvariantError(op, detail string, cause error) *InvariantError {
	return &InvariantError{Op: op, Detail: detail, cause: errors.Annotatef(cause, "%s", detail)}
}

// overflowError builds the InvariantError for a weight computation that
// would overflow int64, per spec §7 ("Overflow in weight arithmetic").
func overflowError(op string, a, b int64) *InvariantError {
	return newInvariantError(op, fmt.Sprintf("weight overflow combining %d and %d", a, b), errors.New("int64 overflow"))
}
