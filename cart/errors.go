package cart

import "fmt"

// NetworkError wraps any failed REST call against the remote cart. The
// in-memory cart is left untouched when one is returned; callers keep the
// last known-good state.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
