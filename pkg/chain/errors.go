package chain

import (
	"errors"
	"fmt"
)

// Error definitions
var (
	ErrReverted          = errors.New("transaction reverted")
	ErrMissingParentNode = errors.New("hierarchical registration requires a parent node")
	ErrUnexpectedParent  = errors.New("base registration does not take a parent node")
	ErrEmptyName         = errors.New("name is required")
	ErrEmptyPayload      = errors.New("authorization payload is required")
)

// CallError wraps a failure of an external chain collaborator.
// The signing core never retries these.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("chain %s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// IsCallError reports whether err came from an external chain call
func IsCallError(err error) bool {
	var ce *CallError
	return errors.As(err, &ce)
}
