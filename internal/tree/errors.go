package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle is returned when a handle refers to a node that has
	// been removed from the tree.
	ErrInvalidHandle = errors.New("handle is no longer valid")

	// ErrMoveIntoSelf is returned when a node is moved under itself.
	ErrMoveIntoSelf = errors.New("cannot move a node under itself")

	// ErrCorruptSnapshot is returned when a snapshot does not describe a
	// well-formed tree.
	ErrCorruptSnapshot = errors.New("corrupt tree snapshot")
)

// HandleError reports which operation rejected which handle.
// It matches ErrInvalidHandle with errors.Is.
type HandleError struct {
	Op     string
	Handle Handle
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Handle, ErrInvalidHandle)
}

func (e *HandleError) Unwrap() error { return ErrInvalidHandle }
