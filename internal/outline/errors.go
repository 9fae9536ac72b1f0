package outline

import (
	"errors"
	"fmt"

	"case-cli/internal/model"
	"case-cli/internal/tree"
)

var (
	ErrNotATask          = errors.New("not a task")
	ErrNotAGroup         = errors.New("not a group")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrNoPreviousSibling = errors.New("no previous sibling to indent under")
	ErrAtTopLevel        = errors.New("already at top level")
)

// KindError reports an edit that only applies to the other entry kind.
// It matches ErrNotATask or ErrNotAGroup with errors.Is.
type KindError struct {
	Op     string
	Handle tree.Handle
	Want   model.EntryKind
}

func (e KindError) Error() string {
	return fmt.Sprintf("%s %s: not a %s", e.Op, e.Handle, e.Want)
}

func (e KindError) Is(target error) bool {
	switch e.Want {
	case model.EntryKindTask:
		return target == ErrNotATask
	case model.EntryKindGroup:
		return target == ErrNotAGroup
	}
	return false
}
