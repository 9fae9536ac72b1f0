package tree

import (
	"fmt"
	"io"
	"strings"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	railOpen   = "│   "
	railClosed = "    "
)

// WriteFormatted renders the tree from its root, one node per line in
// pre-order, labelling nodes with fmt.Sprint. An empty tree writes nothing.
//
//	0
//	├── 1
//	│   └── 2
//	└── 3
func (t *Tree[T]) WriteFormatted(w io.Writer) error {
	return t.WriteFormattedFunc(w, func(v T) string { return fmt.Sprint(v) })
}

// WriteFormattedFunc is WriteFormatted with a caller-supplied label.
func (t *Tree[T]) WriteFormattedFunc(w io.Writer, label func(T) string) error {
	if !t.hasRoot {
		return nil
	}
	return t.WriteSubtree(w, t.root, label)
}

// WriteSubtree renders the subtree rooted at h as if h were the root.
func (t *Tree[T]) WriteSubtree(w io.Writer, h Handle, label func(T) string) error {
	if _, err := t.check("format", h); err != nil {
		return err
	}

	type frame struct {
		h    Handle
		last []bool // one entry per level below h: was that ancestor the last sibling
	}
	var line strings.Builder
	pending := []frame{{h: h}}
	for len(pending) > 0 {
		f := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		line.Reset()
		for i, last := range f.last {
			switch {
			case i < len(f.last)-1 && last:
				line.WriteString(railClosed)
			case i < len(f.last)-1:
				line.WriteString(railOpen)
			case last:
				line.WriteString(branchLast)
			default:
				line.WriteString(branchMid)
			}
		}
		n := t.node(f.h)
		line.WriteString(label(n.data))
		line.WriteByte('\n')
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			last := make([]bool, len(f.last), len(f.last)+1)
			copy(last, f.last)
			pending = append(pending, frame{h: n.children[i], last: append(last, i == len(n.children)-1)})
		}
	}
	return nil
}

// String returns the WriteFormatted rendering.
func (t *Tree[T]) String() string {
	var b strings.Builder
	_ = t.WriteFormatted(&b)
	return b.String()
}
