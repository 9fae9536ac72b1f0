package outline

import (
	"strings"

	"case-cli/internal/model"
	"case-cli/internal/tree"
)

// Row is one line of the flattened outline.
type Row struct {
	Handle   tree.Handle `json:"handle"`
	Depth    int         `json:"depth"`
	Entry    model.Entry `json:"entry"`
	Children int         `json:"children"`
	Orphan   bool        `json:"orphan,omitempty"`

	// last[i] reports whether the ancestor at depth i+1 on the path to this
	// row (the row itself for the final entry) is the last of its siblings.
	last []bool
}

// Last reports whether the row is the last child of its parent.
func (r Row) Last() bool {
	return len(r.last) == 0 || r.last[len(r.last)-1]
}

// Prefix returns the connector art drawn before the row's title, matching
// tree.WriteFormatted.
func (r Row) Prefix() string {
	var b strings.Builder
	for i, last := range r.last {
		switch {
		case i < len(r.last)-1 && last:
			b.WriteString("    ")
		case i < len(r.last)-1:
			b.WriteString("│   ")
		case last:
			b.WriteString("└── ")
		default:
			b.WriteString("├── ")
		}
	}
	return b.String()
}

// Rows flattens the outline in pre-order: the rooted tree first, then each
// orphaned subtree.
func (o *Outline) Rows() []Row {
	var out []Row
	if root, ok := o.t.Root(); ok {
		out = o.appendRows(out, root, false)
	}
	for _, h := range o.Orphans() {
		out = o.appendRows(out, h, true)
	}
	return out
}

// RowsFrom flattens the subtree rooted at h with h at depth 0.
func (o *Outline) RowsFrom(h tree.Handle) ([]Row, error) {
	if _, err := o.t.Get(h); err != nil {
		return nil, err
	}
	return o.appendRows(nil, h, false), nil
}

func (o *Outline) appendRows(out []Row, start tree.Handle, orphan bool) []Row {
	type frame struct {
		h    tree.Handle
		last []bool
	}
	pending := []frame{{h: start}}
	for len(pending) > 0 {
		f := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		n, err := o.t.Get(f.h)
		if err != nil {
			continue
		}
		children := n.Children()
		out = append(out, Row{
			Handle:   f.h,
			Depth:    len(f.last),
			Entry:    n.Data().Clone(),
			Children: len(children),
			Orphan:   orphan,
			last:     f.last,
		})
		for i := len(children) - 1; i >= 0; i-- {
			last := make([]bool, len(f.last), len(f.last)+1)
			copy(last, f.last)
			pending = append(pending, frame{h: children[i], last: append(last, i == len(children)-1)})
		}
	}
	return out
}

// Index returns the position of h in rows, or -1.
func Index(rows []Row, h tree.Handle) int {
	for i, r := range rows {
		if r.Handle == h {
			return i
		}
	}
	return -1
}
