package tree

import "slices"

// Node is a unit of tree storage: the caller's data plus structural links.
// Links are owned by the Tree; only the data is caller-editable.
type Node[T any] struct {
	data      T
	parent    Handle
	hasParent bool
	children  []Handle
}

// NewNode wraps data in a detached node ready for Tree.Insert.
func NewNode[T any](data T) Node[T] {
	return Node[T]{data: data}
}

// Data returns the node's data.
func (n *Node[T]) Data() T { return n.data }

// DataPtr returns a pointer to the node's data for in-place edits.
func (n *Node[T]) DataPtr() *T { return &n.data }

// SetData overwrites the node's data.
func (n *Node[T]) SetData(data T) { n.data = data }

// ReplaceData swaps in data and returns the previous value.
func (n *Node[T]) ReplaceData(data T) T {
	old := n.data
	n.data = data
	return old
}

// Parent returns the parent handle, if the node has one.
func (n *Node[T]) Parent() (Handle, bool) { return n.parent, n.hasParent }

// Children returns a copy of the node's child handles in order.
func (n *Node[T]) Children() []Handle { return slices.Clone(n.children) }

// ChildCount returns the number of direct children.
func (n *Node[T]) ChildCount() int { return len(n.children) }

// Equal reports whether two nodes hold equal data. Links are not compared.
func (n *Node[T]) Equal(o *Node[T], eq func(a, b T) bool) bool {
	return eq(n.data, o.data)
}

func (n *Node[T]) setParent(p Handle) {
	n.parent = p
	n.hasParent = true
}

func (n *Node[T]) clearParent() {
	n.parent = Handle{}
	n.hasParent = false
}

func (n *Node[T]) removeChild(c Handle) {
	if i := slices.Index(n.children, c); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}
