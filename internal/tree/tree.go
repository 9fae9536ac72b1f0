// Package tree implements an ordered tree stored in an arena and addressed
// by Handle values instead of pointers.
//
// Nodes live in dense, index-addressed storage. Removing a node tombstones its
// slot and queues it for reuse; every slot carries a generation so handles to
// removed nodes are rejected with ErrInvalidHandle even after the slot has
// been reused.
//
// A Tree is not safe for concurrent mutation. Iterators borrow the tree and
// must not be used after any mutating call.
package tree

import (
	"cmp"
	"fmt"
	"slices"
)

type slot[T any] struct {
	node *Node[T]
	gen  uint32
}

// Tree is an ordered tree of Node values.
//
// The zero value is an empty tree ready for use.
type Tree[T any] struct {
	root    Handle
	hasRoot bool
	slots   []slot[T]
	free    []uint32
	live    int
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return NewBuilder[T]().Build()
}

// Root returns the root handle, if the tree has a root.
func (t *Tree[T]) Root() (Handle, bool) { return t.root, t.hasRoot }

// Len returns the number of live nodes, including parentless nodes that are
// not the root.
func (t *Tree[T]) Len() int { return t.live }

// Capacity returns the number of nodes the arena holds without growing.
func (t *Tree[T]) Capacity() int { return cap(t.slots) }

// Contains reports whether h refers to a live node.
func (t *Tree[T]) Contains(h Handle) bool {
	if int(h.index) >= len(t.slots) {
		return false
	}
	s := t.slots[h.index]
	return s.node != nil && s.gen == h.gen
}

// Get returns the node for h.
func (t *Tree[T]) Get(h Handle) (*Node[T], error) {
	return t.check("get", h)
}

// Insert adds node to the tree and returns its handle.
func (t *Tree[T]) Insert(node Node[T], b InsertBehavior) (Handle, error) {
	if b.under {
		if _, err := t.check("insert", b.parent); err != nil {
			return Handle{}, err
		}
		h := t.alloc(node)
		t.attach(b.parent, h)
		return h, nil
	}

	h := t.alloc(node)
	if t.hasRoot {
		t.attach(h, t.root)
	}
	t.root, t.hasRoot = h, true
	return h, nil
}

// Remove takes the node out of the tree and returns it with its links
// cleared. The handle, and with DropChildren every descendant handle, is
// invalid afterwards.
func (t *Tree[T]) Remove(h Handle, b RemoveBehavior) (Node[T], error) {
	n, err := t.check("remove", h)
	if err != nil {
		return Node[T]{}, err
	}

	switch b {
	case DropChildren:
		pending := n.children
		n.children = nil
		for len(pending) > 0 {
			c := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			pending = append(pending, t.node(c).children...)
			t.release(c)
		}
	case LiftChildren:
		if !n.hasParent {
			t.orphanChildren(n)
			break
		}
		for _, c := range n.children {
			t.attach(n.parent, c)
		}
		n.children = nil
	case OrphanChildren:
		t.orphanChildren(n)
	default:
		return Node[T]{}, fmt.Errorf("remove %s: unknown behavior %s", h, b)
	}

	return t.take(h), nil
}

// Move relocates the subtree rooted at h.
func (t *Tree[T]) Move(h Handle, b MoveBehavior) error {
	if _, err := t.check("move", h); err != nil {
		return err
	}
	if !b.toParent {
		t.moveToRoot(h)
		return nil
	}
	if _, err := t.check("move", b.parent); err != nil {
		return err
	}
	if b.parent == h {
		return fmt.Errorf("move %s: %w", h, ErrMoveIntoSelf)
	}
	t.moveToParent(h, b.parent)
	return nil
}

// SortChildrenBy stably reorders the children of h using compare.
// Parent and child links are unchanged.
func (t *Tree[T]) SortChildrenBy(h Handle, compare func(a, b *Node[T]) int) error {
	n, err := t.check("sort", h)
	if err != nil {
		return err
	}
	slices.SortStableFunc(n.children, func(a, b Handle) int {
		return compare(t.node(a), t.node(b))
	})
	return nil
}

// SortChildrenByData stably reorders the children of h by their data.
func SortChildrenByData[T cmp.Ordered](t *Tree[T], h Handle) error {
	return t.SortChildrenBy(h, func(a, b *Node[T]) int {
		return cmp.Compare(a.data, b.data)
	})
}

// Height returns 0 for an empty tree, otherwise the number of nodes on the
// longest path from the root to a leaf.
func (t *Tree[T]) Height() int {
	if !t.hasRoot {
		return 0
	}
	type frame struct {
		h     Handle
		depth int
	}
	height := 0
	pending := []frame{{h: t.root, depth: 1}}
	for len(pending) > 0 {
		f := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		height = max(height, f.depth)
		for _, c := range t.node(f.h).children {
			pending = append(pending, frame{h: c, depth: f.depth + 1})
		}
	}
	return height
}

// Equal reports whether both trees hold the same live slots, with equal data
// and equal parent data in each. Raw parent handles are not compared.
func (t *Tree[T]) Equal(o *Tree[T], eq func(a, b T) bool) bool {
	if t.live != o.live {
		return false
	}
	i, j := t.nextLive(0), o.nextLive(0)
	for i >= 0 && j >= 0 {
		if i != j {
			return false
		}
		a, b := t.slots[i].node, o.slots[j].node
		if !eq(a.data, b.data) {
			return false
		}
		if a.hasParent != b.hasParent {
			return false
		}
		if a.hasParent && !eq(t.node(a.parent).data, o.node(b.parent).data) {
			return false
		}
		i, j = t.nextLive(i+1), o.nextLive(j+1)
	}
	return i == j
}

// Equal compares two trees of comparable data. See Tree.Equal.
func Equal[T comparable](a, b *Tree[T]) bool {
	return a.Equal(b, func(x, y T) bool { return x == y })
}

func (t *Tree[T]) nextLive(from int) int {
	for i := from; i < len(t.slots); i++ {
		if t.slots[i].node != nil {
			return i
		}
	}
	return -1
}

// check validates h and returns its node. An index outside the arena can only
// come from a fabricated handle and panics.
func (t *Tree[T]) check(op string, h Handle) (*Node[T], error) {
	if int(h.index) >= len(t.slots) {
		panic(fmt.Sprintf("tree: %s %s: index out of bounds (%d slots)", op, h, len(t.slots)))
	}
	s := t.slots[h.index]
	if s.node == nil || s.gen != h.gen {
		return nil, &HandleError{Op: op, Handle: h}
	}
	return s.node, nil
}

// node returns the node for a handle already known to be live.
func (t *Tree[T]) node(h Handle) *Node[T] {
	n := t.slots[h.index].node
	if n == nil {
		panic(fmt.Sprintf("tree: %s: expected a live node", h))
	}
	return n
}

func (t *Tree[T]) alloc(n Node[T]) Handle {
	n.clearParent()
	n.children = nil
	t.live++

	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.slots[idx].node = &n
		return Handle{index: idx, gen: t.slots[idx].gen}
	}
	idx := uint32(len(t.slots))
	t.slots = append(t.slots, slot[T]{node: &n})
	return Handle{index: idx}
}

// release tombstones the slot and queues it for reuse under a new generation.
func (t *Tree[T]) release(h Handle) *Node[T] {
	s := &t.slots[h.index]
	n := s.node
	s.node = nil
	s.gen++
	t.free = append(t.free, h.index)
	t.live--
	return n
}

// take detaches h from its parent, tombstones it and returns the node by value.
func (t *Tree[T]) take(h Handle) Node[T] {
	if t.hasRoot && t.root == h {
		t.root, t.hasRoot = Handle{}, false
	}
	n := t.node(h)
	if n.hasParent {
		t.node(n.parent).removeChild(h)
	}
	t.release(h)

	out := *n
	out.clearParent()
	out.children = nil
	return out
}

func (t *Tree[T]) attach(parent, child Handle) {
	t.node(parent).children = append(t.node(parent).children, child)
	t.node(child).setParent(parent)
}

func (t *Tree[T]) detach(parent, child Handle) {
	t.node(parent).removeChild(child)
}

func (t *Tree[T]) orphanChildren(n *Node[T]) {
	for _, c := range n.children {
		t.node(c).clearParent()
	}
	n.children = nil
}

func (t *Tree[T]) moveToRoot(h Handle) {
	old, hadRoot := t.root, t.hasRoot
	n := t.node(h)
	if n.hasParent {
		t.detach(n.parent, h)
		n.clearParent()
	}
	t.root, t.hasRoot = h, true
	if hadRoot && old != h {
		t.moveToParent(old, h)
	}
}

func (t *Tree[T]) moveToParent(h, parent Handle) {
	n := t.node(h)

	if sub, ok := t.subtreeRootBetween(parent, h); ok {
		// Moving down: sub, the child of h on the path to parent, takes h's place.
		switch {
		case t.hasRoot && t.root == h:
			t.detach(h, sub)
			t.node(sub).clearParent()
			t.root = sub
		case n.hasParent:
			old := n.parent
			t.detach(old, h)
			t.detach(h, sub)
			t.attach(old, sub)
		default:
			t.detach(h, sub)
			t.node(sub).clearParent()
		}
		t.attach(parent, h)
		return
	}

	if n.hasParent {
		t.detach(n.parent, h)
	}
	t.attach(parent, h)

	// The root moved under a parentless non-root node: that node's top
	// becomes the root so the root keeps no parent.
	if t.hasRoot && t.root == h {
		t.root = t.top(parent)
	}
}

// subtreeRootBetween walks up from lower and returns the direct child of
// upper on that path, if upper is an ancestor of lower.
func (t *Tree[T]) subtreeRootBetween(lower, upper Handle) (Handle, bool) {
	cur := lower
	for {
		n := t.node(cur)
		if !n.hasParent {
			return Handle{}, false
		}
		if n.parent == upper {
			return cur, true
		}
		cur = n.parent
	}
}

func (t *Tree[T]) top(h Handle) Handle {
	for {
		n := t.node(h)
		if !n.hasParent {
			return h
		}
		h = n.parent
	}
}
