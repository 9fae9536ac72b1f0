package tree

import (
	"iter"
	"slices"
)

// The iterators in this file borrow the tree. Mutating the tree while one is
// in use is a precondition violation: the iterator holds plain handles that
// may be invalidated or reassigned, and its output is then unspecified.

// ChildIDIter yields the handles of a node's direct children in order.
type ChildIDIter struct {
	children []Handle
	pos      int
}

// ChildIDs returns an iterator over the children of h.
func (t *Tree[T]) ChildIDs(h Handle) (*ChildIDIter, error) {
	n, err := t.check("children", h)
	if err != nil {
		return nil, err
	}
	return &ChildIDIter{children: n.children}, nil
}

// Next returns the next handle, or false once the walk is exhausted.
func (it *ChildIDIter) Next() (Handle, bool) {
	if it.pos >= len(it.children) {
		return Handle{}, false
	}
	h := it.children[it.pos]
	it.pos++
	return h, true
}

// Clone returns an iterator that resumes from the same position.
func (it *ChildIDIter) Clone() *ChildIDIter {
	c := *it
	return &c
}

// Seq adapts the iterator for use with range. It shares state with it.
func (it *ChildIDIter) Seq() iter.Seq[Handle] { return seqOf(it.Next) }

// ChildIter yields the direct children of a node.
type ChildIter[T any] struct {
	t   *Tree[T]
	ids *ChildIDIter
}

// Children returns an iterator over the child nodes of h.
func (t *Tree[T]) Children(h Handle) (*ChildIter[T], error) {
	ids, err := t.ChildIDs(h)
	if err != nil {
		return nil, err
	}
	return &ChildIter[T]{t: t, ids: ids}, nil
}

// Next returns the next node, or false once the walk is exhausted.
func (it *ChildIter[T]) Next() (*Node[T], bool) {
	h, ok := it.ids.Next()
	if !ok {
		return nil, false
	}
	return it.t.node(h), true
}

// Clone returns an iterator that resumes from the same position.
func (it *ChildIter[T]) Clone() *ChildIter[T] {
	return &ChildIter[T]{t: it.t, ids: it.ids.Clone()}
}

// Seq adapts the iterator for use with range. It shares state with it.
func (it *ChildIter[T]) Seq() iter.Seq[*Node[T]] { return seqOf(it.Next) }

// AncestorIDIter walks parent links upward, excluding the start node.
type AncestorIDIter[T any] struct {
	t    *Tree[T]
	next Handle
	ok   bool
}

// AncestorIDs returns an iterator over the ancestors of h, nearest first.
func (t *Tree[T]) AncestorIDs(h Handle) (*AncestorIDIter[T], error) {
	n, err := t.check("ancestors", h)
	if err != nil {
		return nil, err
	}
	return &AncestorIDIter[T]{t: t, next: n.parent, ok: n.hasParent}, nil
}

// Next returns the next handle, or false once the walk is exhausted.
func (it *AncestorIDIter[T]) Next() (Handle, bool) {
	if !it.ok {
		return Handle{}, false
	}
	h := it.next
	it.next, it.ok = it.t.node(h).Parent()
	return h, true
}

// Clone returns an iterator that resumes from the same position.
func (it *AncestorIDIter[T]) Clone() *AncestorIDIter[T] {
	c := *it
	return &c
}

// Seq adapts the iterator for use with range. It shares state with it.
func (it *AncestorIDIter[T]) Seq() iter.Seq[Handle] { return seqOf(it.Next) }

// AncestorIter yields the ancestor nodes of a node, nearest first.
type AncestorIter[T any] struct {
	ids *AncestorIDIter[T]
}

// Ancestors returns an iterator over the ancestor nodes of h.
func (t *Tree[T]) Ancestors(h Handle) (*AncestorIter[T], error) {
	ids, err := t.AncestorIDs(h)
	if err != nil {
		return nil, err
	}
	return &AncestorIter[T]{ids: ids}, nil
}

// Next returns the next node, or false once the walk is exhausted.
func (it *AncestorIter[T]) Next() (*Node[T], bool) {
	h, ok := it.ids.Next()
	if !ok {
		return nil, false
	}
	return it.ids.t.node(h), true
}

// Clone returns an iterator that resumes from the same position.
func (it *AncestorIter[T]) Clone() *AncestorIter[T] {
	return &AncestorIter[T]{ids: it.ids.Clone()}
}

// Seq adapts the iterator for use with range. It shares state with it.
func (it *AncestorIter[T]) Seq() iter.Seq[*Node[T]] { return seqOf(it.Next) }

// PreOrderIDIter walks a subtree depth first, each node before its children.
type PreOrderIDIter[T any] struct {
	t       *Tree[T]
	pending []Handle
}

// PreOrderIDs returns a pre-order iterator over the subtree rooted at h.
func (t *Tree[T]) PreOrderIDs(h Handle) (*PreOrderIDIter[T], error) {
	if _, err := t.check("pre-order", h); err != nil {
		return nil, err
	}
	return &PreOrderIDIter[T]{t: t, pending: []Handle{h}}, nil
}

// Next returns the next handle, or false once the walk is exhausted.
func (it *PreOrderIDIter[T]) Next() (Handle, bool) {
	k := len(it.pending)
	if k == 0 {
		return Handle{}, false
	}
	h := it.pending[k-1]
	it.pending = it.pending[:k-1]
	children := it.t.node(h).children
	for i := len(children) - 1; i >= 0; i-- {
		it.pending = append(it.pending, children[i])
	}
	return h, true
}

// Clone returns an iterator that resumes from the same position.
func (it *PreOrderIDIter[T]) Clone() *PreOrderIDIter[T] {
	return &PreOrderIDIter[T]{t: it.t, pending: slices.Clone(it.pending)}
}

// Seq adapts the iterator for use with range. It shares state with it.
func (it *PreOrderIDIter[T]) Seq() iter.Seq[Handle] { return seqOf(it.Next) }

// PreOrderIter yields the nodes of a subtree in pre-order.
type PreOrderIter[T any] struct {
	ids *PreOrderIDIter[T]
}

// PreOrder returns a pre-order iterator over the subtree rooted at h.
func (t *Tree[T]) PreOrder(h Handle) (*PreOrderIter[T], error) {
	ids, err := t.PreOrderIDs(h)
	if err != nil {
		return nil, err
	}
	return &PreOrderIter[T]{ids: ids}, nil
}

// Next returns the next node, or false once the walk is exhausted.
func (it *PreOrderIter[T]) Next() (*Node[T], bool) {
	h, ok := it.ids.Next()
	if !ok {
		return nil, false
	}
	return it.ids.t.node(h), true
}

// Clone returns an iterator that resumes from the same position.
func (it *PreOrderIter[T]) Clone() *PreOrderIter[T] {
	return &PreOrderIter[T]{ids: it.ids.Clone()}
}

// Seq adapts the iterator for use with range. It shares state with it.
func (it *PreOrderIter[T]) Seq() iter.Seq[*Node[T]] { return seqOf(it.Next) }

// All yields every live node in index order, attached or not.
func (t *Tree[T]) All() iter.Seq2[Handle, *Node[T]] {
	return func(yield func(Handle, *Node[T]) bool) {
		for i, sl := range t.slots {
			if sl.node == nil {
				continue
			}
			if !yield(Handle{index: uint32(i), gen: sl.gen}, sl.node) {
				return
			}
		}
	}
}

func seqOf[V any](next func() (V, bool)) iter.Seq[V] {
	return func(yield func(V) bool) {
		for {
			v, ok := next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
