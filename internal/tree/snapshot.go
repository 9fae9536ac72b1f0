package tree

import (
	"fmt"
	"slices"
)

// Snapshot is a structural copy of a tree: every live node keyed by handle
// with its parent and ordered children, plus the tombstoned slots in
// free-list order. It round-trips through encoding/json.
type Snapshot[T any] struct {
	Root  *Handle           `json:"root,omitempty"`
	Nodes []SnapshotNode[T] `json:"nodes"`
	Free  []Handle          `json:"free,omitempty"`
}

// SnapshotNode is one live node of a Snapshot.
type SnapshotNode[T any] struct {
	Handle   Handle   `json:"handle"`
	Parent   *Handle  `json:"parent,omitempty"`
	Children []Handle `json:"children,omitempty"`
	Data     T        `json:"data"`
}

// Snapshot copies the tree's structure. Nodes appear in index order.
func (t *Tree[T]) Snapshot() Snapshot[T] {
	var s Snapshot[T]
	if t.hasRoot {
		root := t.root
		s.Root = &root
	}
	s.Nodes = make([]SnapshotNode[T], 0, t.live)
	for i, sl := range t.slots {
		if sl.node == nil {
			continue
		}
		sn := SnapshotNode[T]{
			Handle:   Handle{index: uint32(i), gen: sl.gen},
			Children: slices.Clone(sl.node.children),
			Data:     sl.node.data,
		}
		if sl.node.hasParent {
			p := sl.node.parent
			sn.Parent = &p
		}
		s.Nodes = append(s.Nodes, sn)
	}
	for _, idx := range t.free {
		s.Free = append(s.Free, Handle{index: idx, gen: t.slots[idx].gen})
	}
	return s
}

// maxSnapshotGaps caps the slots a snapshot may leave unnamed. Snapshot
// names every slot, so gaps only come from hand-edited or foreign input.
const maxSnapshotGaps = 1 << 16

// FromSnapshot rebuilds a tree with the same handles. Slots not named by
// the snapshot become free slots, up to maxSnapshotGaps of them. Any
// structural inconsistency is reported as ErrCorruptSnapshot.
func FromSnapshot[T any](s Snapshot[T]) (*Tree[T], error) {
	described := len(s.Nodes) + len(s.Free)
	size := 0
	var widest Handle
	for _, n := range s.Nodes {
		if int(n.Handle.index)+1 > size {
			size, widest = int(n.Handle.index)+1, n.Handle
		}
	}
	for _, h := range s.Free {
		if int(h.index)+1 > size {
			size, widest = int(h.index)+1, h
		}
	}
	if size-described > maxSnapshotGaps {
		return nil, corrupt("handle %s beyond %d described slots", widest, described)
	}

	t := &Tree[T]{slots: make([]slot[T], size)}
	for _, sn := range s.Nodes {
		sl := &t.slots[sn.Handle.index]
		if sl.node != nil {
			return nil, corrupt("node %s appears twice", sn.Handle)
		}
		n := &Node[T]{data: sn.Data, children: slices.Clone(sn.Children)}
		if sn.Parent != nil {
			n.setParent(*sn.Parent)
		}
		sl.node, sl.gen = n, sn.Handle.gen
		t.live++
	}

	freed := make([]bool, size)
	for _, h := range s.Free {
		if t.slots[h.index].node != nil {
			return nil, corrupt("free slot %s holds a live node", h)
		}
		if freed[h.index] {
			return nil, corrupt("free slot %s listed twice", h)
		}
		freed[h.index] = true
		t.slots[h.index].gen = h.gen
	}
	// Unlisted gaps are popped last.
	var gaps []uint32
	for i := range t.slots {
		if t.slots[i].node == nil && !freed[i] {
			gaps = append(gaps, uint32(i))
		}
	}
	slices.Reverse(gaps)
	t.free = append(gaps, indexes(s.Free)...)

	if s.Root != nil {
		t.root, t.hasRoot = *s.Root, true
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return t, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

func indexes(hs []Handle) []uint32 {
	out := make([]uint32, len(hs))
	for i, h := range hs {
		out[i] = h.index
	}
	return out
}

// Validate checks the structural invariants: a parentless live root, parent
// and child links that agree, no cycles, and a free list that names exactly
// the tombstoned slots.
func (t *Tree[T]) Validate() error {
	if t.hasRoot {
		root, err := t.lookup(t.root)
		if err != nil {
			return fmt.Errorf("root: %w", err)
		}
		if root.hasParent {
			return fmt.Errorf("root %s has parent %s", t.root, root.parent)
		}
	}

	live := 0
	for i, sl := range t.slots {
		if sl.node == nil {
			continue
		}
		live++
		h := Handle{index: uint32(i), gen: sl.gen}
		n := sl.node

		if n.hasParent {
			p, err := t.lookup(n.parent)
			if err != nil {
				return fmt.Errorf("parent of %s: %w", h, err)
			}
			if c := count(p.children, h); c != 1 {
				return fmt.Errorf("parent %s lists %s %d times", n.parent, h, c)
			}
		}
		for _, c := range n.children {
			child, err := t.lookup(c)
			if err != nil {
				return fmt.Errorf("child of %s: %w", h, err)
			}
			if !child.hasParent || child.parent != h {
				return fmt.Errorf("child %s of %s does not point back", c, h)
			}
		}
	}
	if live != t.live {
		return fmt.Errorf("live count %d, found %d", t.live, live)
	}

	if err := t.checkAcyclic(); err != nil {
		return err
	}

	seen := make(map[uint32]bool, len(t.free))
	for _, idx := range t.free {
		if int(idx) >= len(t.slots) {
			return fmt.Errorf("free slot %d out of bounds", idx)
		}
		if t.slots[idx].node != nil {
			return fmt.Errorf("free slot %d holds a live node", idx)
		}
		if seen[idx] {
			return fmt.Errorf("free slot %d listed twice", idx)
		}
		seen[idx] = true
	}
	if len(seen) != len(t.slots)-live {
		return fmt.Errorf("%d tombstoned slots, %d on the free list", len(t.slots)-live, len(seen))
	}
	return nil
}

// lookup is check without the out-of-bounds panic, for untrusted links.
func (t *Tree[T]) lookup(h Handle) (*Node[T], error) {
	if int(h.index) >= len(t.slots) {
		return nil, fmt.Errorf("%s: index out of bounds", h)
	}
	return t.check("validate", h)
}

func (t *Tree[T]) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(t.slots))
	for i, sl := range t.slots {
		if sl.node == nil || state[i] == done {
			continue
		}
		var path []uint32
		cur := uint32(i)
		for {
			if state[cur] == visiting {
				return fmt.Errorf("parent links form a cycle through %s", Handle{index: cur, gen: t.slots[cur].gen})
			}
			if state[cur] == done {
				break
			}
			state[cur] = visiting
			path = append(path, cur)
			n := t.slots[cur].node
			if !n.hasParent {
				break
			}
			cur = n.parent.index
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func count(hs []Handle, h Handle) int {
	c := 0
	for _, x := range hs {
		if x == h {
			c++
		}
	}
	return c
}

// Compact renumbers live nodes densely: the root's subtree in pre-order,
// then each parentless non-root subtree in index order. Generations restart
// at zero and the free list is emptied. Every handle issued before Compact
// must be translated through the returned map.
func (t *Tree[T]) Compact() map[Handle]Handle {
	order := make([]Handle, 0, t.live)
	visit := func(start Handle) {
		it := &PreOrderIDIter[T]{t: t, pending: []Handle{start}}
		for h := range it.Seq() {
			order = append(order, h)
		}
	}
	if t.hasRoot {
		visit(t.root)
	}
	for i, sl := range t.slots {
		h := Handle{index: uint32(i), gen: sl.gen}
		if sl.node != nil && !sl.node.hasParent && (!t.hasRoot || h != t.root) {
			visit(h)
		}
	}

	remap := make(map[Handle]Handle, len(order))
	for i, h := range order {
		remap[h] = Handle{index: uint32(i)}
	}

	slots := make([]slot[T], len(order), max(len(order), cap(t.slots)))
	for i, h := range order {
		n := t.slots[h.index].node
		if n.hasParent {
			n.parent = remap[n.parent]
		}
		for j, c := range n.children {
			n.children[j] = remap[c]
		}
		slots[i] = slot[T]{node: n}
	}
	t.slots = slots
	t.free = t.free[:0]
	if t.hasRoot {
		t.root = remap[t.root]
	}
	return remap
}
