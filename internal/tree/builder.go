package tree

// Builder configures a Tree before construction.
type Builder[T any] struct {
	root         *Node[T]
	nodeCapacity int
	swapCapacity int
}

// NewBuilder returns a builder with no root and no pre-allocation.
func NewBuilder[T any]() Builder[T] {
	return Builder[T]{}
}

// WithRoot seeds the built tree with a root node at slot 0.
func (b Builder[T]) WithRoot(root Node[T]) Builder[T] {
	b.root = &root
	return b
}

// WithNodeCapacity pre-sizes node storage. Set it to the largest number of
// nodes the tree holds at any one time.
func (b Builder[T]) WithNodeCapacity(n int) Builder[T] {
	b.nodeCapacity = n
	return b
}

// WithSwapCapacity pre-sizes the free-slot list. Set it to the largest net
// number of removals outstanding at any one time: adding 3 nodes, removing
// 2, adding 1 and removing 2 peaks at 3.
func (b Builder[T]) WithSwapCapacity(n int) Builder[T] {
	b.swapCapacity = n
	return b
}

// Build constructs the tree.
func (b Builder[T]) Build() *Tree[T] {
	t := &Tree[T]{
		slots: make([]slot[T], 0, b.nodeCapacity),
		free:  make([]uint32, 0, b.swapCapacity),
	}
	if b.root != nil {
		h := t.alloc(*b.root)
		t.root, t.hasRoot = h, true
	}
	return t
}
