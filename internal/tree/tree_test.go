package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds
//
//	0
//	├── 1
//	│   └── 2
//	└── 3
func sample(t *testing.T) (*Tree[int], map[int]Handle) {
	t.Helper()
	tr := New[int]()
	h := map[int]Handle{}
	var err error
	h[0], err = tr.Insert(NewNode(0), AsRoot())
	require.NoError(t, err)
	h[1], err = tr.Insert(NewNode(1), UnderNode(h[0]))
	require.NoError(t, err)
	h[2], err = tr.Insert(NewNode(2), UnderNode(h[1]))
	require.NoError(t, err)
	h[3], err = tr.Insert(NewNode(3), UnderNode(h[0]))
	require.NoError(t, err)
	return tr, h
}

func children(t *testing.T, tr *Tree[int], h Handle) []Handle {
	t.Helper()
	n, err := tr.Get(h)
	require.NoError(t, err)
	return n.Children()
}

func parentOf(t *testing.T, tr *Tree[int], h Handle) (Handle, bool) {
	t.Helper()
	n, err := tr.Get(h)
	require.NoError(t, err)
	return n.Parent()
}

func TestInsertUnderNodeAppendsLast(t *testing.T) {
	tr, h := sample(t)

	added, err := tr.Insert(NewNode(4), UnderNode(h[0]))
	require.NoError(t, err)

	assert.Equal(t, []Handle{h[1], h[3], added}, children(t, tr, h[0]))
	p, ok := parentOf(t, tr, added)
	assert.True(t, ok)
	assert.Equal(t, h[0], p)
	require.NoError(t, tr.Validate())
}

func TestInsertAsRootWrapsExistingRoot(t *testing.T) {
	tr, h := sample(t)

	top, err := tr.Insert(NewNode(9), AsRoot())
	require.NoError(t, err)

	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, top, root)
	assert.Equal(t, []Handle{h[0]}, children(t, tr, top))
	p, ok := parentOf(t, tr, h[0])
	assert.True(t, ok)
	assert.Equal(t, top, p)
	_, ok = parentOf(t, tr, top)
	assert.False(t, ok)
	require.NoError(t, tr.Validate())
}

func TestInsertUnderRemovedParentFails(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Remove(h[3], DropChildren)
	require.NoError(t, err)

	_, err = tr.Insert(NewNode(5), UnderNode(h[3]))
	require.ErrorIs(t, err, ErrInvalidHandle)
	var he *HandleError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "insert", he.Op)
	assert.Equal(t, 3, tr.Len())
}

func TestBuilderSeedsRoot(t *testing.T) {
	tr := NewBuilder[string]().
		WithRoot(NewNode("root")).
		WithNodeCapacity(8).
		WithSwapCapacity(2).
		Build()

	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, uint32(0), root.Index())
	assert.Equal(t, 8, tr.Capacity())
	assert.Equal(t, 1, tr.Len())
	n, err := tr.Get(root)
	require.NoError(t, err)
	assert.Equal(t, "root", n.Data())
}

func TestZeroTreeIsUsable(t *testing.T) {
	var tr Tree[int]
	assert.Equal(t, 0, tr.Height())
	assert.Equal(t, "", tr.String())
	h, err := tr.Insert(NewNode(1), AsRoot())
	require.NoError(t, err)
	assert.True(t, tr.Contains(h))
}

func TestRemoveDropChildren(t *testing.T) {
	tr, h := sample(t)

	n, err := tr.Remove(h[1], DropChildren)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Data())
	assert.Empty(t, n.Children())
	_, hasParent := n.Parent()
	assert.False(t, hasParent)

	assert.False(t, tr.Contains(h[1]))
	assert.False(t, tr.Contains(h[2]))
	_, err = tr.Get(h[2])
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, []Handle{h[3]}, children(t, tr, h[0]))
	assert.Equal(t, 2, tr.Len())
	require.NoError(t, tr.Validate())
}

func TestRemoveDropChildrenDeepChain(t *testing.T) {
	tr := New[int]()
	root, err := tr.Insert(NewNode(0), AsRoot())
	require.NoError(t, err)
	cur := root
	for i := 1; i < 100_000; i++ {
		cur, err = tr.Insert(NewNode(i), UnderNode(cur))
		require.NoError(t, err)
	}
	assert.Equal(t, 100_000, tr.Height())

	_, err = tr.Remove(root, DropChildren)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Height())
	require.NoError(t, tr.Validate())
}

func TestRemoveLiftChildren(t *testing.T) {
	tr, h := sample(t)
	extra, err := tr.Insert(NewNode(4), UnderNode(h[1]))
	require.NoError(t, err)

	_, err = tr.Remove(h[1], LiftChildren)
	require.NoError(t, err)

	assert.Equal(t, []Handle{h[3], h[2], extra}, children(t, tr, h[0]))
	p, _ := parentOf(t, tr, h[2])
	assert.Equal(t, h[0], p)
	require.NoError(t, tr.Validate())
}

func TestRemoveOrphanChildren(t *testing.T) {
	tr, h := sample(t)

	_, err := tr.Remove(h[1], OrphanChildren)
	require.NoError(t, err)

	assert.True(t, tr.Contains(h[2]))
	_, ok := parentOf(t, tr, h[2])
	assert.False(t, ok)
	assert.Equal(t, []Handle{h[3]}, children(t, tr, h[0]))
	assert.Equal(t, 3, tr.Len())
	require.NoError(t, tr.Validate())
}

func TestRemoveRootLiftEqualsOrphan(t *testing.T) {
	lift, lh := sample(t)
	orphan, oh := sample(t)

	_, err := lift.Remove(lh[0], LiftChildren)
	require.NoError(t, err)
	_, err = orphan.Remove(oh[0], OrphanChildren)
	require.NoError(t, err)

	for _, tr := range []*Tree[int]{lift, orphan} {
		_, ok := tr.Root()
		assert.False(t, ok)
		assert.Equal(t, 3, tr.Len())
		require.NoError(t, tr.Validate())
	}
	assert.True(t, Equal(lift, orphan))
	_, ok := parentOf(t, lift, lh[1])
	assert.False(t, ok)
	assert.Equal(t, []Handle{lh[2]}, children(t, lift, lh[1]))
}

func TestRemoveUnknownBehaviorLeavesTreeIntact(t *testing.T) {
	tr, h := sample(t)
	before := tr.String()

	_, err := tr.Remove(h[1], RemoveBehavior(42))
	require.Error(t, err)
	assert.Equal(t, before, tr.String())
	assert.True(t, tr.Contains(h[1]))
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	tr, h := sample(t)

	_, err := tr.Remove(h[3], DropChildren)
	require.NoError(t, err)
	reused, err := tr.Insert(NewNode(30), UnderNode(h[0]))
	require.NoError(t, err)

	assert.Equal(t, h[3].Index(), reused.Index())
	assert.NotEqual(t, h[3], reused)
	assert.Equal(t, uint32(1), reused.Generation())
	assert.False(t, tr.Contains(h[3]))
	_, err = tr.Get(h[3])
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.Error(t, tr.Move(h[3], ToRoot()))
}

func TestFreeListReusesMostRecentSlot(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Remove(h[2], DropChildren)
	require.NoError(t, err)
	_, err = tr.Remove(h[3], DropChildren)
	require.NoError(t, err)

	a, err := tr.Insert(NewNode(5), UnderNode(h[0]))
	require.NoError(t, err)
	b, err := tr.Insert(NewNode(6), UnderNode(h[0]))
	require.NoError(t, err)
	c, err := tr.Insert(NewNode(7), UnderNode(h[0]))
	require.NoError(t, err)

	assert.Equal(t, h[3].Index(), a.Index())
	assert.Equal(t, h[2].Index(), b.Index())
	assert.Equal(t, uint32(4), c.Index())
}

func TestOutOfBoundsHandlePanics(t *testing.T) {
	tr, _ := sample(t)
	assert.Panics(t, func() { _, _ = tr.Get(Handle{index: 99}) })
	assert.False(t, tr.Contains(Handle{index: 99}))
}

func TestMoveAcross(t *testing.T) {
	tr, h := sample(t)

	require.NoError(t, tr.Move(h[2], ToParent(h[3])))

	assert.Equal(t, "0\n├── 1\n└── 3\n    └── 2\n", tr.String())
	require.NoError(t, tr.Validate())
}

func TestMoveToCurrentParentAppendsLast(t *testing.T) {
	tr, h := sample(t)

	require.NoError(t, tr.Move(h[1], ToParent(h[0])))

	assert.Equal(t, []Handle{h[3], h[1]}, children(t, tr, h[0]))
	require.NoError(t, tr.Validate())
}

func TestMoveDownPromotesSubtreeRoot(t *testing.T) {
	// 0 -> 1 -> {2 -> 3, 4}; move 1 under 3.
	tr := New[int]()
	h := map[int]Handle{}
	h[0], _ = tr.Insert(NewNode(0), AsRoot())
	h[1], _ = tr.Insert(NewNode(1), UnderNode(h[0]))
	h[2], _ = tr.Insert(NewNode(2), UnderNode(h[1]))
	h[3], _ = tr.Insert(NewNode(3), UnderNode(h[2]))
	h[4], _ = tr.Insert(NewNode(4), UnderNode(h[1]))

	require.NoError(t, tr.Move(h[1], ToParent(h[3])))

	assert.Equal(t, "0\n└── 2\n    └── 3\n        └── 1\n            └── 4\n", tr.String())
	p, _ := parentOf(t, tr, h[2])
	assert.Equal(t, h[0], p)
	assert.Equal(t, []Handle{h[1]}, children(t, tr, h[3]))
	require.NoError(t, tr.Validate())
}

func TestMoveRootDown(t *testing.T) {
	tr, h := sample(t)

	require.NoError(t, tr.Move(h[0], ToParent(h[2])))

	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, h[1], root)
	assert.Equal(t, "1\n└── 2\n    └── 0\n        └── 3\n", tr.String())
	require.NoError(t, tr.Validate())
}

func TestMoveOrphanDown(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Remove(h[0], OrphanChildren)
	require.NoError(t, err)

	require.NoError(t, tr.Move(h[1], ToParent(h[2])))

	_, ok := parentOf(t, tr, h[2])
	assert.False(t, ok)
	assert.Equal(t, []Handle{h[1]}, children(t, tr, h[2]))
	require.NoError(t, tr.Validate())
}

func TestMoveRootUnderOrphanKeepsRootParentless(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Remove(h[1], OrphanChildren)
	require.NoError(t, err)

	require.NoError(t, tr.Move(h[0], ToParent(h[2])))

	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, h[2], root)
	assert.Equal(t, "2\n└── 0\n    └── 3\n", tr.String())
	require.NoError(t, tr.Validate())
}

func TestMoveIntoSelfRejected(t *testing.T) {
	tr, h := sample(t)
	before := tr.String()

	err := tr.Move(h[1], ToParent(h[1]))
	require.ErrorIs(t, err, ErrMoveIntoSelf)
	assert.Equal(t, before, tr.String())
}

func TestMoveToRoot(t *testing.T) {
	tr, h := sample(t)

	require.NoError(t, tr.Move(h[2], ToRoot()))

	root, _ := tr.Root()
	assert.Equal(t, h[2], root)
	assert.Equal(t, "2\n└── 0\n    ├── 1\n    └── 3\n", tr.String())
	require.NoError(t, tr.Validate())
}

func TestMoveRootToRootIsNoop(t *testing.T) {
	tr, h := sample(t)
	before := tr.String()

	require.NoError(t, tr.Move(h[0], ToRoot()))

	assert.Equal(t, before, tr.String())
	require.NoError(t, tr.Validate())
}

func TestMoveToRootOnEmptyRoot(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Remove(h[0], OrphanChildren)
	require.NoError(t, err)

	require.NoError(t, tr.Move(h[3], ToRoot()))

	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, h[3], root)
	require.NoError(t, tr.Validate())
}

func TestMoveToStaleParentFails(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Remove(h[3], DropChildren)
	require.NoError(t, err)
	before := tr.String()

	require.ErrorIs(t, tr.Move(h[2], ToParent(h[3])), ErrInvalidHandle)
	assert.Equal(t, before, tr.String())
}

func TestHeight(t *testing.T) {
	tr := New[int]()
	assert.Equal(t, 0, tr.Height())

	root, _ := tr.Insert(NewNode(0), AsRoot())
	assert.Equal(t, 1, tr.Height())

	a, _ := tr.Insert(NewNode(1), UnderNode(root))
	assert.Equal(t, 2, tr.Height())
	_, _ = tr.Insert(NewNode(2), UnderNode(root))
	assert.Equal(t, 2, tr.Height())
	deep, _ := tr.Insert(NewNode(3), UnderNode(a))
	assert.Equal(t, 3, tr.Height())

	_, err := tr.Remove(deep, DropChildren)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Height())
}

func TestSortChildren(t *testing.T) {
	tr := New[int]()
	root, _ := tr.Insert(NewNode(0), AsRoot())
	for _, v := range []int{5, 3, 9, 1} {
		_, err := tr.Insert(NewNode(v), UnderNode(root))
		require.NoError(t, err)
	}

	require.NoError(t, SortChildrenByData(tr, root))
	assert.Equal(t, "0\n├── 1\n├── 3\n├── 5\n└── 9\n", tr.String())

	require.NoError(t, tr.SortChildrenBy(root, func(a, b *Node[int]) int { return b.Data() - a.Data() }))
	assert.Equal(t, "0\n├── 9\n├── 5\n├── 3\n└── 1\n", tr.String())
	require.NoError(t, tr.Validate())
}

func TestSortChildrenIsStable(t *testing.T) {
	tr := New[[2]int]()
	root, _ := tr.Insert(NewNode([2]int{}), AsRoot())
	for _, v := range [][2]int{{1, 0}, {0, 1}, {1, 2}, {0, 3}} {
		_, err := tr.Insert(NewNode(v), UnderNode(root))
		require.NoError(t, err)
	}

	require.NoError(t, tr.SortChildrenBy(root, func(a, b *Node[[2]int]) int { return a.Data()[0] - b.Data()[0] }))

	it, err := tr.Children(root)
	require.NoError(t, err)
	var got [][2]int
	for n := range it.Seq() {
		got = append(got, n.Data())
	}
	assert.Equal(t, [][2]int{{0, 1}, {0, 3}, {1, 0}, {1, 2}}, got)
}

func TestEqualIgnoresTombstones(t *testing.T) {
	a, _ := sample(t)
	b, hb := sample(t)
	extra, err := b.Insert(NewNode(99), UnderNode(hb[0]))
	require.NoError(t, err)
	_, err = b.Remove(extra, DropChildren)
	require.NoError(t, err)

	assert.True(t, Equal(a, b))
	assert.True(t, a.Equal(b, func(x, y int) bool { return x == y }))
}

func TestEqualComparesParentData(t *testing.T) {
	a, _ := sample(t)
	b, hb := sample(t)
	require.NoError(t, b.Move(hb[2], ToParent(hb[3])))

	assert.False(t, Equal(a, b))

	c, hc := sample(t)
	n, err := c.Get(hc[2])
	require.NoError(t, err)
	n.SetData(20)
	assert.False(t, Equal(a, c))
}

func TestNodeDataAccessors(t *testing.T) {
	tr, h := sample(t)
	n, err := tr.Get(h[1])
	require.NoError(t, err)

	*n.DataPtr() += 10
	assert.Equal(t, 11, n.Data())
	assert.Equal(t, 11, n.ReplaceData(12))

	other := NewNode(12)
	assert.True(t, n.Equal(&other, func(a, b int) bool { return a == b }))
	assert.Equal(t, "0\n├── 12\n│   └── 2\n└── 3\n", tr.String())
}
