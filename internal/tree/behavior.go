package tree

import "strconv"

// InsertBehavior selects where Tree.Insert places a node.
// Build one with AsRoot or UnderNode.
type InsertBehavior struct {
	parent Handle
	under  bool
}

// AsRoot makes the inserted node the root. An existing root becomes the
// new root's first child.
func AsRoot() InsertBehavior { return InsertBehavior{} }

// UnderNode appends the inserted node as the last child of parent.
func UnderNode(parent Handle) InsertBehavior {
	return InsertBehavior{parent: parent, under: true}
}

// RemoveBehavior selects what happens to the children of a removed node.
type RemoveBehavior int

const (
	// DropChildren removes the whole subtree.
	DropChildren RemoveBehavior = iota
	// LiftChildren re-attaches the children to the removed node's parent,
	// after its existing children. Without a parent it behaves like
	// OrphanChildren.
	LiftChildren
	// OrphanChildren clears the children's parent link. They stay in the
	// arena and remain reachable through handles the caller holds.
	OrphanChildren
)

func (b RemoveBehavior) String() string {
	switch b {
	case DropChildren:
		return "drop-children"
	case LiftChildren:
		return "lift-children"
	case OrphanChildren:
		return "orphan-children"
	default:
		return "remove-behavior(" + strconv.Itoa(int(b)) + ")"
	}
}

// MoveBehavior selects where Tree.Move relocates a node.
// Build one with ToRoot or ToParent.
type MoveBehavior struct {
	parent   Handle
	toParent bool
}

// ToRoot makes the node the root, children travelling with it. The
// previous root is attached as the node's last child.
func ToRoot() MoveBehavior { return MoveBehavior{} }

// ToParent attaches the node as the last child of parent, children
// travelling with it. If parent is a descendant of the node, the node's
// child on the path to parent takes the node's former place first.
func ToParent(parent Handle) MoveBehavior {
	return MoveBehavior{parent: parent, toParent: true}
}
