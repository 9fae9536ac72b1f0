// Package outline is the task/group hierarchy of the application, stored in
// a tree.Tree of model.Entry values.
package outline

import (
	"fmt"
	"slices"
	"strings"

	"case-cli/internal/model"
	"case-cli/internal/tree"
)

// InboxName is the root group seeded into a fresh outline.
const InboxName = "Inbox"

type Outline struct {
	t *tree.Tree[model.Entry]
}

// New returns an outline with a single root group named Inbox.
func New() *Outline {
	t := tree.NewBuilder[model.Entry]().
		WithRoot(tree.NewNode(model.GroupEntry(model.Group{Name: InboxName}))).
		Build()
	return &Outline{t: t}
}

// Empty returns an outline with no root.
func Empty() *Outline {
	return &Outline{t: tree.New[model.Entry]()}
}

// FromSnapshot rebuilds an outline from tree.Snapshot output.
func FromSnapshot(s tree.Snapshot[model.Entry]) (*Outline, error) {
	t, err := tree.FromSnapshot(cloneSnapshot(s))
	if err != nil {
		return nil, err
	}
	return &Outline{t: t}, nil
}

// Snapshot returns a structural copy that shares no entries with o.
func (o *Outline) Snapshot() tree.Snapshot[model.Entry] { return cloneSnapshot(o.t.Snapshot()) }

func cloneSnapshot(s tree.Snapshot[model.Entry]) tree.Snapshot[model.Entry] {
	nodes := make([]tree.SnapshotNode[model.Entry], len(s.Nodes))
	for i, n := range s.Nodes {
		n.Data = n.Data.Clone()
		nodes[i] = n
	}
	s.Nodes = nodes
	return s
}

// Tree exposes the underlying tree for read-only traversal.
func (o *Outline) Tree() *tree.Tree[model.Entry] { return o.t }

func (o *Outline) Root() (tree.Handle, bool) { return o.t.Root() }
func (o *Outline) Len() int                  { return o.t.Len() }
func (o *Outline) Height() int               { return o.t.Height() }
func (o *Outline) Contains(h tree.Handle) bool {
	return o.t.Contains(h)
}

// Resolve parses a handle typed by a user and checks it is live. Unlike
// the tree methods it never panics on an out-of-range index.
func (o *Outline) Resolve(s string) (tree.Handle, error) {
	h, err := tree.ParseHandle(s)
	if err != nil {
		return tree.Handle{}, err
	}
	if !o.t.Contains(h) {
		return tree.Handle{}, &tree.HandleError{Op: "resolve", Handle: h}
	}
	return h, nil
}

// Get returns a copy of the entry at h.
func (o *Outline) Get(h tree.Handle) (model.Entry, error) {
	n, err := o.t.Get(h)
	if err != nil {
		return model.Entry{}, err
	}
	return n.Data().Clone(), nil
}

// Equal compares outlines by live shape and entry values.
func (o *Outline) Equal(other *Outline) bool {
	return o.t.Equal(other.t, model.Entry.Equal)
}

func (o *Outline) AddTask(parent tree.Handle, t model.Task) (tree.Handle, error) {
	if err := checkName(t.Name); err != nil {
		return tree.Handle{}, err
	}
	t.Name = strings.TrimSpace(t.Name)
	return o.t.Insert(tree.NewNode(model.TaskEntry(t)), tree.UnderNode(parent))
}

func (o *Outline) AddGroup(parent tree.Handle, g model.Group) (tree.Handle, error) {
	if err := checkName(g.Name); err != nil {
		return tree.Handle{}, err
	}
	g.Name = strings.TrimSpace(g.Name)
	return o.t.Insert(tree.NewNode(model.GroupEntry(g)), tree.UnderNode(parent))
}

// AddRootGroup inserts g as the new root; the previous root becomes its
// first child.
func (o *Outline) AddRootGroup(g model.Group) (tree.Handle, error) {
	if err := checkName(g.Name); err != nil {
		return tree.Handle{}, err
	}
	g.Name = strings.TrimSpace(g.Name)
	return o.t.Insert(tree.NewNode(model.GroupEntry(g)), tree.AsRoot())
}

// Move makes h the last child of to.
func (o *Outline) Move(h, to tree.Handle) error {
	return o.t.Move(h, tree.ToParent(to))
}

func (o *Outline) MoveToRoot(h tree.Handle) error {
	return o.t.Move(h, tree.ToRoot())
}

// Indent moves h under its previous sibling, as that sibling's last child.
func (o *Outline) Indent(h tree.Handle) error {
	parent, err := o.parentOf("indent", h)
	if err != nil {
		return err
	}
	siblings := parent.Children()
	i := slices.Index(siblings, h)
	if i <= 0 {
		return fmt.Errorf("indent %s: %w", h, ErrNoPreviousSibling)
	}
	return o.t.Move(h, tree.ToParent(siblings[i-1]))
}

// Outdent moves h up one level, as the last child of its grandparent.
func (o *Outline) Outdent(h tree.Handle) error {
	parent, err := o.parentOf("outdent", h)
	if err != nil {
		return err
	}
	grand, ok := parent.Parent()
	if !ok {
		return fmt.Errorf("outdent %s: %w", h, ErrAtTopLevel)
	}
	return o.t.Move(h, tree.ToParent(grand))
}

func (o *Outline) parentOf(op string, h tree.Handle) (*tree.Node[model.Entry], error) {
	n, err := o.t.Get(h)
	if err != nil {
		return nil, err
	}
	p, ok := n.Parent()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, h, ErrAtTopLevel)
	}
	return o.t.Get(p)
}

// ParseRemoveMode maps drop, lift and orphan to tree remove behaviors.
func ParseRemoveMode(s string) (tree.RemoveBehavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop", "":
		return tree.DropChildren, nil
	case "lift":
		return tree.LiftChildren, nil
	case "orphan":
		return tree.OrphanChildren, nil
	default:
		return 0, fmt.Errorf("invalid remove mode %q (expected drop|lift|orphan)", s)
	}
}

// Remove deletes h and returns its entry.
func (o *Outline) Remove(h tree.Handle, mode tree.RemoveBehavior) (model.Entry, error) {
	n, err := o.t.Remove(h, mode)
	if err != nil {
		return model.Entry{}, err
	}
	return n.Data(), nil
}

func (o *Outline) Rename(h tree.Handle, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	e, err := o.entry(h)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	switch {
	case e.IsTask():
		e.Task.Name = name
	case e.IsGroup():
		e.Group.Name = name
	}
	return nil
}

func (o *Outline) SetPriority(h tree.Handle, p model.Priority) error {
	e, err := o.entry(h)
	if err != nil {
		return err
	}
	if !e.IsGroup() {
		return KindError{Op: "set-priority", Handle: h, Want: model.EntryKindGroup}
	}
	e.Group.Priority = p
	return nil
}

func (o *Outline) SetDue(h tree.Handle, due model.DueDateTime) error {
	e, err := o.entry(h)
	if err != nil {
		return err
	}
	if !e.IsTask() {
		return KindError{Op: "set-due", Handle: h, Want: model.EntryKindTask}
	}
	e.Task.Due = due
	return nil
}

func (o *Outline) SetDescription(h tree.Handle, description string) error {
	e, err := o.entry(h)
	if err != nil {
		return err
	}
	if !e.IsTask() {
		return KindError{Op: "set-description", Handle: h, Want: model.EntryKindTask}
	}
	e.Task.Description = description
	return nil
}

// SortChildren orders the children of h with model.CompareEntries.
func (o *Outline) SortChildren(h tree.Handle) error {
	return o.t.SortChildrenBy(h, func(a, b *tree.Node[model.Entry]) int {
		return model.CompareEntries(a.Data(), b.Data())
	})
}

// Path returns the titles from the root down to h, inclusive.
func (o *Outline) Path(h tree.Handle) ([]string, error) {
	n, err := o.t.Get(h)
	if err != nil {
		return nil, err
	}
	it, err := o.t.Ancestors(h)
	if err != nil {
		return nil, err
	}
	path := []string{n.Data().Title()}
	for a := range it.Seq() {
		path = append(path, a.Data().Title())
	}
	slices.Reverse(path)
	return path, nil
}

// Orphans returns parentless nodes other than the root, in index order.
func (o *Outline) Orphans() []tree.Handle {
	root, hasRoot := o.t.Root()
	var out []tree.Handle
	for h, n := range o.t.All() {
		if _, ok := n.Parent(); ok || (hasRoot && h == root) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Render draws the outline as ASCII art, then each orphaned subtree.
func (o *Outline) Render() string {
	var b strings.Builder
	_ = o.t.WriteFormattedFunc(&b, model.Entry.String)
	for _, h := range o.Orphans() {
		_ = o.t.WriteSubtree(&b, h, model.Entry.String)
	}
	return b.String()
}

// RenderFrom draws only the subtree rooted at h.
func (o *Outline) RenderFrom(h tree.Handle) (string, error) {
	var b strings.Builder
	if err := o.t.WriteSubtree(&b, h, model.Entry.String); err != nil {
		return "", err
	}
	return b.String(), nil
}

// entry returns a pointer into the tree for in-place edits.
func (o *Outline) entry(h tree.Handle) (*model.Entry, error) {
	n, err := o.t.Get(h)
	if err != nil {
		return nil, err
	}
	return n.DataPtr(), nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}
