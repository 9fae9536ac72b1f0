package outline

import (
	"encoding/json"
	"strings"
	"testing"

	"case-cli/internal/model"
	"case-cli/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	o                     *Outline
	inbox, work, home     tree.Handle
	report, review, plant tree.Handle
}

// newFixture builds
//
//	[medium] Inbox
//	├── [high] Work
//	│   ├── report
//	│   └── review
//	└── [low] Home
//	    └── water plants
func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{o: New()}
	var ok bool
	f.inbox, ok = f.o.Root()
	require.True(t, ok)

	var err error
	f.work, err = f.o.AddGroup(f.inbox, model.Group{Name: "Work", Priority: model.PriorityHigh})
	require.NoError(t, err)
	f.report, err = f.o.AddTask(f.work, model.Task{Name: "report"})
	require.NoError(t, err)
	f.review, err = f.o.AddTask(f.work, model.Task{Name: "review"})
	require.NoError(t, err)
	f.home, err = f.o.AddGroup(f.inbox, model.Group{Name: "Home", Priority: model.PriorityLow})
	require.NoError(t, err)
	f.plant, err = f.o.AddTask(f.home, model.Task{Name: "water plants"})
	require.NoError(t, err)
	return f
}

func TestNewSeedsInbox(t *testing.T) {
	o := New()
	root, ok := o.Root()
	require.True(t, ok)
	e, err := o.Get(root)
	require.NoError(t, err)
	assert.True(t, e.IsGroup())
	assert.Equal(t, InboxName, e.Title())
	assert.Equal(t, model.PriorityMedium, e.Group.Priority)
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	want := "" +
		"[medium] Inbox\n" +
		"├── [high] Work\n" +
		"│   ├── report\n" +
		"│   └── review\n" +
		"└── [low] Home\n" +
		"    └── water plants\n"
	assert.Equal(t, want, f.o.Render())

	sub, err := f.o.RenderFrom(f.work)
	require.NoError(t, err)
	assert.Equal(t, "[high] Work\n├── report\n└── review\n", sub)
}

func TestRowsMatchRender(t *testing.T) {
	f := newFixture(t)
	rows := f.o.Rows()
	require.Len(t, rows, 6)

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Prefix() + r.Entry.String() + "\n")
	}
	assert.Equal(t, f.o.Render(), b.String())

	assert.Equal(t, 0, rows[0].Depth)
	assert.Equal(t, 2, rows[2].Depth)
	assert.False(t, rows[2].Last())
	assert.True(t, rows[3].Last())
	assert.Equal(t, 2, rows[1].Children)
	assert.Equal(t, 4, Index(rows, f.home))
	missing, err := tree.ParseHandle("n99")
	require.NoError(t, err)
	assert.Equal(t, -1, Index(rows, missing))
}

func TestRowsIncludeOrphans(t *testing.T) {
	f := newFixture(t)
	_, err := f.o.Remove(f.work, tree.OrphanChildren)
	require.NoError(t, err)

	assert.ElementsMatch(t, []tree.Handle{f.report, f.review}, f.o.Orphans())
	rows := f.o.Rows()
	require.Len(t, rows, 5)
	assert.True(t, rows[3].Orphan)
	assert.Equal(t, 0, rows[3].Depth)
	assert.Contains(t, f.o.Render(), "\nreport\n")
}

func TestKindChecks(t *testing.T) {
	f := newFixture(t)

	err := f.o.SetPriority(f.report, model.PriorityAsap)
	require.ErrorIs(t, err, ErrNotAGroup)
	assert.NotErrorIs(t, err, ErrNotATask)

	require.ErrorIs(t, f.o.SetDue(f.work, model.DueDateTime{}), ErrNotATask)
	require.ErrorIs(t, f.o.SetDescription(f.home, "x"), ErrNotATask)

	var ke KindError
	require.ErrorAs(t, f.o.SetDue(f.home, model.DueDateTime{}), &ke)
	assert.Equal(t, "set-due", ke.Op)
}

func TestEdits(t *testing.T) {
	f := newFixture(t)
	due, err := model.ParseDue("2024-05-01 09:30")
	require.NoError(t, err)

	require.NoError(t, f.o.Rename(f.report, "  quarterly report "))
	require.NoError(t, f.o.SetDue(f.report, due))
	require.NoError(t, f.o.SetDescription(f.report, "numbers **first**"))
	require.NoError(t, f.o.SetPriority(f.home, model.PriorityFar))

	e, err := f.o.Get(f.report)
	require.NoError(t, err)
	assert.Equal(t, "quarterly report", e.Task.Name)
	assert.Equal(t, "2024-05-01 09:30", e.Task.Due.Display())
	assert.Equal(t, "numbers **first**", e.Task.Description)

	g, err := f.o.Get(f.home)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityFar, g.Group.Priority)

	require.ErrorIs(t, f.o.Rename(f.report, "  "), ErrEmptyName)
	_, err = f.o.AddTask(f.work, model.Task{})
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestGetReturnsCopy(t *testing.T) {
	f := newFixture(t)
	e, err := f.o.Get(f.report)
	require.NoError(t, err)
	e.Task.Name = "changed"

	again, err := f.o.Get(f.report)
	require.NoError(t, err)
	assert.Equal(t, "report", again.Title())
}

func TestIndentOutdent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.o.Indent(f.home))
	path, err := f.o.Path(f.plant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inbox", "Work", "Home", "water plants"}, path)

	require.ErrorIs(t, f.o.Indent(f.report), ErrNoPreviousSibling)

	require.NoError(t, f.o.Outdent(f.home))
	path, err = f.o.Path(f.plant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inbox", "Home", "water plants"}, path)

	require.ErrorIs(t, f.o.Outdent(f.work), ErrAtTopLevel)
	require.ErrorIs(t, f.o.Outdent(f.inbox), ErrAtTopLevel)
}

func TestMoveAndMoveToRoot(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.o.Move(f.review, f.home))
	path, err := f.o.Path(f.review)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inbox", "Home", "review"}, path)

	require.NoError(t, f.o.MoveToRoot(f.work))
	root, _ := f.o.Root()
	assert.Equal(t, f.work, root)
	path, err = f.o.Path(f.plant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Inbox", "Home", "water plants"}, path)
	require.NoError(t, f.o.Tree().Validate())
}

func TestMoveGroupBelowItsOwnTask(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.o.Move(f.work, f.review))

	want := "" +
		"[medium] Inbox\n" +
		"├── [low] Home\n" +
		"│   └── water plants\n" +
		"└── review\n" +
		"    └── [high] Work\n" +
		"        └── report\n"
	assert.Equal(t, want, f.o.Render())
}

func TestRemoveModes(t *testing.T) {
	tests := []struct {
		mode string
		want string
		len  int
	}{
		{"drop", "[medium] Inbox\n└── [low] Home\n    └── water plants\n", 3},
		{"lift", "[medium] Inbox\n├── [low] Home\n│   └── water plants\n├── report\n└── review\n", 5},
		{"orphan", "[medium] Inbox\n└── [low] Home\n    └── water plants\nreport\nreview\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			f := newFixture(t)
			mode, err := ParseRemoveMode(tt.mode)
			require.NoError(t, err)

			e, err := f.o.Remove(f.work, mode)
			require.NoError(t, err)
			assert.Equal(t, "Work", e.Title())
			assert.Equal(t, tt.want, f.o.Render())
			assert.Equal(t, tt.len, f.o.Len())
		})
	}

	_, err := ParseRemoveMode("shred")
	assert.Error(t, err)
}

func TestSortChildren(t *testing.T) {
	o := New()
	root, _ := o.Root()
	soon, _ := model.ParseDue("2024-01-01")
	_, _ = o.AddTask(root, model.Task{Name: "undated"})
	_, _ = o.AddGroup(root, model.Group{Name: "Someday", Priority: model.PriorityFar})
	_, _ = o.AddTask(root, model.Task{Name: "soon", Due: soon})
	_, _ = o.AddGroup(root, model.Group{Name: "Now", Priority: model.PriorityAsap})

	require.NoError(t, o.SortChildren(root))

	var titles []string
	for _, r := range o.Rows()[1:] {
		titles = append(titles, r.Entry.Title())
	}
	assert.Equal(t, []string{"Now", "Someday", "soon", "undated"}, titles)
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	f := newFixture(t)
	_, err := f.o.Remove(f.review, tree.DropChildren)
	require.NoError(t, err)

	raw, err := json.Marshal(f.o.Snapshot())
	require.NoError(t, err)
	var snap tree.Snapshot[model.Entry]
	require.NoError(t, json.Unmarshal(raw, &snap))

	back, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.True(t, f.o.Equal(back))
	assert.Equal(t, f.o.Render(), back.Render())

	require.NoError(t, back.Rename(f.report, "edited"))
	assert.False(t, f.o.Equal(back))
}

func TestFromSnapshotRejectsCorruption(t *testing.T) {
	f := newFixture(t)
	snap := f.o.Snapshot()
	snap.Nodes[1].Children = nil

	_, err := FromSnapshot(snap)
	require.ErrorIs(t, err, tree.ErrCorruptSnapshot)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	h, err := f.o.Resolve("n2")
	require.NoError(t, err)
	assert.Equal(t, f.report, h)

	_, err = f.o.Remove(f.report, tree.DropChildren)
	require.NoError(t, err)
	_, err = f.o.Resolve("n2")
	assert.ErrorIs(t, err, tree.ErrInvalidHandle)

	_, err = f.o.Resolve("n99")
	assert.ErrorIs(t, err, tree.ErrInvalidHandle)

	_, err = f.o.Resolve("bogus")
	assert.Error(t, err)
}
