package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	// The description pane follows the cursor, so the list height does too.
	mm := next.(appModel)
	mm.resize()
	return mm, cmd
}

func (m appModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibuffer = ""
	m.notice = false
	row, ok := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleDesc):
		m.opts.HideDescriptions = !m.opts.HideDescriptions
		return m, nil

	case key.Matches(msg, m.keys.AddTask), key.Matches(msg, m.keys.AddGroup):
		kind := promptAddTask
		if key.Matches(msg, m.keys.AddGroup) {
			kind = promptAddGroup
		}
		parent, err := m.addTarget(row, ok)
		if err != nil {
			m.flash(err)
			return m, nil
		}
		return m, m.openPrompt(kind, parent, "")
	}

	if !ok {
		// Everything below acts on the selected row.
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	h := row.Handle

	switch {
	case key.Matches(msg, m.keys.Rename):
		return m, m.openPrompt(promptRename, h, row.Entry.Title())

	case key.Matches(msg, m.keys.Due):
		if !row.Entry.IsTask() {
			m.flash(fmt.Errorf("%s is not a task", row.Entry.Title()))
			return m, nil
		}
		cur := ""
		if row.Entry.Task.Due.IsSet() {
			cur = row.Entry.Task.Due.Display()
		}
		return m, m.openPrompt(promptDue, h, cur)

	case key.Matches(msg, m.keys.EditDesc):
		if !row.Entry.IsTask() {
			m.flash(fmt.Errorf("%s is not a task", row.Entry.Title()))
			return m, nil
		}
		cmd, err := m.openDescriptionEditor(h, row.Entry.Task.Description)
		if err != nil {
			m.flash(err)
			return m, nil
		}
		return m, cmd

	case key.Matches(msg, m.keys.Yank):
		if err := m.clip(h.String()); err != nil {
			m.flash(fmt.Errorf("copy failed: %w", err))
			return m, nil
		}
		m.note("Copied " + h.String())

	case key.Matches(msg, m.keys.Priority):
		if !row.Entry.IsGroup() {
			m.flash(fmt.Errorf("%s is not a group", row.Entry.Title()))
			return m, nil
		}
		next := nextPriority(row.Entry.Group.Priority)
		m.apply("set-priority", h, func(o *outline.Outline) error { return o.SetPriority(h, next) })

	case key.Matches(msg, m.keys.Indent):
		m.apply("indent", h, func(o *outline.Outline) error { return o.Indent(h) })

	case key.Matches(msg, m.keys.Outdent):
		m.apply("outdent", h, func(o *outline.Outline) error { return o.Outdent(h) })

	case key.Matches(msg, m.keys.MoveToRoot):
		m.apply("move-to-root", h, func(o *outline.Outline) error { return o.MoveToRoot(h) })

	case key.Matches(msg, m.keys.Lift):
		m.apply("remove", h, func(o *outline.Outline) error {
			_, err := o.Remove(h, tree.LiftChildren)
			return err
		})

	case key.Matches(msg, m.keys.Drop):
		m.apply("remove", h, func(o *outline.Outline) error {
			_, err := o.Remove(h, tree.DropChildren)
			return err
		})

	case key.Matches(msg, m.keys.Sort):
		m.apply("sort", h, func(o *outline.Outline) error { return o.SortChildren(h) })

	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		kind, target, text := m.prompt, m.target, m.input.Value()
		m.closePrompt()
		m.submitPrompt(kind, target, text)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) submitPrompt(kind promptKind, target tree.Handle, text string) {
	switch kind {
	case promptAddTask:
		var added tree.Handle
		m.applyTo("add-task", &added, func(o *outline.Outline) (err error) {
			added, err = o.AddTask(target, model.Task{Name: text})
			return err
		})
	case promptAddGroup:
		var added tree.Handle
		m.applyTo("add-group", &added, func(o *outline.Outline) (err error) {
			added, err = o.AddGroup(target, model.Group{Name: text})
			return err
		})
	case promptRename:
		m.apply("rename", target, func(o *outline.Outline) error { return o.Rename(target, text) })
	case promptDue:
		due, err := model.ParseDue(text)
		if err != nil {
			m.flash(err)
			return
		}
		m.apply("set-due", target, func(o *outline.Outline) error { return o.SetDue(target, due) })
	}
}

// apply runs fn against the outline, saves, and keeps h selected.
func (m *appModel) apply(op string, h tree.Handle, fn func(o *outline.Outline) error) {
	m.applyTo(op, &h, fn)
}

// applyTo is apply with the handle to select read after fn runs, for
// edits that create the node they should select.
// A failed save rolls the outline back so the screen never shows unsaved
// state.
func (m *appModel) applyTo(op string, h *tree.Handle, fn func(o *outline.Outline) error) {
	var before tree.Snapshot[model.Entry]
	if m.save != nil {
		before = m.o.Snapshot()
	}
	if err := fn(m.o); err != nil {
		m.log.WithFields(logrus.Fields{"op": op, "via": "tui"}).WithError(err).Debug("edit rejected")
		m.flash(err)
		return
	}
	if m.save != nil {
		if err := m.save.Save(m.ctx, m.o); err != nil {
			m.log.WithFields(logrus.Fields{"op": op, "via": "tui"}).WithError(err).Error("save failed")
			m.flash(fmt.Errorf("save failed: %w", err))
			if restored, rerr := outline.FromSnapshot(before); rerr == nil {
				m.o = restored
			} else {
				m.log.WithFields(logrus.Fields{"op": op, "via": "tui"}).WithError(rerr).Error("rollback failed")
			}
		}
	}
	m.refresh(*h, m.o.Contains(*h))
}

// addTarget picks the parent for a new node: the selected group, or the
// selected task's parent. An empty outline gets a fresh root group.
func (m *appModel) addTarget(row outline.Row, ok bool) (tree.Handle, error) {
	if !ok {
		if _, hasRoot := m.o.Root(); hasRoot {
			return tree.Handle{}, errors.New("nothing selected")
		}
		var root tree.Handle
		m.applyTo("add-root", &root, func(o *outline.Outline) (err error) {
			root, err = o.AddRootGroup(model.Group{Name: outline.InboxName})
			return err
		})
		if !m.o.Contains(root) {
			return tree.Handle{}, errors.New("could not create a root group")
		}
		return root, nil
	}
	if row.Entry.IsGroup() {
		return row.Handle, nil
	}
	n, err := m.o.Tree().Get(row.Handle)
	if err != nil {
		return tree.Handle{}, err
	}
	if p, hasParent := n.Parent(); hasParent {
		return p, nil
	}
	return row.Handle, nil
}

func (m *appModel) openPrompt(kind promptKind, target tree.Handle, initial string) tea.Cmd {
	m.prompt = kind
	m.target = target
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *appModel) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *appModel) flash(err error) {
	m.minibuffer = err.Error()
	m.notice = false
}

func (m *appModel) note(s string) {
	m.minibuffer = s
	m.notice = true
}

func nextPriority(p model.Priority) model.Priority {
	i := slices.Index(model.Priorities, p)
	return model.Priorities[(i+1)%len(model.Priorities)]
}

// breadcrumb is the selected node's path from the root.
func (m appModel) breadcrumb() string {
	row, ok := m.selected()
	if !ok {
		return ""
	}
	path, err := m.o.Path(row.Handle)
	if err != nil {
		return ""
	}
	return strings.Join(path, glyphCrumbSep())
}
