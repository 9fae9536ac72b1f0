package tui

import (
	"context"

	"case-cli/internal/logging"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Options are the user preferences the TUI honors.
type Options struct {
	HideDescriptions bool
	MarkdownStyle    string
}

// saver persists the outline after each edit.
type saver interface {
	Save(ctx context.Context, o *outline.Outline) error
}

type promptKind int

const (
	promptNone promptKind = iota
	promptAddTask
	promptAddGroup
	promptRename
	promptDue
)

func (p promptKind) label() string {
	switch p {
	case promptAddTask:
		return "New task:"
	case promptAddGroup:
		return "New group:"
	case promptRename:
		return "Rename:"
	case promptDue:
		return "Due (YYYY-MM-DD [HH:MM] or none):"
	default:
		return ""
	}
}

type appModel struct {
	ctx  context.Context
	save saver
	log  logrus.FieldLogger
	opts Options
	keys keyMap

	o    *outline.Outline
	rows []outline.Row
	list list.Model

	input  textinput.Model
	prompt promptKind
	// target is the node a prompt applies to: the parent for adds, the node
	// itself for edits.
	target tree.Handle

	// clip copies text to the system clipboard.
	clip func(string) error
	// editorPath is the temp file of a running $EDITOR session.
	editorPath   string
	editorTarget tree.Handle
	editorBefore string

	width, height int
	// minibuffer holds the last message until the next key press; notice
	// marks it informational rather than an error.
	minibuffer string
	notice     bool
}

func newAppModel(ctx context.Context, o *outline.Outline, s saver, log logrus.FieldLogger, opts Options) appModel {
	if log == nil {
		log = logging.Discard()
	}
	l := list.New(nil, newOutlineDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.CharLimit = 200
	in.Width = 40

	m := appModel{
		ctx:   ctx,
		save:  s,
		log:   log,
		opts:  opts,
		keys:  defaultKeyMap(),
		o:     o,
		list:  l,
		input: in,
		clip:  copyToClipboard,
	}
	m.refresh(tree.Handle{}, false)
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// refresh rebuilds the rows and selects h when it is still present;
// otherwise the cursor stays at its index, clamped to the new length.
func (m *appModel) refresh(h tree.Handle, selectH bool) {
	idx := m.list.Index()
	m.rows = m.o.Rows()
	m.list.SetItems(toItems(m.rows))
	if selectH {
		if i := outline.Index(m.rows, h); i >= 0 {
			idx = i
		}
	}
	if idx >= len(m.rows) {
		idx = len(m.rows) - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.list.Select(idx)
}

// selected returns the row under the cursor.
func (m appModel) selected() (outline.Row, bool) {
	i := m.list.Index()
	if i < 0 || i >= len(m.rows) {
		return outline.Row{}, false
	}
	return m.rows[i], true
}
