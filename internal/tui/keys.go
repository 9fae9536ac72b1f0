package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down        key.Binding
	AddTask         key.Binding
	AddGroup        key.Binding
	Rename          key.Binding
	Due             key.Binding
	Priority        key.Binding
	Indent, Outdent key.Binding
	MoveToRoot      key.Binding
	Lift, Drop      key.Binding
	Sort            key.Binding
	EditDesc        key.Binding
	Yank            key.Binding
	ToggleDesc      key.Binding
	Quit            key.Binding
	Submit, Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		AddTask:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		AddGroup:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "add group")),
		Rename:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Due:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "due")),
		Priority:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		Indent:     key.NewBinding(key.WithKeys(">", "tab"), key.WithHelp(">", "indent")),
		Outdent:    key.NewBinding(key.WithKeys("<", "shift+tab"), key.WithHelp("<", "outdent")),
		MoveToRoot: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "make root")),
		Lift:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove (keep children)")),
		Drop:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "remove subtree")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort children")),
		EditDesc:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit description")),
		Yank:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy handle")),
		ToggleDesc: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "descriptions")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:     key.NewBinding(key.WithKeys("enter")),
		Cancel:     key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

// helpLine is the footer shown while browsing.
func (k keyMap) helpLine() []key.Binding {
	return []key.Binding{k.AddTask, k.AddGroup, k.Rename, k.Due, k.Priority, k.Indent, k.Outdent, k.Lift, k.Drop, k.Sort, k.EditDesc, k.Quit}
}
