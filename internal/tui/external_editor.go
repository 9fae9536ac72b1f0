package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"case-cli/internal/outline"
	"case-cli/internal/tree"

	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openDescriptionEditor suspends the TUI and edits the description of the
// task at h in $VISUAL or $EDITOR.
func (m *appModel) openDescriptionEditor(h tree.Handle, current string) (tea.Cmd, error) {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "case-description-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(current); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.editorPath = path
	m.editorTarget = h
	m.editorBefore = current

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	path, h, before := m.editorPath, m.editorTarget, m.editorBefore
	m.editorPath = ""
	m.editorTarget = tree.Handle{}
	m.editorBefore = ""

	if strings.TrimSpace(path) == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		m.flash(fmt.Errorf("editor failed: %w", msg.err))
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.flash(fmt.Errorf("editor read failed: %w", err))
		return
	}

	after := strings.TrimSpace(string(b))
	if after == strings.TrimSpace(before) {
		m.note("No changes from " + externalEditorName())
		return
	}
	m.apply("set-description", h, func(o *outline.Outline) error { return o.SetDescription(h, after) })
	if m.minibuffer == "" {
		m.note("Description updated")
	}
}
