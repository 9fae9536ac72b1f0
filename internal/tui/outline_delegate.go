package tui

import (
	"fmt"
	"io"
	"strings"

	"case-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// outlineDelegate draws one outline row per line: connector art, then the
// entry label.
type outlineDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newOutlineDelegate() outlineDelegate {
	return outlineDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d outlineDelegate) Height() int                             { return 1 }
func (d outlineDelegate) Spacing() int                            { return 0 }
func (d outlineDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d outlineDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	it, ok := item.(rowItem)
	if width < 4 || !ok {
		return
	}
	fmt.Fprint(w, d.renderRow(width, it, index == m.Index()))
}

func (d outlineDelegate) renderRow(width int, it rowItem, focused bool) string {
	base := d.normal
	if focused {
		base = d.selected
	}
	// Each segment carries the row background so inner resets don't clear it.
	seg := func(st lipgloss.Style, s string) string {
		if focused {
			st = st.Background(d.selected.GetBackground())
		}
		return st.Render(s)
	}

	var b strings.Builder
	b.WriteString(seg(styleMuted(), glyphPrefix(it.row.Prefix())))
	if it.row.Orphan && it.row.Depth == 0 {
		b.WriteString(seg(lipgloss.NewStyle().Foreground(colorOrphan), glyphDetached()))
	}

	e := it.row.Entry
	switch {
	case e.IsGroup():
		p := e.Group.Priority
		b.WriteString(seg(lipgloss.NewStyle().Foreground(priorityColor(p)), "["+p.String()+"] "))
		b.WriteString(seg(base.Bold(true), e.Group.Name))
	case e.IsTask():
		b.WriteString(seg(base, e.Task.Name))
		if e.Task.Due.IsSet() {
			b.WriteString(seg(styleMuted(), "  due "+e.Task.Due.Display()))
		}
		if strings.TrimSpace(e.Task.Description) != "" {
			b.WriteString(seg(styleMuted(), glyphHasDescription()))
		}
	default:
		b.WriteString(seg(base, e.String()))
	}
	if n := it.row.Children; n > 0 && e.Kind == model.EntryKindGroup {
		b.WriteString(seg(styleMuted(), fmt.Sprintf(" (%d)", n)))
	}

	out := b.String()
	// Fill to full width so the highlight covers the whole row.
	curW := xansi.StringWidth(out)
	if curW < width {
		out += seg(base, strings.Repeat(" ", width-curW))
	} else if curW > width {
		out = xansi.Truncate(out, width, "…")
	}
	return out
}
