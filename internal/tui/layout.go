package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	headerHeight = 1
	footerHeight = 1
)

// descriptionPane returns the rendered description of the selected task,
// or "" when there is none to show.
func (m appModel) descriptionPane() string {
	if m.opts.HideDescriptions || m.width <= 0 {
		return ""
	}
	row, ok := m.selected()
	if !ok || !row.Entry.IsTask() {
		return ""
	}
	body := renderMarkdown(row.Entry.Task.Description, m.opts.MarkdownStyle, m.width-2)
	if body == "" {
		return ""
	}
	// At most a third of the screen.
	maxLines := max(m.height/3, 3)
	lines := strings.Split(body, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], styleMuted().Render("…"))
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) resize() {
	h := m.height - headerHeight - footerHeight
	if pane := m.descriptionPane(); pane != "" {
		h -= lipgloss.Height(pane) + 1
	}
	m.list.SetSize(m.width, max(h, 1))
}

func (m appModel) View() string {
	if m.width <= 0 {
		return ""
	}
	parts := []string{m.header(), m.list.View()}
	if pane := m.descriptionPane(); pane != "" {
		rule := styleMuted().Render(strings.Repeat(glyphHRule(), m.width))
		parts = append(parts, rule+"\n"+pane)
	}
	parts = append(parts, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m appModel) header() string {
	left := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("CASE")
	crumb := styleChrome().Render(m.breadcrumb())
	right := styleMuted().Render(nodesLabel(m.o.Len()))
	gap := m.width - xansi.StringWidth(left) - xansi.StringWidth(crumb) - xansi.StringWidth(right) - 2
	if gap < 1 {
		return xansi.Truncate(left+" "+crumb, m.width, "…")
	}
	return left + " " + crumb + strings.Repeat(" ", gap) + " " + right
}

func (m appModel) footer() string {
	if m.prompt != promptNone {
		return renderInputLine(m.width, m.prompt.label(), m.input.View())
	}
	if m.minibuffer != "" {
		style := styleError()
		if m.notice {
			style = styleMuted()
		}
		return xansi.Truncate(style.Render(m.minibuffer), m.width, "…")
	}
	var parts []string
	for _, b := range m.keys.helpLine() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return xansi.Truncate(styleMuted().Render(strings.Join(parts, " · ")), m.width, "…")
}

func nodesLabel(n int) string {
	if n == 1 {
		return "1 node"
	}
	return strconv.Itoa(n) + " nodes"
}
