package publish

import (
	"bytes"
	"strings"

	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"
)

type RenderOptions struct {
	IncludeDescriptions bool
}

// RenderOutlineMarkdown renders the whole outline: the root as a heading,
// its descendants as a nested list, then any detached subtrees.
func RenderOutlineMarkdown(o *outline.Outline, opt RenderOptions) string {
	var buf bytes.Buffer
	var rooted, orphans []outline.Row
	for _, r := range o.Rows() {
		if r.Orphan {
			orphans = append(orphans, r)
			continue
		}
		rooted = append(rooted, r)
	}

	writeDocument(&buf, rooted, opt)
	if len(orphans) > 0 {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("## Detached\n\n")
		writeList(&buf, orphans, 0, opt)
	}
	return buf.String()
}

// RenderSubtreeMarkdown renders the subtree rooted at h as its own document.
func RenderSubtreeMarkdown(o *outline.Outline, h tree.Handle, opt RenderOptions) (string, error) {
	rows, err := o.RowsFrom(h)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	writeDocument(&buf, rows, opt)
	return buf.String(), nil
}

func writeDocument(buf *bytes.Buffer, rows []outline.Row, opt RenderOptions) {
	if len(rows) == 0 {
		return
	}
	head := rows[0]
	buf.WriteString("# " + oneLine(head.Entry.Title()) + "\n")
	if meta := entryMeta(head.Entry); meta != "" {
		buf.WriteString("\n" + meta + "\n")
	}
	if opt.IncludeDescriptions {
		if d := description(head.Entry); d != "" {
			buf.WriteString("\n" + d + "\n")
		}
	}
	if len(rows) > 1 {
		buf.WriteString("\n")
		writeList(buf, rows[1:], 1, opt)
	}
}

// writeList emits rows as a nested bullet list; base is the depth drawn
// without indentation.
func writeList(buf *bytes.Buffer, rows []outline.Row, base int, opt RenderOptions) {
	for _, r := range rows {
		indent := strings.Repeat("  ", max(r.Depth-base, 0))
		buf.WriteString(indent + "- " + listLabel(r.Entry) + "\n")
		if !opt.IncludeDescriptions {
			continue
		}
		d := description(r.Entry)
		if d == "" {
			continue
		}
		for _, line := range strings.Split(d, "\n") {
			if line == "" {
				buf.WriteString(indent + "  >\n")
				continue
			}
			buf.WriteString(indent + "  > " + line + "\n")
		}
	}
}

func listLabel(e model.Entry) string {
	switch {
	case e.IsGroup():
		return "**" + oneLine(e.Group.Name) + "** (" + e.Group.Priority.String() + ")"
	case e.IsTask():
		s := oneLine(e.Task.Name)
		if e.Task.Due.IsSet() {
			s += " (due " + e.Task.Due.Display() + ")"
		}
		return s
	default:
		return oneLine(e.String())
	}
}

func entryMeta(e model.Entry) string {
	switch {
	case e.IsGroup():
		return "Priority: " + e.Group.Priority.String()
	case e.IsTask() && e.Task.Due.IsSet():
		return "Due: " + e.Task.Due.Display()
	default:
		return ""
	}
}

func description(e model.Entry) string {
	if !e.IsTask() {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(e.Task.Description, "\r\n", "\n"))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
