package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"case-cli/internal/format"
	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/mark3labs/mcp-go/mcp"
)

// ─── ShowTool ──────────────────────────────────────────────────────────────

// ShowTool handles the outline_show MCP tool.
type ShowTool struct {
	b *Backend
}

func NewShowTool(b *Backend) *ShowTool { return &ShowTool{b: b} }

func (t *ShowTool) Definition() mcp.Tool {
	return mcp.NewTool("outline_show",
		mcp.WithDescription("Show the outline with node handles. Call this before editing so you know which handles exist."),
		mcp.WithString("from",
			mcp.Description("Optional handle; show only the subtree under it"),
		),
		mcp.WithString("view",
			mcp.Description("tree (default): indented text with handles; json: flattened rows with depth and entry"),
		),
	)
}

func (t *ShowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	view := req.GetString("view", "tree")
	if view != "tree" && view != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown view %q (want tree or json)", view)), nil
	}

	var out string
	err := t.b.read(ctx, func(o *outline.Outline) error {
		rows := o.Rows()
		if from != "" {
			h, err := o.Resolve(from)
			if err != nil {
				return err
			}
			if rows, err = o.RowsFrom(h); err != nil {
				return err
			}
		}
		if view == "json" {
			var buf bytes.Buffer
			if err := format.WriteJSON(&buf, rows, true); err != nil {
				return err
			}
			out = buf.String()
			return nil
		}
		out = renderRows(rows)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// renderRows draws rows as connector art with each node's handle.
func renderRows(rows []outline.Row) string {
	if len(rows) == 0 {
		return "(empty outline)"
	}
	var b strings.Builder
	for _, r := range rows {
		if r.Orphan && r.Depth == 0 {
			b.WriteString("(orphan) ")
		}
		fmt.Fprintf(&b, "%s%s  [%s]\n", r.Prefix(), r.Entry, r.Handle)
	}
	return b.String()
}

// ─── AddTool ───────────────────────────────────────────────────────────────

// AddTool handles the outline_add MCP tool.
type AddTool struct {
	b *Backend
}

func NewAddTool(b *Backend) *AddTool { return &AddTool{b: b} }

func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool("outline_add",
		mcp.WithDescription("Add a task or group as the last child of a parent node."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("task or group"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Task or group name"),
		),
		mcp.WithString("parent",
			mcp.Description("Parent handle (default: the root)"),
		),
		mcp.WithString("due",
			mcp.Description("Tasks only: due date, YYYY-MM-DD or YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("description",
			mcp.Description("Tasks only: markdown description"),
		),
		mcp.WithString("priority",
			mcp.Description("Groups only: asap, high, medium (default), low or far"),
		),
	)
}

func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := model.EntryKind(strings.ToLower(req.GetString("kind", "")))
	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	var entry model.Entry
	switch kind {
	case model.EntryKindTask:
		due, err := model.ParseDue(req.GetString("due", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entry = model.TaskEntry(model.Task{Name: name, Due: due, Description: req.GetString("description", "")})
	case model.EntryKindGroup:
		p, err := model.ParsePriority(req.GetString("priority", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entry = model.GroupEntry(model.Group{Name: name, Priority: p})
	default:
		return mcp.NewToolResultError("'kind' must be task or group"), nil
	}

	var msg string
	err := t.b.write(ctx, "add", func(o *outline.Outline) error {
		parent, err := parentOrRoot(o, req.GetString("parent", ""))
		if err != nil {
			return err
		}
		var h tree.Handle
		if entry.IsTask() {
			h, err = o.AddTask(parent, *entry.Task)
		} else {
			h, err = o.AddGroup(parent, *entry.Group)
		}
		if err != nil {
			return err
		}
		msg, err = describe(o, "Added", h)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add %s: %v", kind, err)), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── UpdateTool ────────────────────────────────────────────────────────────

// UpdateTool handles the outline_update MCP tool.
type UpdateTool struct {
	b *Backend
}

func NewUpdateTool(b *Backend) *UpdateTool { return &UpdateTool{b: b} }

func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("outline_update",
		mcp.WithDescription("Edit a node. Only the fields you pass change. Use sort=true to order the node's children."),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Handle of the node to edit"),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
		),
		mcp.WithString("priority",
			mcp.Description("Groups only: asap, high, medium, low or far"),
		),
		mcp.WithString("due",
			mcp.Description("Tasks only: new due date, or none to clear it"),
		),
		mcp.WithString("description",
			mcp.Description("Tasks only: new markdown description"),
		),
		mcp.WithBoolean("sort",
			mcp.Description("Sort the node's children: groups by priority, then tasks by due date"),
		),
	)
}

func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}
	args := req.GetArguments()
	has := func(k string) bool { _, ok := args[k]; return ok }

	var msg string
	err := t.b.write(ctx, "update", func(o *outline.Outline) error {
		h, err := o.Resolve(handle)
		if err != nil {
			return err
		}
		if has("name") {
			if err := o.Rename(h, req.GetString("name", "")); err != nil {
				return err
			}
		}
		if has("priority") {
			p, err := model.ParsePriority(req.GetString("priority", ""))
			if err != nil {
				return err
			}
			if err := o.SetPriority(h, p); err != nil {
				return err
			}
		}
		if has("due") {
			d, err := model.ParseDue(req.GetString("due", ""))
			if err != nil {
				return err
			}
			if err := o.SetDue(h, d); err != nil {
				return err
			}
		}
		if has("description") {
			if err := o.SetDescription(h, req.GetString("description", "")); err != nil {
				return err
			}
		}
		if req.GetBool("sort", false) {
			if err := o.SortChildren(h); err != nil {
				return err
			}
		}
		msg, err = describe(o, "Updated", h)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update %s: %v", handle, err)), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── MoveTool ──────────────────────────────────────────────────────────────

// MoveTool handles the outline_move MCP tool.
type MoveTool struct {
	b *Backend
}

func NewMoveTool(b *Backend) *MoveTool { return &MoveTool{b: b} }

func (t *MoveTool) Definition() mcp.Tool {
	return mcp.NewTool("outline_move",
		mcp.WithDescription(
			"Move a node and its subtree. Pass 'to' to make it the last child of that node, or root=true to make it the root. "+
				"Moving a node below one of its own descendants first lifts that descendant up to the node's old parent.",
		),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Handle of the node to move"),
		),
		mcp.WithString("to",
			mcp.Description("Handle of the new parent"),
		),
		mcp.WithBoolean("root",
			mcp.Description("Make the node the root of the outline"),
		),
	)
}

func (t *MoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	to := req.GetString("to", "")
	toRoot := req.GetBool("root", false)
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}
	if toRoot == (to != "") {
		return mcp.NewToolResultError("pass exactly one of 'to' or root=true"), nil
	}

	var msg string
	err := t.b.write(ctx, "move", func(o *outline.Outline) error {
		h, err := o.Resolve(handle)
		if err != nil {
			return err
		}
		if toRoot {
			err = o.MoveToRoot(h)
		} else {
			var target tree.Handle
			if target, err = o.Resolve(to); err != nil {
				return err
			}
			err = o.Move(h, target)
		}
		if err != nil {
			return err
		}
		msg, err = describe(o, "Moved", h)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to move %s: %v", handle, err)), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── RemoveTool ────────────────────────────────────────────────────────────

// RemoveTool handles the outline_remove MCP tool.
type RemoveTool struct {
	b *Backend
}

func NewRemoveTool(b *Backend) *RemoveTool { return &RemoveTool{b: b} }

func (t *RemoveTool) Definition() mcp.Tool {
	return mcp.NewTool("outline_remove",
		mcp.WithDescription("Remove a node. The mode decides what happens to its children."),
		mcp.WithString("handle",
			mcp.Required(),
			mcp.Description("Handle of the node to remove"),
		),
		mcp.WithString("mode",
			mcp.Description("drop (default): delete the subtree; lift: children move up to the node's parent; orphan: children become parentless"),
		),
	)
}

func (t *RemoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := req.GetString("handle", "")
	if handle == "" {
		return mcp.NewToolResultError("'handle' is required"), nil
	}
	mode, err := outline.ParseRemoveMode(req.GetString("mode", "drop"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var msg string
	err = t.b.write(ctx, "remove", func(o *outline.Outline) error {
		h, err := o.Resolve(handle)
		if err != nil {
			return err
		}
		e, err := o.Remove(h, mode)
		if err != nil {
			return err
		}
		msg = fmt.Sprintf("Removed %s %q (%s) with %s. %d nodes left.", e.Kind, e.Title(), h, mode, o.Len())
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove %s: %v", handle, err)), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── helpers ───────────────────────────────────────────────────────────────

func parentOrRoot(o *outline.Outline, parent string) (tree.Handle, error) {
	if strings.TrimSpace(parent) != "" {
		return o.Resolve(parent)
	}
	root, ok := o.Root()
	if !ok {
		return tree.Handle{}, fmt.Errorf("the outline has no root; pass 'parent'")
	}
	return root, nil
}

func describe(o *outline.Outline, verb string, h tree.Handle) (string, error) {
	e, err := o.Get(h)
	if err != nil {
		return "", err
	}
	path, err := o.Path(h)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %q as %s\nPath: %s", verb, e.Kind, e.Title(), h, strings.Join(path, " > ")), nil
}
