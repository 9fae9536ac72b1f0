package cli

import (
	"strings"

	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/spf13/cobra"
)

// nodeResult is the data returned by commands that touch one node.
type nodeResult struct {
	Handle tree.Handle `json:"handle"`
	Entry  model.Entry `json:"entry"`
	Path   []string    `json:"path,omitempty"`
}

func describe(o *outline.Outline, h tree.Handle) (nodeResult, error) {
	e, err := o.Get(h)
	if err != nil {
		return nodeResult{}, err
	}
	path, err := o.Path(h)
	if err != nil {
		return nodeResult{}, err
	}
	return nodeResult{Handle: h, Entry: e, Path: path}, nil
}

// parentOrRoot resolves --parent, defaulting to the root.
func parentOrRoot(o *outline.Outline, parent string) (tree.Handle, error) {
	if strings.TrimSpace(parent) != "" {
		return resolve(o, parent)
	}
	root, ok := o.Root()
	if !ok {
		return tree.Handle{}, errUsage("the outline has no root; pass --parent")
	}
	return root, nil
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task or group",
	}
	cmd.AddCommand(newAddTaskCmd(app))
	cmd.AddCommand(newAddGroupCmd(app))
	return cmd
}

func newAddTaskCmd(app *App) *cobra.Command {
	var parent, name, due, description string

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add a task as the last child of --parent (default: root)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDue(due)
			if err != nil {
				return writeErr(cmd, err)
			}
			return mutate(cmd, app, "add-task", func(o *outline.Outline) (any, error) {
				p, err := parentOrRoot(o, parent)
				if err != nil {
					return nil, err
				}
				h, err := o.AddTask(p, model.Task{Name: name, Due: d, Description: description})
				if err != nil {
					return nil, err
				}
				return describe(o, h)
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent handle (default: root)")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAddGroupCmd(app *App) *cobra.Command {
	var parent, name, priority string
	var asRoot bool

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Add a group under --parent, or as the new root with --root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			if asRoot && parent != "" {
				return writeErr(cmd, errUsage("--root and --parent are mutually exclusive"))
			}
			return mutate(cmd, app, "add-group", func(o *outline.Outline) (any, error) {
				g := model.Group{Name: name, Priority: p}
				if asRoot {
					h, err := o.AddRootGroup(g)
					if err != nil {
						return nil, err
					}
					return describe(o, h)
				}
				ph, err := parentOrRoot(o, parent)
				if err != nil {
					return nil, err
				}
				h, err := o.AddGroup(ph, g)
				if err != nil {
					return nil, err
				}
				return describe(o, h)
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent handle (default: root)")
	cmd.Flags().StringVar(&name, "name", "", "Group name")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (asap|high|medium|low|far)")
	cmd.Flags().BoolVar(&asRoot, "root", false, "Make the group the new root; the old root becomes its first child")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var to string
	var toRoot bool

	cmd := &cobra.Command{
		Use:   "move <handle>",
		Short: "Move a node under --to, or make it the root with --root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toRoot == (to != "") {
				return writeErr(cmd, errUsage("pass exactly one of --to or --root"))
			}
			return mutate(cmd, app, "move", func(o *outline.Outline) (any, error) {
				h, err := resolve(o, args[0])
				if err != nil {
					return nil, err
				}
				if toRoot {
					err = o.MoveToRoot(h)
				} else {
					var target tree.Handle
					if target, err = resolve(o, to); err != nil {
						return nil, err
					}
					err = o.Move(h, target)
				}
				if err != nil {
					return nil, err
				}
				return describe(o, h)
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "New parent handle")
	cmd.Flags().BoolVar(&toRoot, "root", false, "Make the node the root")
	return cmd
}

func newIndentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "indent <handle>",
		Short: "Move a node under its previous sibling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, "indent", func(o *outline.Outline) (any, error) {
				h, err := resolve(o, args[0])
				if err != nil {
					return nil, err
				}
				if err := o.Indent(h); err != nil {
					return nil, err
				}
				return describe(o, h)
			})
		},
	}
}

func newOutdentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "outdent <handle>",
		Short: "Move a node up to its grandparent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, "outdent", func(o *outline.Outline) (any, error) {
				h, err := resolve(o, args[0])
				if err != nil {
					return nil, err
				}
				if err := o.Outdent(h); err != nil {
					return nil, err
				}
				return describe(o, h)
			})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:     "rm <handle>",
		Aliases: []string{"remove"},
		Short:   "Remove a node; --mode decides what happens to its children",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := outline.ParseRemoveMode(mode)
			if err != nil {
				return writeErr(cmd, err)
			}
			return mutate(cmd, app, "remove", func(o *outline.Outline) (any, error) {
				h, err := resolve(o, args[0])
				if err != nil {
					return nil, err
				}
				e, err := o.Remove(h, b)
				if err != nil {
					return nil, err
				}
				return map[string]any{"handle": h, "removed": e, "mode": b.String()}, nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "drop", "drop (delete subtree) | lift (children move up to its parent) | orphan (children become parentless)")
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <handle> <name>",
		Short: "Rename a task or group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNode(cmd, app, "rename", args[0], func(o *outline.Outline, h tree.Handle) error {
				return o.Rename(h, args[1])
			})
		},
	}
}

func newSetPriorityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-priority <handle> <asap|high|medium|low|far>",
		Short: "Set a group's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return editNode(cmd, app, "set-priority", args[0], func(o *outline.Outline, h tree.Handle) error {
				return o.SetPriority(h, p)
			})
		},
	}
}

func newSetDueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-due <handle> <date|none>",
		Short: "Set or clear a task's due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDue(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return editNode(cmd, app, "set-due", args[0], func(o *outline.Outline, h tree.Handle) error {
				return o.SetDue(h, d)
			})
		},
	}
}

func newSetDescriptionCmd(app *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "set-description <handle>",
		Short: "Set a task's markdown description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNode(cmd, app, "set-description", args[0], func(o *outline.Outline, h tree.Handle) error {
				return o.SetDescription(h, description)
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Markdown description (empty clears it)")
	return cmd
}

func newSortCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <handle>",
		Short: "Sort a node's children: groups by priority, then tasks by due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNode(cmd, app, "sort", args[0], func(o *outline.Outline, h tree.Handle) error {
				return o.SortChildren(h)
			})
		},
	}
}

func editNode(cmd *cobra.Command, app *App, op, arg string, fn func(o *outline.Outline, h tree.Handle) error) error {
	return mutate(cmd, app, op, func(o *outline.Outline) (any, error) {
		h, err := resolve(o, arg)
		if err != nil {
			return nil, err
		}
		if err := fn(o, h); err != nil {
			return nil, err
		}
		return describe(o, h)
	})
}
