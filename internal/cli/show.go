package cli

import (
	"slices"

	"case-cli/internal/format"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var ascii bool
	var from string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the outline as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := loadOutline(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text := o.Render()
			if from != "" {
				h, err := resolve(o, from)
				if err != nil {
					return writeErr(cmd, err)
				}
				if text, err = o.RenderFrom(h); err != nil {
					return writeErr(cmd, err)
				}
			}
			if ascii {
				_, err := cmd.OutOrStdout().Write([]byte(text))
				return err
			}
			var root *tree.Handle
			if h, ok := o.Root(); ok {
				root = &h
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"root":    root,
				"nodes":   o.Len(),
				"orphans": o.Orphans(),
				"text":    text,
			}})
		},
	}

	cmd.Flags().BoolVar(&ascii, "ascii", false, "Print the tree as plain text instead of an envelope")
	cmd.Flags().StringVar(&from, "from", "", "Render only the subtree under this handle")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nodes in pre-order with their depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := loadOutline(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := o.Rows()
			if from != "" {
				h, err := resolve(o, from)
				if err != nil {
					return writeErr(cmd, err)
				}
				if rows, err = o.RowsFrom(h); err != nil {
					return writeErr(cmd, err)
				}
			}
			if rows == nil {
				rows = []outline.Row{}
			}
			return writeOut(cmd, app, format.Envelope{Data: rows, Meta: map[string]any{"count": len(rows)}})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "List only the subtree under this handle")
	return cmd
}

func newAncestorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ancestors <handle>",
		Short: "Show the chain of parents from a node up to its top",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := loadOutline(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			h, err := resolve(o, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := o.Tree().AncestorIDs(h)
			if err != nil {
				return writeErr(cmd, err)
			}
			ids := slices.Collect(it.Seq())
			if ids == nil {
				ids = []tree.Handle{}
			}
			path, err := o.Path(h)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"handle":    h,
				"ancestors": ids,
				"path":      path,
			}})
		},
	}
	return cmd
}

func newHeightCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "height",
		Short: "Print the number of nodes on the longest root-to-leaf path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := loadOutline(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"height": o.Height(),
				"nodes":  o.Len(),
			}})
		},
	}
	return cmd
}

func newMetaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show bookkeeping from the last save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.store()
			m, err := s.Meta(ctxOrBackground(cmd.Context()))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: m})
		},
	}
	return cmd
}
