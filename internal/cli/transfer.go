package cli

import (
	"case-cli/internal/format"
	"case-cli/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the outline snapshot to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := store.EnsureReplicaID(app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			s := app.store()
			if err := s.ExportFile(ctxOrBackground(cmd.Context()), args[0], compact); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"path":      args[0],
				"replicaId": s.ReplicaID,
				"compact":   compact,
			}})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Renumber handles densely (previous handles stop resolving in the file)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the outline with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := app.store().ImportFile(ctxOrBackground(cmd.Context()), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"path":  args[0],
				"nodes": o.Len(),
			}})
		},
	}
	return cmd
}
