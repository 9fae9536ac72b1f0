package cli

import (
	"path/filepath"

	"case-cli/internal/format"
	"case-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage and assign a replica id",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := store.EnsureReplicaID(app.cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := ctxOrBackground(cmd.Context())
			o, s, err := loadOutline(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Saving an already initialized outline only bumps the revision.
			if err := s.Save(ctx, o); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"dir":        app.Dir,
				"sqlitePath": filepath.Join(app.Dir, "case.sqlite"),
				"replicaId":  id,
				"nodes":      o.Len(),
			}})
		},
	}
	return cmd
}
