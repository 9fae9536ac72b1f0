package cli

import (
	"case-cli/internal/mcpserver"

	"github.com/spf13/cobra"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the outline to agents over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger().WithField("dir", app.Dir).Info("mcp server starting")
			srv := mcpserver.New(mcpserver.NewBackend(app.store(), app.logger()))
			return mcpserver.Serve(srv)
		},
	}
}
