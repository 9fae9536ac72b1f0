package cli

import (
	"errors"
	"strings"

	"case-cli/internal/format"
	"case-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var from string
	var noDescriptions bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the outline as a Markdown document (not canonical)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			o, _, err := loadOutline(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := publish.WriteOptions{
				IncludeDescriptions: !noDescriptions,
				Overwrite:           overwrite,
			}
			var res publish.WriteResult
			if from != "" {
				h, err := resolve(o, from)
				if err != nil {
					return writeErr(cmd, err)
				}
				res, err = publish.WriteSubtree(o, h, toDir, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
			} else {
				if res, err = publish.WriteOutline(o, toDir, opt); err != nil {
					return writeErr(cmd, err)
				}
			}
			app.logger().WithField("written", res.Written).Info("outline published")
			return writeOut(cmd, app, format.Envelope{Data: res})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Directory to write Markdown into")
	cmd.Flags().StringVar(&from, "from", "", "Publish only the subtree under this handle")
	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "Leave task descriptions out")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
