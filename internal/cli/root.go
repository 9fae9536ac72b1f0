package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"case-cli/internal/format"
	"case-cli/internal/logging"
	"case-cli/internal/outline"
	"case-cli/internal/store"
	"case-cli/internal/tree"
	"case-cli/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string

	cfg      *store.Config
	log      *logrus.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "case",
		Short:        "CASE: a local outline of tasks and groups",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  case

  # Scriptable commands
  case show --ascii
  case add task --parent n1 --name "Write report" --due 2024-03-01
  case move n4 --to n2
  case rm n2 --mode lift
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.teardown()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CASE_DIR", ""), "Path to data dir (default: $CASE_DATA or the XDG data dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CASE_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAncestorsCmd(app))
	cmd.AddCommand(newHeightCmd(app))
	cmd.AddCommand(newMetaCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newIndentCmd(app))
	cmd.AddCommand(newOutdentCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newSetPriorityCmd(app))
	cmd.AddCommand(newSetDueCmd(app))
	cmd.AddCommand(newSetDescriptionCmd(app))
	cmd.AddCommand(newSortCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newMCPCmd(app))

	return cmd
}

// setup resolves the data dir, reads the config and opens the log file.
func (app *App) setup() error {
	if _, err := format.ParseFormat(app.Format); err != nil {
		return err
	}
	if strings.TrimSpace(app.Dir) == "" {
		d, err := store.DataDir()
		if err != nil {
			return err
		}
		app.Dir = d
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg

	log, closeLog, err := logging.Init(app.Dir, cfg.LogLevel)
	if err != nil {
		return err
	}
	app.log = log
	app.closeLog = closeLog
	return nil
}

func (app *App) teardown() error {
	if app.closeLog == nil {
		return nil
	}
	err := app.closeLog()
	app.closeLog = nil
	return err
}

func (app *App) store() store.Store {
	s := store.Store{Dir: app.Dir}
	if app.cfg != nil {
		s.ReplicaID = app.cfg.ReplicaID
	}
	if app.log != nil {
		s.Log = app.log
	}
	return s
}

func (app *App) logger() logrus.FieldLogger {
	if app.log == nil {
		return logging.Discard()
	}
	return app.log
}

func runTUI(cmd *cobra.Command, app *App) error {
	var opts tui.Options
	if app.cfg != nil && app.cfg.TUI != nil {
		opts.HideDescriptions = app.cfg.TUI.HideDescriptions
		opts.MarkdownStyle = app.cfg.TUI.MarkdownStyle
	}
	return tui.Run(cmd.Context(), app.store(), opts)
}

// loadOutline reads the stored outline.
func loadOutline(ctx context.Context, app *App) (*outline.Outline, store.Store, error) {
	s := app.store()
	o, err := s.Load(ctxOrBackground(ctx))
	if err != nil {
		return nil, s, err
	}
	return o, s, nil
}

// mutate loads the outline, applies fn and saves the result. The value
// returned by fn becomes the command's data.
func mutate(cmd *cobra.Command, app *App, op string, fn func(o *outline.Outline) (any, error)) error {
	ctx := ctxOrBackground(cmd.Context())
	o, s, err := loadOutline(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	data, err := fn(o)
	if err != nil {
		app.logger().WithFields(logrus.Fields{"op": op}).WithError(err).Warn("command rejected")
		return writeErr(cmd, err)
	}
	if err := s.Save(ctx, o); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, format.Envelope{Data: data, Meta: map[string]any{"nodes": o.Len()}})
}

// resolve looks up a handle argument, turning stale or unknown handles
// into a notFoundError.
func resolve(o *outline.Outline, arg string) (tree.Handle, error) {
	h, err := o.Resolve(arg)
	if err != nil {
		return tree.Handle{}, errNotFound("node", arg, err)
	}
	return h, nil
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
