package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shelf-cli/internal/format"
	"shelf-cli/internal/logging"
	"shelf-cli/internal/mutate"
	"shelf-cli/internal/store"
	"shelf-cli/internal/tui"
)

// slowStoreCall is the threshold above which store calls are logged at warn level.
const slowStoreCall = 500 * time.Millisecond

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string

	cfg    *store.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "shelf",
		Short:        "Shelf (local-first) bookmark organizer: CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  shelf

  # Build a category tree
  shelf categories create --name Coding
  shelf categories create --name JS --parent <coding-id>
  shelf categories tree

  # Move a category to the top level
  shelf categories move <id> --to "" --position 0
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
		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SHELF_DIR", ""), "Path to store dir (advanced: overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("SHELF_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SHELF_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newBookmarksCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	dir, err := resolveDir(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	st := store.Store{Dir: dir}
	// The TUI owns the terminal, so logs default to a file in the workspace.
	logger, err := logging.New(app.config().Log, tui.LogPath(dir))
	if err != nil {
		return writeErr(cmd, err)
	}
	app.logger = logger
	return tui.Run(cmd.Context(), st, tui.Options{
		Workspace: app.Workspace,
		Logger:    logger,
		Session:   sessionOptions(app.config()),
		Glyphs:    app.config().TUI.Glyphs,
	})
}

func (app *App) config() *store.Config {
	if app.cfg == nil {
		app.cfg = &store.Config{}
	}
	return app.cfg
}

// resolveDir picks the store directory: --dir > --workspace > config current_workspace > default.
func resolveDir(app *App) (string, error) {
	if strings.TrimSpace(app.Dir) != "" {
		return app.Dir, nil
	}
	app.Workspace = store.ResolveWorkspace(app.Workspace, app.config())
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

func sessionOptions(cfg *store.Config) mutate.Options {
	return mutate.Options{
		CompensateFailedReparent: cfg.Tree.CompensateFailedReparent,
		RevertExpandOnFailure:    cfg.Tree.RevertExpandOnFailure,
	}
}

func (app *App) cliLogger() (*zap.Logger, error) {
	if app.logger != nil {
		return app.logger, nil
	}
	logger, err := logging.New(app.config().Log, "stderr")
	if err != nil {
		return nil, err
	}
	app.logger = logger.With(zap.String("workspace", app.Workspace))
	return app.logger, nil
}

// openSession resolves the workspace and returns a session with a fresh snapshot.
func openSession(ctx context.Context, app *App) (*mutate.Session, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	logger, err := app.cliLogger()
	if err != nil {
		return nil, store.Store{}, err
	}
	st := store.Store{Dir: dir}
	sess := mutate.NewSession(mutate.NewLoggingStore(st, logger, slowStoreCall), logger, sessionOptions(app.config()))
	if err := sess.Refresh(ctx); err != nil {
		return nil, st, err
	}
	return sess, st, nil
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
