package cli

import (
	"github.com/spf13/cobra"

	"shelf-cli/internal/store"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage (workspace-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening a session creates the database and runs migrations.
			sess, st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}

			// If we're in workspace mode but no current workspace is set, set it.
			if app.Workspace != "" {
				cfg := app.config()
				if cfg.CurrentWorkspace == "" {
					cfg.CurrentWorkspace = app.Workspace
					_ = store.SaveConfig(cfg)
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        st.Dir,
					"sqlitePath": st.SQLitePath(),
					"categories": len(sess.Categories()),
				},
			})
		},
	}
}
