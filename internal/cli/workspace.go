package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"shelf-cli/internal/store"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management (default workspace is recommended unless explicitly told otherwise)",
	}

	cmd.AddCommand(newWorkspaceListCmd(app))
	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceCurrentCmd(app))
	cmd.AddCommand(newWorkspaceBackupCmd(app))

	return cmd
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces under the config dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			current := store.ResolveWorkspace("", app.config())
			out := make([]map[string]any, 0, len(names))
			for _, n := range names {
				out = append(out, map[string]any{
					"name":    n,
					"current": n == current,
				})
			}
			return writeOut(cmd, app, map[string]any{
				"data":   out,
				"_hints": []string{"shelf workspace use <name>"},
			})
		},
	}
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set the current workspace (creates it on first use)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg := app.config()
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.Workspace = name
			app.Dir = ""
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": name, "dir": dir},
			})
		},
	}
}

func newWorkspaceCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the resolved workspace and store dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := strings.TrimSpace(app.Workspace)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": ws, "dir": dir},
			})
		},
	}
}

func newWorkspaceBackupCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a consistent copy of the workspace database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Backup(cmd.Context(), to); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"backup": strings.TrimSpace(to), "dir": dir},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination file (must not exist)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
