package cli

import (
	"github.com/spf13/cobra"

	"shelf-cli/internal/tree"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the category edges and the workspace database",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}

			report := tree.Check(sess.Categories(), sess.Edges())
			storage, err := st.Doctor(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			hasErrors := report.HasErrors() || storage.HasErrors()

			meta := map[string]any{
				"issues":    len(report.Issues) + len(storage.Issues),
				"hasErrors": hasErrors,
				"storage":   storage.Issues,
			}
			hints := []string{
				"shelf categories tree",
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && hasErrors {
				return errTreeIssues
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
