package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Tag operations (names are not deduplicated)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess.Tags()})
		},
	})

	var name string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := sess.CreateTag(cmd.Context(), name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Tag name")
	_ = createCmd.MarkFlagRequired("name")
	cmd.AddCommand(createCmd)

	var newName string
	renameCmd := &cobra.Command{
		Use:   "rename <tag-id>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.RenameTag(cmd.Context(), args[0], newName); err != nil {
				return writeErr(cmd, err)
			}
			t, _ := sess.Tag(strings.TrimSpace(args[0]))
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	renameCmd.Flags().StringVar(&newName, "name", "", "New tag name")
	_ = renameCmd.MarkFlagRequired("name")
	cmd.AddCommand(renameCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <tag-id>",
		Short: "Delete a tag and remove it from every bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.DeleteTag(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": strings.TrimSpace(args[0])},
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "bulk-delete <tag-id>...",
		Short: "Delete several tags in order, stopping at the first failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.BulkDeleteTags(cmd.Context(), args); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args},
				"meta": map[string]any{"status": sess.Status()},
			})
		},
	})

	return cmd
}
