package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"shelf-cli/internal/model"
)

func newBookmarksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bookmark", "bm"},
		Short:   "Bookmark operations",
	}

	cmd.AddCommand(newBookmarksAddCmd(app))
	cmd.AddCommand(newBookmarksListCmd(app))
	cmd.AddCommand(newBookmarksDeleteCmd(app))
	cmd.AddCommand(newBookmarksLinkCmd(app, "categorize", "category", "Replace a bookmark's categories"))
	cmd.AddCommand(newBookmarksLinkCmd(app, "tag", "tag", "Replace a bookmark's tags"))
	return cmd
}

func newBookmarksAddCmd(app *App) *cobra.Command {
	var in model.NewBookmark

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bookmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := sess.AddBookmark(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&in.URL, "url", "", "Bookmark URL")
	cmd.Flags().StringVar(&in.Title, "title", "", "Title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&in.CategoryIDs, "category", nil, "Category id (repeatable)")
	cmd.Flags().StringSliceVar(&in.TagIDs, "tag", nil, "Tag id (repeatable)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBookmarksListCmd(app *App) *cobra.Command {
	var f model.BookmarkFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks (optionally filtered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f.CategoryID = strings.TrimSpace(f.CategoryID)
			f.TagID = strings.TrimSpace(f.TagID)
			out, err := sess.Bookmarks(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"count": len(out)},
			})
		},
	}

	cmd.Flags().StringVar(&f.CategoryID, "category", "", "Only bookmarks filed under this category")
	cmd.Flags().StringVar(&f.TagID, "tag", "", "Only bookmarks with this tag")
	return cmd
}

func newBookmarksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <bookmark-id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.DeleteBookmark(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": strings.TrimSpace(args[0])},
			})
		},
	}
}

// newBookmarksLinkCmd builds `categorize` and `tag`, which replace the whole link set.
func newBookmarksLinkCmd(app *App, use, flag, short string) *cobra.Command {
	var ids []string

	cmd := &cobra.Command{
		Use:   use + " <bookmark-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if flag == "category" {
				err = sess.CategorizeBookmark(cmd.Context(), id, ids)
			} else {
				err = sess.TagBookmark(cmd.Context(), id, ids)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, flag + "Ids": ids},
				"meta": map[string]any{"status": sess.Status()},
			})
		},
	}

	cmd.Flags().StringSliceVar(&ids, flag, nil, "Id to link (repeatable; omit to clear)")
	return cmd
}
