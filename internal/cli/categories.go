package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelf-cli/internal/model"
	"shelf-cli/internal/mutate"
	"shelf-cli/internal/publish"
	"shelf-cli/internal/store"
	"shelf-cli/internal/tree"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Category tree operations",
	}

	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesTreeCmd(app))
	cmd.AddCommand(newCategoriesShowCmd(app))
	cmd.AddCommand(newCategoriesCreateCmd(app))
	cmd.AddCommand(newCategoriesUpdateCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	cmd.AddCommand(newCategoriesBulkDeleteCmd(app))
	cmd.AddCommand(newCategoriesMoveCmd(app))
	cmd.AddCommand(newCategoriesExpandCmd(app, true))
	cmd.AddCommand(newCategoriesExpandCmd(app, false))
	cmd.AddCommand(newCategoriesCheckCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List category rows and edges (flat)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": sess.Categories(),
				"meta": map[string]any{
					"edges": sess.Edges(),
				},
			})
		},
	}
}

func newCategoriesTreeCmd(app *App) *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the derived category forest",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !flat {
				counts, err := st.CountBookmarksByCategory(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": sess.Tree(),
					"meta": map[string]any{
						"count":     tree.Count(sess.Tree()),
						"bookmarks": counts,
					},
				})
			}
			rows := tree.Flatten(sess.Tree(), sess.IsExpanded)
			out := make([]map[string]any, 0, len(rows))
			for _, r := range rows {
				out = append(out, map[string]any{
					"id":          r.Node.ID,
					"name":        r.Node.Name,
					"depth":       r.Depth,
					"parentId":    r.ParentID,
					"hasChildren": r.HasChildren,
					"expanded":    r.Expanded,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "Output visible rows (respecting collapsed categories) instead of nested nodes")
	return cmd
}

func newCategoriesShowCmd(app *App) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "show <category-id>",
		Short: "Show one category with its path, children and bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			node, ok := tree.Find(sess.Tree(), id)
			if !ok {
				return writeErr(cmd, &store.NotFoundError{Kind: "category", ID: id})
			}
			bms, err := sess.Bookmarks(cmd.Context(), model.BookmarkFilter{CategoryID: id})
			if err != nil {
				return writeErr(cmd, err)
			}
			if markdown {
				lib := publish.Library{Forest: sess.Tree(), Tags: sess.Tags(), Bookmarks: bms}
				md, err := publish.RenderCategoryMarkdown(lib, id)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": node,
				"meta": map[string]any{
					"path":        tree.Path(sess.Tree(), id),
					"descendants": tree.Descendants(id, sess.Edges()),
					"bookmarks":   bms,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the category page as Markdown")
	return cmd
}

func newCategoriesCreateCmd(app *App) *cobra.Command {
	var in mutate.CategoryInput
	var icon string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category (optionally under a parent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("icon") {
				in.Icon = &icon
			}
			created, err := sess.CreateCategory(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": created,
				"_hints": []string{
					"shelf categories tree",
					"shelf categories create --name <name> --parent " + created.ID,
				},
			})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Category name")
	cmd.Flags().StringVar(&in.Color, "color", "", "Display color (e.g. #3b82f6)")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon (emoji or short text)")
	cmd.Flags().StringVar(&in.ParentID, "parent", "", "Parent category id (empty = top level)")
	cmd.Flags().IntVar(&in.Position, "position", -1, "Position among siblings (-1 = append)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesUpdateCmd(app *App) *cobra.Command {
	var name, color, icon string

	cmd := &cobra.Command{
		Use:   "update <category-id>",
		Short: "Update a category's name, color or icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var up mutate.CategoryUpdate
			if cmd.Flags().Changed("name") {
				up.Name = &name
			}
			if cmd.Flags().Changed("color") {
				up.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				up.Icon = &icon
			}
			if err := sess.UpdateCategory(cmd.Context(), args[0], up); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := sess.Category(strings.TrimSpace(args[0]))
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon (empty clears)")
	return cmd
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category with its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": strings.TrimSpace(args[0])},
				"meta": map[string]any{"status": sess.Status()},
			})
		},
	}
}

func newCategoriesBulkDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete <category-id>...",
		Short: "Delete several categories in order, stopping at the first failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.BulkDeleteCategories(cmd.Context(), args); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args},
				"meta": map[string]any{"status": sess.Status()},
			})
		},
	}
}

func newCategoriesMoveCmd(app *App) *cobra.Command {
	var to string
	var position int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "move <category-id>",
		Short: "Move a category under another one (or to the top level with --to \"\")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if dryRun {
				plan, err := sess.PlanMove(args[0], to, position)
				if err != nil {
					return writeErr(cmd, err)
				}
				previewCats, previewEdges, err := tree.Apply(sess.Categories(), sess.Edges(), plan.Ops)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": plan,
					"meta": map[string]any{
						"dryRun":  true,
						"inverse": plan.Inverse(sess.Edges(), sess.Categories()),
						"preview": tree.BuildTree(previewCats, previewEdges),
					},
				})
			}
			if err := sess.Move(cmd.Context(), args[0], to, position); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": sess.Tree(),
				"meta": map[string]any{"status": sess.Status()},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target parent category id (empty = top level)")
	cmd.Flags().IntVar(&position, "position", -1, "Index among the target's children (-1 = append)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned store operations without applying them")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newCategoriesExpandCmd(app *App, expand bool) *cobra.Command {
	use, short := "expand", "Mark a category expanded"
	if !expand {
		use, short = "collapse", "Mark a category collapsed"
	}
	return &cobra.Command{
		Use:   use + " <category-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := sess.SetExpanded(cmd.Context(), id, expand); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "expanded": sess.IsExpanded(id)},
			})
		},
	}
}

func newCategoriesCheckCmd(app *App) *cobra.Command {
	cmd := newDoctorCmd(app)
	cmd.Use = "check"
	cmd.Short = "Check the category edges for tree problems (same as `shelf doctor`)"
	return cmd
}
