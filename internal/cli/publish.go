package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelf-cli/internal/model"
	"shelf-cli/internal/publish"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export derived artifacts (not canonical)",
	}

	var render bool
	var style string
	var width int
	var toDir string
	var overwrite bool

	markdownCmd := &cobra.Command{
		Use:   "markdown",
		Short: "Export the category tree as Markdown (stdout, or pages under --to)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bms, err := sess.Bookmarks(cmd.Context(), model.BookmarkFilter{})
			if err != nil {
				return writeErr(cmd, err)
			}
			lib := publish.Library{Forest: sess.Tree(), Tags: sess.Tags(), Bookmarks: bms}

			if strings.TrimSpace(toDir) != "" {
				res, err := publish.WriteLibrary(lib, toDir, publish.WriteOptions{Overwrite: overwrite, Counts: true})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			md := publish.RenderTreeMarkdown(lib, publish.RenderOptions{Counts: true})
			if render {
				md = publish.RenderTerminal(md, style, width)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	markdownCmd.Flags().BoolVar(&render, "render", false, "Style the Markdown for the terminal")
	markdownCmd.Flags().StringVar(&style, "style", "dark", "Render style (dark|light|notty|ascii)")
	markdownCmd.Flags().IntVar(&width, "width", 80, "Render word-wrap width")
	markdownCmd.Flags().StringVar(&toDir, "to", "", "Write index.md and one page per category into this directory")
	markdownCmd.Flags().BoolVar(&overwrite, "overwrite", true, "Overwrite existing files")

	cmd.AddCommand(markdownCmd)
	return cmd
}
