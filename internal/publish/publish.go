package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"shelf-cli/internal/model"
	"shelf-cli/internal/tree"
)

type WriteOptions struct {
	Overwrite bool
	Counts    bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteLibrary writes index.md (the linked tree) plus one page per category under
// categories/. It stops at the first write error.
func WriteLibrary(lib Library, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	catDir := filepath.Join(toDir, "categories")
	if err := os.MkdirAll(catDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "index.md")
	index := RenderTreeMarkdown(lib, RenderOptions{Links: true, Counts: opt.Counts})
	if err := writeFile(indexPath, []byte(index), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	var walkErr error
	tree.Walk(lib.Forest, func(n *model.CategoryNode, _ int, _ string) bool {
		if walkErr != nil {
			return false
		}
		md, err := RenderCategoryMarkdown(lib, n.ID)
		if err != nil {
			walkErr = err
			return false
		}
		p := filepath.Join(catDir, n.ID+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			walkErr = err
			return false
		}
		written = append(written, p)
		return true
	})
	if walkErr != nil {
		return WriteResult{}, walkErr
	}
	return WriteResult{Written: written}, nil
}

// RenderTerminal styles markdown for a terminal. style is a glamour standard style name
// ("dark", "light", "notty", "ascii"); "" means notty. On renderer failure the input
// is returned unchanged.
func RenderTerminal(md string, style string, width int) string {
	style = strings.TrimSpace(style)
	if style == "" {
		style = styles.NoTTYStyle
	}
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
