package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

type mdKey struct {
	dark  bool
	width int
}

// mdCache keeps one glamour renderer per palette and wrap width; building one parses
// the whole style sheet. WithAutoStyle is avoided since it can block on terminal queries.
type mdCache struct {
	mu        sync.Mutex
	renderers map[mdKey]*glamour.TermRenderer
}

var detailRenderers = &mdCache{renderers: map[mdKey]*glamour.TermRenderer{}}

func (c *mdCache) get(dark bool, width int) (*glamour.TermRenderer, error) {
	key := mdKey{dark: dark, width: width}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(detailStyle(dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	c.renderers[key] = r
	return r, nil
}

// renderMarkdown renders a category page for the detail pane, or returns the raw text
// when glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	r, err := detailRenderers.get(markdownDark(), width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownDark follows SHELF_TUI_MD_STYLE, then the TUI theme, then the terminal.
func markdownDark() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SHELF_TUI_MD_STYLE"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	if dark, ok := themeIsDark(); ok {
		return dark
	}
	return lipgloss.HasDarkBackground()
}

func detailStyle(dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}
	pick := func(c lipgloss.AdaptiveColor) *string {
		v := c.Light
		if dark {
			v = c.Dark
		}
		return &v
	}
	underline := true
	noMargin := uint(0)

	cfg.Document.Margin = &noMargin
	// Category names render in the body color; glamour's default headings are bright blue.
	for _, h := range []*ansi.StyleBlock{&cfg.Heading, &cfg.H1, &cfg.H2, &cfg.H3} {
		h.Color = pick(colorSurfaceFg)
		h.BackgroundColor = nil
	}
	cfg.Text.Color = pick(colorSurfaceFg)
	cfg.Link.Color = pick(colorAccent)
	cfg.Link.Underline = &underline
	cfg.LinkText.Color = pick(colorAccent)
	cfg.Item.Color = pick(colorSurfaceFg)
	return cfg
}
