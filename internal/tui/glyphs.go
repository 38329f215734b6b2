package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminals can't change the user's font, so the TUI picks between Unicode and ASCII
// glyphs for twisties, marks and arrows.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set: SHELF_TUI_GLYPHS wins over the config value.
// Unknown values are ignored.
func applyGlyphPreference(configured string) {
	v := strings.TrimSpace(os.Getenv("SHELF_TUI_GLYPHS"))
	if v == "" {
		v = configured
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pickGlyph(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pickGlyph("▸", ">") }
func glyphTwistyExpanded() string  { return pickGlyph("▾", "v") }
func glyphSelected() string        { return pickGlyph("●", "*") }
func glyphMoving() string          { return pickGlyph("⇢", "=>") }
func glyphArrow() string           { return pickGlyph("→", "->") }
func glyphHRule() string           { return pickGlyph("─", "-") }
func glyphSwatch() string          { return pickGlyph("■", "#") }
