package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The TUI must stay readable on light and dark terminal backgrounds, so colors are
// adaptive and "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorChromeFg   = ac("240", "245")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "235")
	colorInputBg    = ac("254", "234")
	colorAccent     = ac("27", "62")
	colorMarkFg     = ac("130", "214") // selection marks and the move source
	colorSuccessFg  = ac("28", "78")
	colorErrorFg    = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleChrome() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChromeFg)
}

func styleMark() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMarkFg).Bold(true)
}

func styleStatus(isError bool) lipgloss.Style {
	if isError {
		return lipgloss.NewStyle().Foreground(colorErrorFg).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorSuccessFg)
}

// categoryColor renders a small swatch in the category's own color when it parses.
func categoryColor(c string) (lipgloss.Color, bool) {
	c = strings.TrimSpace(c)
	if c == "" {
		return "", false
	}
	if strings.HasPrefix(c, "#") && (len(c) == 7 || len(c) == 4) {
		return lipgloss.Color(c), true
	}
	if n, err := strconv.Atoi(c); err == nil && n >= 0 && n <= 255 {
		return lipgloss.Color(c), true
	}
	return "", false
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
// termenv.EnvColorProfile honors CLICOLOR, which can disable colors in a TUI, so only
// NO_COLOR is honored here and the terminal's capabilities decide the rest.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they report more than the detector does.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// themeIsDark resolves the background preference:
// SHELF_TUI_THEME=light|dark|auto, then SHELF_TUI_DARKBG, then the COLORFGBG heuristic.
// ok is false when nothing decided.
func themeIsDark() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SHELF_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}

	if v := strings.TrimSpace(os.Getenv("SHELF_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}

	// COLORFGBG is "fg;bg" (sometimes more segments); the last one is the background.
	// xterm palette 0-6 are dark colors.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7, true
		}
	}
	return false, false
}

func applyThemePreference() {
	if dark, ok := themeIsDark(); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}
