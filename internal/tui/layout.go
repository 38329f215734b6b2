package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall, so split panes line up under lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth pads or truncates one line to exactly width columns.
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the cost of StringWidth on huge lines.
	if len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// splitPanes renders left and right side by side with a one-column gutter.
func splitPanes(left, right string, width, height int) string {
	leftW := width / 2
	if leftW < 30 {
		leftW = 30
	}
	rightW := width - leftW - 1
	if rightW < 10 {
		return normalizePane(left, width, height)
	}
	gutter := normalizePane(strings.Repeat(" \n", height), 1, height)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, leftW, height),
		gutter,
		normalizePane(right, rightW, height),
	)
}
