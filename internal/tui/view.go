package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shelf-cli/internal/model"
	"shelf-cli/internal/mutate"
	"shelf-cli/internal/publish"
	"shelf-cli/internal/tree"
)

func (m appModel) View() string {
	w := m.width
	if w < 40 {
		w = 40
	}
	if modal := m.viewModal(w); modal != "" {
		return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(w), "", modal)
	}
	bodyH := m.bodyHeight()

	left := m.viewTree(w)
	right := m.viewDetail(w - w/2 - 1)
	if m.showTags {
		right = m.viewTags()
	}
	body := splitPanes(left, right, w, bodyH)

	lines := []string{
		m.viewHeader(w),
		styleChrome().Render(strings.Repeat(glyphHRule(), w)),
		body,
		m.viewStatus(w),
		styleMuted().Render(fitWidth(m.viewHelp(), w)),
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewHeader(w int) string {
	title := styleHeader().Render("Shelf")
	ws := m.workspace
	if ws == "" {
		ws = "-"
	}
	counts := fmt.Sprintf("%d categories  %d tags  %d bookmarks",
		tree.Count(m.sess.Tree()), len(m.sess.Tags()), len(m.bookmarks))
	if n := m.sess.CategorySelection.Len(); n > 0 {
		counts += fmt.Sprintf("  %d selected", n)
	}
	line := title + "  " + styleChrome().Render(ws) + "  " + styleMuted().Render(counts)
	return fitWidth(line, w)
}

func (m appModel) viewTree(w int) string {
	leftW := w / 2
	if leftW < 30 {
		leftW = 30
	}
	if len(m.rows) == 0 {
		return styleMuted().Render("No categories yet. Press n to create one.")
	}

	counts := map[string]int{}
	for _, b := range m.bookmarks {
		for _, id := range b.CategoryIDs {
			counts[id]++
		}
	}

	end := m.offset + m.bodyHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	out := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		out = append(out, m.renderRow(m.rows[i], i == m.cursor, counts[m.rows[i].Node.ID], leftW))
	}
	return strings.Join(out, "\n")
}

func (m appModel) renderRow(r tree.Row, active bool, count int, w int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))

	switch {
	case !r.HasChildren:
		b.WriteString("  ")
	case r.Expanded:
		b.WriteString(glyphTwistyExpanded() + " ")
	default:
		b.WriteString(glyphTwistyCollapsed() + " ")
	}

	switch {
	case r.Node.ID == m.movingID:
		b.WriteString(styleMark().Render(glyphMoving()) + " ")
	case m.sess.CategorySelection.Has(r.Node.ID):
		b.WriteString(styleMark().Render(glyphSelected()) + " ")
	}

	if c, ok := categoryColor(r.Node.Color); ok {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(glyphSwatch()) + " ")
	}
	if r.Node.Icon != nil && strings.TrimSpace(*r.Node.Icon) != "" {
		b.WriteString(strings.TrimSpace(*r.Node.Icon) + " ")
	}
	b.WriteString(r.Node.Name)
	if count > 0 {
		b.WriteString(" " + styleMuted().Render(fmt.Sprintf("(%d)", count)))
	}

	line := fitWidth(b.String(), w)
	if active {
		st := lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
		if m.pane == paneCategories {
			st = st.Bold(true)
		}
		line = st.Render(line)
	}
	return line
}

func (m appModel) viewDetail(w int) string {
	row, ok := m.currentRow()
	if !ok {
		return ""
	}
	lib := publish.Library{Forest: m.sess.Tree(), Tags: m.sess.Tags(), Bookmarks: m.bookmarks}
	md, err := publish.RenderCategoryMarkdown(lib, row.Node.ID)
	if err != nil {
		return styleMuted().Render(err.Error())
	}
	return renderMarkdown(md, w)
}

func (m appModel) viewTags() string {
	tags := m.sess.Tags()
	if len(tags) == 0 {
		return styleMuted().Render("No tags yet. Press n to create one.")
	}
	counts := tagCounts(m.bookmarks)
	out := []string{styleHeader().Render("Tags")}
	for i, t := range tags {
		mark := "  "
		if m.sess.TagSelection.Has(t.ID) {
			mark = styleMark().Render(glyphSelected()) + " "
		}
		line := mark + t.Name
		if n := counts[t.ID]; n > 0 {
			line += " " + styleMuted().Render(fmt.Sprintf("(%d)", n))
		}
		if i == m.tagCursor && m.pane == paneTags {
			line = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true).Render(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func tagCounts(bms []model.Bookmark) map[string]int {
	out := map[string]int{}
	for _, b := range bms {
		for _, id := range b.TagIDs {
			out[id]++
		}
	}
	return out
}

func (m appModel) viewStatus(w int) string {
	st := m.sess.Status()
	if st.Kind == mutate.StatusNone || st.Message == "" {
		if m.movingID != "" {
			name := m.movingID
			if c, ok := m.sess.Category(m.movingID); ok {
				name = c.Name
			}
			return styleMark().Render(fitWidth("Moving "+name+" "+glyphArrow()+" pick a new parent", w))
		}
		return ""
	}
	return styleStatus(st.Kind == mutate.StatusError).Render(fitWidth(st.Message, w))
}

func (m appModel) viewHelp() string {
	switch {
	case m.movingID != "":
		return m.keys.moveHelp()
	case m.pane == paneTags:
		return m.keys.tagsHelp()
	default:
		return m.keys.treeHelp()
	}
}

func (m appModel) viewModal(w int) string {
	switch m.modal {
	case modalNewCategory:
		return renderInputModal(w, "New category", m.input.View())
	case modalNewChild:
		return renderInputModal(w, "New subcategory of "+m.categoryName(m.modalForID), m.input.View())
	case modalRenameCategory:
		return renderInputModal(w, "Rename category", m.input.View())
	case modalNewTag:
		return renderInputModal(w, "New tag", m.input.View())
	case modalRenameTag:
		return renderInputModal(w, "Rename tag", m.input.View())
	case modalConfirmDelete:
		body := "Delete " + m.categoryName(m.pendingIDs[0]) + " and all of its subcategories?"
		if len(m.pendingIDs) > 1 {
			body = fmt.Sprintf("Delete %d categories and all of their subcategories?", len(m.pendingIDs))
		}
		return renderConfirmModal(w, "Delete", body, "Delete", "Cancel", m.confirmFocus)
	case modalConfirmDeleteTags:
		body := "Delete tag " + m.tagName(m.pendingIDs[0]) + "?"
		if len(m.pendingIDs) > 1 {
			body = fmt.Sprintf("Delete %d tags?", len(m.pendingIDs))
		}
		return renderConfirmModal(w, "Delete", body, "Delete", "Cancel", m.confirmFocus)
	case modalConfirmMove:
		body := "Move " + m.categoryName(m.movingID) + " " + glyphArrow() + " " + m.categoryName(m.moveTarget) + "?"
		return renderConfirmModal(w, "Move", body, "Move", "Cancel", m.confirmFocus)
	}
	return ""
}

func (m appModel) categoryName(id string) string {
	if c, ok := m.sess.Category(id); ok {
		return c.Name
	}
	return id
}

func (m appModel) tagName(id string) string {
	if t, ok := m.sess.Tag(id); ok {
		return t.Name
	}
	return id
}
