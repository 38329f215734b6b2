package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"shelf-cli/internal/mutate"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case reloadTickMsg:
		if m.modal == modalNone && m.storeChanged() {
			m.reload()
		}
		return m, tickReload()

	case storeChangedMsg:
		if m.watcher == nil {
			return m, nil
		}
		// Our own writes already moved the captured mod times forward.
		if m.modal == modalNone && m.storeChanged() {
			m.reload()
		}
		return m, m.watcher.wait()

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			m.saveUIState()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Reload) {
			m.reload()
			return m, nil
		}
		if m.movingID != "" {
			return m.updateMoveMode(msg)
		}
		if key.Matches(msg, m.keys.Tags) {
			m.showTags = !m.showTags
			if m.showTags {
				m.pane = paneTags
			} else {
				m.pane = paneCategories
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.SwitchPane) && m.showTags {
			if m.pane == paneTags {
				m.pane = paneCategories
			} else {
				m.pane = paneTags
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.Cancel) {
			m.sess.ClearStatus()
			return m, nil
		}
		if m.pane == paneTags {
			return m.updateTags(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m appModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, hasRow := m.currentRow()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Expand):
		if hasRow && row.HasChildren && !row.Expanded {
			m.setExpanded(row.Node.ID, true)
		}
	case key.Matches(msg, m.keys.Collapse):
		switch {
		case !hasRow:
		case row.HasChildren && row.Expanded:
			m.setExpanded(row.Node.ID, false)
		case row.ParentID != "":
			m.cursorID = row.ParentID
			m.syncRows()
		}
	case key.Matches(msg, m.keys.Toggle):
		if hasRow && row.HasChildren {
			m.setExpanded(row.Node.ID, !row.Expanded)
		}

	case key.Matches(msg, m.keys.Select):
		if hasRow {
			m.sess.CategorySelection.Toggle(row.Node.ID)
			m.moveCursor(1)
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.sess.ToggleSelectAllCategories()

	case key.Matches(msg, m.keys.New):
		m.openInput(modalNewCategory, "", "Category name", "")
	case key.Matches(msg, m.keys.NewChild):
		if hasRow {
			m.openInput(modalNewChild, row.Node.ID, "Category name", "")
		}
	case key.Matches(msg, m.keys.Rename):
		if hasRow {
			m.openInput(modalRenameCategory, row.Node.ID, "Category name", row.Node.Name)
		}
	case key.Matches(msg, m.keys.Delete):
		ids := m.sess.SelectedCategoryIDs()
		if len(ids) == 0 && hasRow {
			ids = []string{row.Node.ID}
		}
		if len(ids) > 0 {
			m.openConfirm(modalConfirmDelete, ids)
		}

	case key.Matches(msg, m.keys.Move):
		if hasRow {
			m.movingID = row.Node.ID
		}
	case isMoveUp(m.keys, msg):
		if hasRow {
			_ = m.sess.Reorder(m.ctx, row.Node.ID, -1)
			m.afterMutation()
		}
	case isMoveDown(m.keys, msg):
		if hasRow {
			_ = m.sess.Reorder(m.ctx, row.Node.ID, 1)
			m.afterMutation()
		}
	case isIndent(m.keys, msg):
		if hasRow {
			if err := m.sess.Indent(m.ctx, row.Node.ID); err == nil {
				m.ensureParentExpanded(row.Node.ID)
			}
			m.afterMutation()
		}
	case isOutdent(m.keys, msg):
		if hasRow {
			_ = m.sess.Outdent(m.ctx, row.Node.ID)
			m.afterMutation()
		}
	}
	return m, nil
}

// updateMoveMode handles keys while a category is picked up: the cursor picks the new
// parent, enter asks for confirmation, r moves to the top level, esc cancels.
func (m appModel) updateMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.movingID = ""
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Expand):
		if row, ok := m.currentRow(); ok && row.HasChildren && !row.Expanded {
			m.setExpanded(row.Node.ID, true)
		}
	case key.Matches(msg, m.keys.Collapse):
		if row, ok := m.currentRow(); ok && row.HasChildren && row.Expanded {
			m.setExpanded(row.Node.ID, false)
		}
	case key.Matches(msg, m.keys.MoveToRoot):
		m.applyMove("")
	case key.Matches(msg, m.keys.Confirm):
		if row, ok := m.currentRow(); ok {
			m.moveTarget = row.Node.ID
			m.openConfirm(modalConfirmMove, []string{m.movingID})
		}
	}
	return m, nil
}

func (m *appModel) applyMove(targetID string) {
	id := m.movingID
	m.movingID = ""
	m.moveTarget = ""
	if err := m.sess.Move(m.ctx, id, targetID, -1); err != nil {
		m.logger.Debug("move rejected", zap.String("category_id", id), zap.Error(err))
	} else if targetID != "" {
		m.ensureExpanded(targetID)
	}
	m.cursorID = id
	m.afterMutation()
}

func (m appModel) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tag, hasTag := m.currentTag()
	n := len(m.sess.Tags())

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.tagCursor < n-1 {
			m.tagCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if hasTag {
			m.sess.TagSelection.Toggle(tag.ID)
			if m.tagCursor < n-1 {
				m.tagCursor++
			}
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.sess.ToggleSelectAllTags()
	case key.Matches(msg, m.keys.New):
		m.openInput(modalNewTag, "", "Tag name", "")
	case key.Matches(msg, m.keys.Rename):
		if hasTag {
			m.openInput(modalRenameTag, tag.ID, "Tag name", tag.Name)
		}
	case key.Matches(msg, m.keys.Delete):
		ids := m.sess.SelectedTagIDs()
		if len(ids) == 0 && hasTag {
			ids = []string{tag.ID}
		}
		if len(ids) > 0 {
			m.openConfirm(modalConfirmDeleteTags, ids)
		}
	}
	return m, nil
}

func (m *appModel) openInput(kind modalKind, forID, placeholder, value string) {
	m.modal = kind
	m.modalForID = forID
	m.input = newNameInput(placeholder, value)
}

func (m *appModel) openConfirm(kind modalKind, ids []string) {
	m.modal = kind
	m.pendingIDs = ids
	m.confirmFocus = confirmFocusConfirm
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalForID = ""
	m.pendingIDs = nil
	m.input.Blur()
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalConfirmDelete, modalConfirmDeleteTags, modalConfirmMove:
		return m.updateConfirm(msg)
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "enter":
		m.submitInput(strings.TrimSpace(m.input.Value()))
		m.closeModal()
		m.afterMutation()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) submitInput(value string) {
	switch m.modal {
	case modalNewCategory, modalNewChild:
		parentID := ""
		if m.modal == modalNewChild {
			parentID = m.modalForID
		}
		created, err := m.sess.CreateCategory(m.ctx, mutate.CategoryInput{Name: value, ParentID: parentID, Position: -1})
		if err != nil {
			return
		}
		if parentID != "" {
			m.ensureExpanded(parentID)
		}
		m.cursorID = created.ID
	case modalRenameCategory:
		_ = m.sess.UpdateCategory(m.ctx, m.modalForID, mutate.CategoryUpdate{Name: &value})
	case modalNewTag:
		if _, err := m.sess.CreateTag(m.ctx, value); err == nil {
			m.tagCursor = len(m.sess.Tags()) - 1
		}
	case modalRenameTag:
		_ = m.sess.RenameTag(m.ctx, m.modalForID, value)
	}
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		if m.modal == modalConfirmMove {
			m.movingID = ""
			m.moveTarget = ""
		}
		m.closeModal()
		return m, nil
	case "tab", "shift+tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.confirmFocus = confirmFocusConfirm
	case "enter":
	default:
		return m, nil
	}

	kind, ids := m.modal, m.pendingIDs
	confirmed := m.confirmFocus == confirmFocusConfirm
	m.closeModal()
	if !confirmed {
		if kind == modalConfirmMove {
			m.movingID = ""
			m.moveTarget = ""
		}
		return m, nil
	}

	switch kind {
	case modalConfirmDelete:
		if len(ids) == 1 {
			_ = m.sess.DeleteCategory(m.ctx, ids[0])
		} else {
			_ = m.sess.BulkDeleteCategories(m.ctx, ids)
		}
	case modalConfirmDeleteTags:
		if len(ids) == 1 {
			_ = m.sess.DeleteTag(m.ctx, ids[0])
		} else {
			_ = m.sess.BulkDeleteTags(m.ctx, ids)
		}
	case modalConfirmMove:
		m.applyMove(m.moveTarget)
		return m, nil
	}
	m.afterMutation()
	return m, nil
}

func (m *appModel) setExpanded(id string, expanded bool) {
	_ = m.sess.SetExpanded(m.ctx, id, expanded)
	m.cursorID = id
	m.syncRows()
}

func (m *appModel) ensureExpanded(id string) {
	if !m.sess.IsExpanded(id) {
		_ = m.sess.SetExpanded(m.ctx, id, true)
	}
}

// ensureParentExpanded keeps a just-indented category visible.
func (m *appModel) ensureParentExpanded(id string) {
	for _, e := range m.sess.Edges() {
		if e.ChildID == id {
			m.ensureExpanded(e.ParentID)
			return
		}
	}
}
