package tui

import (
	"go.uber.org/zap"

	"shelf-cli/internal/store"
)

// restoreUIState puts the cursor, pane and selections back where the last session left
// them. Ids that no longer exist are dropped.
func (m *appModel) restoreUIState() {
	st, err := m.store.LoadUIState()
	if err != nil || st == nil {
		if err != nil {
			m.logger.Debug("ui state unavailable", zap.Error(err))
		}
		return
	}

	if st.Pane == paneTags.String() {
		m.showTags = true
		m.pane = paneTags
	}
	if _, ok := m.sess.Category(st.CursorCategoryID); ok {
		m.cursorID = st.CursorCategoryID
	}
	if st.CursorTagID != "" {
		for i, t := range m.sess.Tags() {
			if t.ID == st.CursorTagID {
				m.tagCursor = i
				break
			}
		}
	}
	for _, id := range st.SelectedCategoryIDs {
		if _, ok := m.sess.Category(id); ok && !m.sess.CategorySelection.Has(id) {
			m.sess.CategorySelection.Toggle(id)
		}
	}
	for _, id := range st.SelectedTagIDs {
		if _, ok := m.sess.Tag(id); ok && !m.sess.TagSelection.Has(id) {
			m.sess.TagSelection.Toggle(id)
		}
	}
}

func (m appModel) saveUIState() {
	st := &store.UIState{
		Version:             1,
		Pane:                m.pane.String(),
		CursorCategoryID:    m.cursorID,
		SelectedCategoryIDs: m.sess.SelectedCategoryIDs(),
		SelectedTagIDs:      m.sess.SelectedTagIDs(),
	}
	if t, ok := m.currentTag(); ok {
		st.CursorTagID = t.ID
	}
	if err := m.store.SaveUIState(st); err != nil {
		m.logger.Warn("save ui state", zap.Error(err))
	}
}
