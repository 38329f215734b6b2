package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelf-cli/internal/mutate"
	"shelf-cli/internal/store"
)

func newTestSession(t *testing.T, st store.Store) *mutate.Session {
	t.Helper()
	sess := mutate.NewSession(st, zap.NewNop(), mutate.Options{})
	require.NoError(t, sess.Refresh(context.Background()))
	return sess
}

func newTestModel(t *testing.T) (appModel, store.Store) {
	t.Helper()
	st := store.Store{Dir: t.TempDir()}
	return newAppModel(context.Background(), newTestSession(t, st), st, "test"), st
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(appModel)
	}
	return m
}

func typeText(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(appModel)
	}
	return m
}

func createRoot(t *testing.T, m appModel, name string) appModel {
	t.Helper()
	m = press(t, m, "n")
	require.Equal(t, modalNewCategory, m.modal)
	m = typeText(t, m, name)
	return press(t, m, "enter")
}

func createChild(t *testing.T, m appModel, name string) appModel {
	t.Helper()
	m = press(t, m, "N")
	require.Equal(t, modalNewChild, m.modal)
	m = typeText(t, m, name)
	return press(t, m, "enter")
}

type shownRow struct {
	Name  string
	Depth int
}

func shownRows(m appModel) []shownRow {
	out := make([]shownRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, shownRow{Name: r.Node.Name, Depth: r.Depth})
	}
	return out
}

func cursorName(t *testing.T, m appModel) string {
	t.Helper()
	row, ok := m.currentRow()
	require.True(t, ok)
	return row.Node.Name
}

func idOf(t *testing.T, m appModel, name string) string {
	t.Helper()
	for _, c := range m.sess.Categories() {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("no category named %q", name)
	return ""
}

func TestCreateCategoryAndChildByTyping(t *testing.T) {
	m, _ := newTestModel(t)

	m = createRoot(t, m, "Coding")
	assert.Equal(t, modalNone, m.modal)
	assert.Equal(t, []shownRow{{"Coding", 0}}, shownRows(m))
	assert.Equal(t, mutate.StatusSuccess, m.sess.Status().Kind)

	m = createChild(t, m, "JS")
	assert.Equal(t, []shownRow{{"Coding", 0}, {"JS", 1}}, shownRows(m))
	assert.Equal(t, "JS", cursorName(t, m))
}

func TestCreateEmptyNameShowsError(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n", "enter")
	assert.Empty(t, m.rows)
	assert.Equal(t, mutate.StatusError, m.sess.Status().Kind)
}

func TestEscCancelsInput(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Nope")
	m = press(t, m, "esc")
	assert.Equal(t, modalNone, m.modal)
	assert.Empty(t, m.rows)
}

func TestRenameCategory(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "Cod")

	m = press(t, m, "e")
	require.Equal(t, modalRenameCategory, m.modal)
	assert.Equal(t, "Cod", m.input.Value())
	m = typeText(t, m, "ing")
	m = press(t, m, "enter")

	assert.Equal(t, []shownRow{{"Coding", 0}}, shownRows(m))
}

func TestNavigationClampsAtEdges(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "A")
	m = createRoot(t, m, "B")
	m = createRoot(t, m, "C")

	assert.Equal(t, "C", cursorName(t, m))
	m = press(t, m, "j")
	assert.Equal(t, "C", cursorName(t, m))
	m = press(t, m, "k", "k", "k", "k")
	assert.Equal(t, "A", cursorName(t, m))
	m = press(t, m, "down")
	assert.Equal(t, "B", cursorName(t, m))
}

func TestCollapseIsPersisted(t *testing.T) {
	m, st := newTestModel(t)
	m = createRoot(t, m, "Coding")
	m = createChild(t, m, "JS")

	// On a leaf, left jumps to the parent; on the parent it collapses.
	m = press(t, m, "left")
	assert.Equal(t, "Coding", cursorName(t, m))
	m = press(t, m, "left")
	assert.Equal(t, []shownRow{{"Coding", 0}}, shownRows(m))

	fresh := newTestSession(t, st)
	assert.False(t, fresh.IsExpanded(idOf(t, m, "Coding")))

	m = press(t, m, "enter")
	assert.Equal(t, []shownRow{{"Coding", 0}, {"JS", 1}}, shownRows(m))
}

func TestMoveModeConfirmAndMoveToRoot(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "Coding")
	m = createRoot(t, m, "JS")

	m = press(t, m, "m")
	assert.Equal(t, idOf(t, m, "JS"), m.movingID)
	m = press(t, m, "k", "enter")
	require.Equal(t, modalConfirmMove, m.modal)
	assert.Contains(t, xansi.Strip(m.View()), "Move JS")

	m = press(t, m, "enter")
	assert.Equal(t, modalNone, m.modal)
	assert.Empty(t, m.movingID)
	assert.Equal(t, []shownRow{{"Coding", 0}, {"JS", 1}}, shownRows(m))
	assert.Equal(t, "JS", cursorName(t, m))

	m = press(t, m, "m", "r")
	assert.Equal(t, []shownRow{{"Coding", 0}, {"JS", 0}}, shownRows(m))
}

func TestMoveConfirmCancelLeavesTree(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "A")
	m = createRoot(t, m, "B")

	m = press(t, m, "m", "k", "enter", "tab", "enter")
	assert.Equal(t, modalNone, m.modal)
	assert.Empty(t, m.movingID)
	assert.Equal(t, []shownRow{{"A", 0}, {"B", 0}}, shownRows(m))

	m = press(t, m, "m", "esc")
	assert.Empty(t, m.movingID)
}

func TestMoveIntoDescendantIsRejected(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "Coding")
	m = createChild(t, m, "JS")

	m = press(t, m, "k", "m", "j", "enter", "y")
	assert.Equal(t, mutate.StatusError, m.sess.Status().Kind)
	assert.Equal(t, []shownRow{{"Coding", 0}, {"JS", 1}}, shownRows(m))
	assert.Empty(t, m.movingID)
}

func TestReorderAndIndent(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "A")
	m = createRoot(t, m, "B")

	m = press(t, m, "K")
	assert.Equal(t, []shownRow{{"B", 0}, {"A", 0}}, shownRows(m))
	assert.Equal(t, "B", cursorName(t, m))

	m = press(t, m, "j", ">")
	assert.Equal(t, []shownRow{{"B", 0}, {"A", 1}}, shownRows(m))

	m = press(t, m, "<")
	assert.Equal(t, []shownRow{{"B", 0}, {"A", 0}}, shownRows(m))
}

func TestDeleteWithConfirm(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "Coding")
	m = createChild(t, m, "JS")
	m = createRoot(t, m, "Music")

	m = press(t, m, "k", "k", "d")
	require.Equal(t, modalConfirmDelete, m.modal)
	m = press(t, m, "n")
	assert.Len(t, m.rows, 3)

	m = press(t, m, "d", "enter")
	assert.Equal(t, []shownRow{{"Music", 0}}, shownRows(m))
	assert.Len(t, m.sess.Categories(), 1)
}

func TestBulkDeleteSelected(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "X")
	m = createRoot(t, m, "Y")
	m = createRoot(t, m, "Z")

	m = press(t, m, "k", "k", "space", "space")
	assert.Equal(t, 2, m.sess.CategorySelection.Len())

	m = press(t, m, "d")
	assert.Equal(t, []string{idOf(t, m, "X"), idOf(t, m, "Y")}, m.pendingIDs)
	m = press(t, m, "y")
	assert.Equal(t, []shownRow{{"Z", 0}}, shownRows(m))
	assert.Equal(t, 0, m.sess.CategorySelection.Len())
}

func TestTagsPane(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "t")
	require.Equal(t, paneTags, m.pane)
	m = press(t, m, "n")
	m = typeText(t, m, "go")
	m = press(t, m, "enter", "n")
	m = typeText(t, m, "rust")
	m = press(t, m, "enter")
	require.Len(t, m.sess.Tags(), 2)
	assert.Equal(t, 1, m.tagCursor)

	m = press(t, m, "d", "enter")
	require.Len(t, m.sess.Tags(), 1)
	assert.Equal(t, "go", m.sess.Tags()[0].Name)

	m = press(t, m, "tab")
	assert.Equal(t, paneCategories, m.pane)
	m = press(t, m, "t")
	assert.False(t, m.showTags)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	m, st := newTestModel(t)
	m = createRoot(t, m, "Coding")

	other := newTestSession(t, st)
	_, err := other.CreateCategory(context.Background(), mutate.CategoryInput{Name: "Music", Position: -1})
	require.NoError(t, err)

	m = press(t, m, "R")
	assert.Equal(t, []shownRow{{"Coding", 0}, {"Music", 0}}, shownRows(m))
}

func TestViewShowsTreeAndDetail(t *testing.T) {
	m, _ := newTestModel(t)
	m = createRoot(t, m, "Coding")
	m = createChild(t, m, "JS")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(appModel)
	view := xansi.Strip(m.View())
	assert.Contains(t, view, "Shelf")
	assert.Contains(t, view, "Coding")
	assert.Contains(t, view, "JS")
	assert.Contains(t, view, "2 categories")
	assert.True(t, strings.Contains(view, "n: new"))
}

func TestQuitSavesAndRestoresUIState(t *testing.T) {
	m, st := newTestModel(t)
	m = createRoot(t, m, "A")
	m = createRoot(t, m, "B")
	m = press(t, m, "k", "space", "k")
	require.Equal(t, "A", cursorName(t, m))

	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	m = next.(appModel)

	restored := newAppModel(context.Background(), newTestSession(t, st), st, "test")
	assert.Equal(t, "A", cursorName(t, restored))
	assert.True(t, restored.sess.CategorySelection.Has(idOf(t, m, "A")))
	assert.Equal(t, paneCategories, restored.pane)
}

func TestMoveKeyFallbacks(t *testing.T) {
	k := defaultKeyMap()
	assert.True(t, isMoveUp(k, tea.KeyMsg{Type: tea.KeyShiftUp}))
	assert.True(t, isMoveUp(k, tea.KeyMsg{Type: tea.KeyCtrlK}))
	assert.True(t, isMoveDown(k, tea.KeyMsg{Type: tea.KeyCtrlJ}))
	assert.True(t, isIndent(k, tea.KeyMsg{Type: tea.KeyRight, Alt: true}))
	assert.True(t, isOutdent(k, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'<'}}))
	assert.False(t, isIndent(k, tea.KeyMsg{Type: tea.KeyRight}))
}
