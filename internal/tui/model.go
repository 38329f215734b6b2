package tui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"shelf-cli/internal/model"
	"shelf-cli/internal/mutate"
	"shelf-cli/internal/store"
	"shelf-cli/internal/tree"
)

type pane int

const (
	paneCategories pane = iota
	paneTags
)

func (p pane) String() string {
	if p == paneTags {
		return "tags"
	}
	return "categories"
}

type modalKind int

const (
	modalNone modalKind = iota
	modalNewCategory
	modalNewChild
	modalRenameCategory
	modalNewTag
	modalRenameTag
	modalConfirmDelete
	modalConfirmDeleteTags
	modalConfirmMove
)

type reloadTickMsg struct{}

const reloadEvery = 2 * time.Second

type appModel struct {
	ctx       context.Context
	sess      *mutate.Session
	store     store.Store
	workspace string
	logger    *zap.Logger
	keys      keyMap

	width  int
	height int

	pane     pane
	showTags bool

	rows     []tree.Row
	cursor   int
	offset   int
	cursorID string

	tagCursor int

	// bookmarks is refreshed with the tree; nil when the store has no bookmark support.
	bookmarks []model.Bookmark

	// movingID is the category picked up in move mode; the cursor chooses the target.
	movingID   string
	moveTarget string

	modal        modalKind
	modalForID   string
	input        textinput.Model
	confirmFocus confirmModalFocus
	pendingIDs   []string

	lastDBModTime  time.Time
	lastWALModTime time.Time

	// watcher is nil when file notifications are unavailable; polling covers that case.
	watcher *storeWatcher
}

func newAppModel(ctx context.Context, sess *mutate.Session, st store.Store, workspace string) appModel {
	m := appModel{
		ctx:       ctx,
		sess:      sess,
		store:     st,
		workspace: workspace,
		logger:    sess.Logger(),
		keys:      defaultKeyMap(),
		width:     100,
		height:    30,
	}
	m.restoreUIState()
	m.reloadBookmarks()
	m.syncRows()
	m.captureStoreModTimes()
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.wait()
	}
	return tickReload()
}

func tickReload() tea.Cmd {
	return tea.Tick(reloadEvery, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

// syncRows rebuilds the visible rows and keeps the cursor on the same category when it
// is still visible.
func (m *appModel) syncRows() {
	m.rows = tree.Flatten(m.sess.Tree(), m.sess.IsExpanded)
	if m.cursorID != "" {
		for i, r := range m.rows {
			if r.Node.ID == m.cursorID {
				m.cursor = i
				m.clampOffset()
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.cursorID = ""
	if len(m.rows) > 0 {
		m.cursorID = m.rows[m.cursor].Node.ID
	}
	if n := len(m.sess.Tags()); m.tagCursor >= n {
		m.tagCursor = n - 1
	}
	if m.tagCursor < 0 {
		m.tagCursor = 0
	}
	m.clampOffset()
}

func (m *appModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.cursorID = m.rows[m.cursor].Node.ID
	m.clampOffset()
}

func (m *appModel) clampOffset() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m appModel) bodyHeight() int {
	h := m.height - 5
	if h < 5 {
		h = 5
	}
	return h
}

func (m appModel) currentRow() (tree.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m appModel) currentTag() (model.Tag, bool) {
	tags := m.sess.Tags()
	if m.tagCursor < 0 || m.tagCursor >= len(tags) {
		return model.Tag{}, false
	}
	return tags[m.tagCursor], true
}

func (m *appModel) reloadBookmarks() {
	bms, err := m.sess.Bookmarks(m.ctx, model.BookmarkFilter{})
	if err != nil {
		m.logger.Debug("bookmarks unavailable", zap.Error(err))
		m.bookmarks = nil
		return
	}
	m.bookmarks = bms
}

// afterMutation refreshes derived view state after a session call, which has already
// refetched the snapshot.
func (m *appModel) afterMutation() {
	m.reloadBookmarks()
	m.syncRows()
	m.captureStoreModTimes()
}

func (m *appModel) captureStoreModTimes() {
	m.lastDBModTime = fileModTime(m.store.SQLitePath())
	m.lastWALModTime = fileModTime(m.store.SQLitePath() + "-wal")
}

// storeChanged reports writes from other processes (e.g. the CLI in another terminal).
func (m appModel) storeChanged() bool {
	return fileModTime(m.store.SQLitePath()).After(m.lastDBModTime) ||
		fileModTime(m.store.SQLitePath()+"-wal").After(m.lastWALModTime)
}

func fileModTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

func (m *appModel) reload() {
	if err := m.sess.Refresh(m.ctx); err != nil {
		m.logger.Warn("reload failed", zap.Error(err))
	}
	m.afterMutation()
}
