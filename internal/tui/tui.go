package tui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"shelf-cli/internal/mutate"
	"shelf-cli/internal/store"
)

// slowStoreCall is lower than the CLI's: in the TUI a slow call is a visible stall.
const slowStoreCall = 250 * time.Millisecond

type Options struct {
	Workspace string
	Logger    *zap.Logger
	Session   mutate.Options
	// Glyphs is the configured glyph set ("unicode" or "ascii"); SHELF_TUI_GLYPHS overrides it.
	Glyphs string
}

// LogPath is the default TUI log file, since the TUI owns the terminal.
func LogPath(dir string) string {
	return filepath.Join(dir, "shelf.log")
}

func Run(ctx context.Context, st store.Store, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("tui")

	sess := mutate.NewSession(mutate.NewLoggingStore(st, logger, slowStoreCall), logger, opts.Session)
	if err := sess.Refresh(ctx); err != nil {
		return err
	}

	m := newAppModel(ctx, sess, st, opts.Workspace)
	if w, err := newStoreWatcher(st.Dir, st.SQLitePath(), logger); err != nil {
		logger.Info("file notifications unavailable; polling", zap.Error(err))
	} else {
		defer w.Close()
		m.watcher = w
	}
	logger.Info("tui started", zap.String("dir", st.Dir), zap.Int("categories", len(sess.Categories())))
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
