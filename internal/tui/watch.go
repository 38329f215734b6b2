package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type storeChangedMsg struct{}

// storeWatcher turns writes to the workspace database (from the CLI or another TUI)
// into storeChangedMsg. Bursts collapse into one pending notification.
type storeWatcher struct {
	w       *fsnotify.Watcher
	base    string
	changed chan struct{}
	logger  *zap.Logger
}

func newStoreWatcher(dir, sqlitePath string, logger *zap.Logger) (*storeWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store watcher: %w", err)
	}
	// Watch the directory: SQLite creates and removes the -wal/-shm files.
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("store watcher: %w", err)
	}
	sw := &storeWatcher{
		w:       fw,
		base:    filepath.Base(sqlitePath),
		changed: make(chan struct{}, 1),
		logger:  logger,
	}
	go sw.loop()
	return sw, nil
}

func (sw *storeWatcher) loop() {
	defer close(sw.changed)
	for {
		select {
		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if !sw.relevant(ev) {
				continue
			}
			select {
			case sw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("store watcher", zap.Error(err))
		}
	}
}

func (sw *storeWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == sw.base || strings.HasPrefix(name, sw.base+"-wal")
}

// wait blocks until the next change; it returns nil once the watcher is closed.
func (sw *storeWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-sw.changed; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (sw *storeWatcher) Close() error {
	return sw.w.Close()
}
