package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "ui_state.json"

// UIState stores small, user-facing TUI state for restoring the last screen on relaunch.
//
// This file lives inside the workspace directory so state is naturally scoped per workspace.
// Callers should tolerate missing/invalid data.
type UIState struct {
	Version int `json:"version"`

	// Pane is one of: categories|tags
	Pane string `json:"pane,omitempty"`

	CursorCategoryID string `json:"cursorCategoryId,omitempty"`
	CursorTagID      string `json:"cursorTagId,omitempty"`

	SelectedCategoryIDs []string `json:"selectedCategoryIds,omitempty"`
	SelectedTagIDs      []string `json:"selectedTagIds,omitempty"`
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, uiStateFileName)
}

func (s Store) LoadUIState() (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &UIState{Version: 1}, nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.uiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted state is treated as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveUIState(st *UIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "ui_state.json.*.tmp", s.uiStatePath(), b, 0o644)
}
