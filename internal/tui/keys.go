package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Expand     key.Binding
	Collapse   key.Binding
	Toggle     key.Binding
	Select     key.Binding
	SelectAll  key.Binding
	New        key.Binding
	NewChild   key.Binding
	Rename     key.Binding
	Delete     key.Binding
	Move       key.Binding
	MoveToRoot key.Binding
	Confirm    key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Indent     key.Binding
	Outdent    key.Binding
	Tags       key.Binding
	SwitchPane key.Binding
	Reload     key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Toggle:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle")),
		Select:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "select")),
		SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		NewChild:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new child")),
		Rename:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Move:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		MoveToRoot: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "to top level")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "move here")),
		MoveUp:     key.NewBinding(key.WithKeys("shift+up", "ctrl+k", "K"), key.WithHelp("K", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("shift+down", "ctrl+j", "J"), key.WithHelp("J", "move down")),
		Indent:     key.NewBinding(key.WithKeys("alt+right", "ctrl+l", ">"), key.WithHelp(">", "indent")),
		Outdent:    key.NewBinding(key.WithKeys("alt+left", "ctrl+h", "<"), key.WithHelp("<", "outdent")),
		Tags:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Reload:     key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "reload")),
		Cancel:     key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func (k keyMap) treeHelp() string {
	return helpLine(k.Up, k.Down, k.Toggle, k.Select, k.SelectAll, k.New, k.NewChild, k.Rename,
		k.Delete, k.Move, k.MoveUp, k.MoveDown, k.Indent, k.Outdent, k.Tags, k.Quit)
}

func (k keyMap) moveHelp() string {
	return helpLine(k.Up, k.Down, k.Expand, k.Collapse, k.Confirm, k.MoveToRoot, k.Cancel)
}

func (k keyMap) tagsHelp() string {
	return helpLine(k.Up, k.Down, k.Select, k.SelectAll, k.New, k.Rename, k.Delete, k.SwitchPane, k.Tags, k.Quit)
}

// isMoveUp and friends accept the fallback keys too, for terminals that don't send
// shift/alt arrows.
func isMoveUp(k keyMap, msg tea.KeyMsg) bool   { return key.Matches(msg, k.MoveUp) }
func isMoveDown(k keyMap, msg tea.KeyMsg) bool { return key.Matches(msg, k.MoveDown) }
func isIndent(k keyMap, msg tea.KeyMsg) bool   { return key.Matches(msg, k.Indent) }
func isOutdent(k keyMap, msg tea.KeyMsg) bool  { return key.Matches(msg, k.Outdent) }
