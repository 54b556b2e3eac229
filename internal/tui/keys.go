package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/sweep/internal/project"
	"github.com/danieljhkim/sweep/internal/selection"
)

// KeyMap defines the key bindings for the project list.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	SortSize  key.Binding
	SortDate  key.Binding
	SortName  key.Binding
	Delete    key.Binding
	Yes       key.Binding
	No        key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		SortSize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by size"),
		),
		SortDate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "sort by age"),
		),
		SortName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "sort by name"),
		),
		Delete: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "delete selected"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.SelectAll, k.Delete, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Toggle, k.SelectAll, k.Delete},
		{k.SortSize, k.SortDate, k.SortName},
		{k.Help, k.Quit},
	}
}

// eventFor maps a key press to a controller event for the given state. It
// returns nil for keys that mean nothing there.
func (k KeyMap) eventFor(msg tea.KeyMsg, state selection.State) selection.Event {
	if msg.Type == tea.KeyCtrlC {
		return selection.Quit{}
	}

	switch state {
	case selection.StateConfirming:
		switch {
		case key.Matches(msg, k.Yes):
			return selection.Accept{}
		case key.Matches(msg, k.No):
			return selection.Decline{}
		case key.Matches(msg, k.Quit):
			return selection.Quit{}
		}
		return nil

	case selection.StateReady:
		switch {
		case key.Matches(msg, k.Up):
			return selection.Up{}
		case key.Matches(msg, k.Down):
			return selection.Down{}
		case key.Matches(msg, k.PageUp):
			return selection.PageUp{}
		case key.Matches(msg, k.PageDown):
			return selection.PageDown{}
		case key.Matches(msg, k.Home):
			return selection.Home{}
		case key.Matches(msg, k.End):
			return selection.End{}
		case key.Matches(msg, k.Toggle):
			return selection.Toggle{}
		case key.Matches(msg, k.SelectAll):
			return selection.SelectAll{}
		case key.Matches(msg, k.SortSize):
			return selection.SortBy{Key: project.SortBySize}
		case key.Matches(msg, k.SortDate):
			return selection.SortBy{Key: project.SortByAge}
		case key.Matches(msg, k.SortName):
			return selection.SortBy{Key: project.SortByName}
		case key.Matches(msg, k.Delete):
			return selection.Commit{}
		}
	}

	if key.Matches(msg, k.Quit) {
		return selection.Quit{}
	}
	return nil
}
