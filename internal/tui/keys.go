package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the TUI
type KeyMap struct {
	Download    key.Binding
	Parse       key.Binding
	Cancel      key.Binding
	NextStream  key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	ToggleBatch key.Binding
	ToggleVIP   key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Download: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "download"),
		),
		Parse: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "parse streams"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "cancel"),
		),
		NextStream: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next stream"),
		),
		NextField: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "prev field"),
		),
		ToggleBatch: key.NewBinding(
			key.WithKeys("alt+b"),
			key.WithHelp("alt+b", "toggle --batch"),
		),
		ToggleVIP: key.NewBinding(
			key.WithKeys("alt+v"),
			key.WithHelp("alt+v", "toggle --vip"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll log up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll log down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Download, k.Parse, k.Cancel, k.NextStream, k.Help, k.Quit}
}

// FullHelp lists every binding, grouped into columns
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Download, k.Parse, k.Cancel, k.NextStream},
		{k.NextField, k.PrevField, k.ToggleBatch, k.ToggleVIP},
		{k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}
