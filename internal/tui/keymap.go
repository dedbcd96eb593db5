package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding

	// Grading
	ToggleFill  key.Binding
	DisableFill key.Binding
	Save        key.Binding

	// Rules
	AddRule    key.Binding
	RemoveRule key.Binding
	ApplyRules key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next item"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "right", "l", "n"),
			key.WithHelp("enter/→", "next group"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "previous group"),
		),
		ToggleFill: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "toggle group fill"),
		),
		DisableFill: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "grade one by one"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		AddRule: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "add rule"),
		),
		RemoveRule: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "drop last rule"),
		),
		ApplyRules: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply rules"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "save and quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns the bindings shown under the group.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.ToggleFill, k.Save, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.ToggleFill, k.DisableFill, k.Save},
		{k.AddRule, k.RemoveRule, k.ApplyRules},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
