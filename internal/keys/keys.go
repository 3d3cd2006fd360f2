// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// PlaygroundKeyMap defines the playground keybindings. Printable keys go to
// the query input, so every binding uses a control or function key.
type PlaygroundKeyMap struct {
	NextSupertype key.Binding
	PrevSupertype key.Binding
	ToggleWrap    key.Binding
	NextLocale    key.Binding
	Save          key.Binding
	Clear         key.Binding

	Help key.Binding
	Quit key.Binding
}

// Playground is the global playground key map.
var Playground = PlaygroundKeyMap{
	NextSupertype: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next supertype"),
	),
	PrevSupertype: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev supertype"),
	),
	ToggleWrap: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "toggle wrapping"),
	),
	NextLocale: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "next language"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save settings"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear query"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1", "ctrl+g"),
		key.WithHelp("f1", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k PlaygroundKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSupertype, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k PlaygroundKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextSupertype, k.PrevSupertype, k.ToggleWrap, k.NextLocale}, // Highlighting
		{k.Save, k.Clear, k.Help, k.Quit},                               // General
	}
}
