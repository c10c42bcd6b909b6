package overlay

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ToggleEdit  key.Binding
	AddWidget   key.Binding
	OpacityUp   key.Binding
	OpacityDown key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// newKeyMap builds the bindings; the edit toggle comes from host settings
// so all windows agree on the hotkey.
func newKeyMap(editHotkey string) keyMap {
	if editHotkey == "" {
		editHotkey = "ctrl+e"
	}
	return keyMap{
		ToggleEdit: key.NewBinding(
			key.WithKeys(editHotkey),
			key.WithHelp(editHotkey, "edit layout"),
		),
		AddWidget: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add widget"),
		),
		OpacityUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "opacity up"),
		),
		OpacityDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "opacity down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleEdit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleEdit, k.AddWidget},
		{k.OpacityUp, k.OpacityDown},
		{k.Help, k.Quit},
	}
}
