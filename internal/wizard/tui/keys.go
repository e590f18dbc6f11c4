package tui

import "github.com/charmbracelet/bubbles/key"

// configureKeyMap defines key bindings for the configure screen
type configureKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Edit    key.Binding
	Contact key.Binding
	Next    key.Binding
	Decline key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k configureKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Contact, k.Next, k.Decline, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k configureKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Edit},
		{k.Contact, k.Next, k.Decline, k.Quit},
	}
}

// editKeyMap defines key bindings while a value is being typed
type editKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// previewKeyMap defines key bindings for the preview screen
type previewKeyMap struct {
	Scroll   key.Binding
	Accept   key.Binding
	Submit   key.Binding
	Back     key.Binding
	Download key.Binding
	Decline  key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Submit, k.Back, k.Download, k.Decline, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scroll, k.Accept, k.Submit},
		{k.Back, k.Download, k.Decline, k.Quit},
	}
}

// resultKeyMap defines key bindings for the error and done screens
type resultKeyMap struct {
	Retry key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Retry, k.Back, k.Quit}}
}

func newConfigureKeys() configureKeyMap {
	return configureKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Edit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Contact: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "contact info")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Decline: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "decline")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

func newEditKeys() editKeyMap {
	return editKeyMap{
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "set")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func newPreviewKeys() previewKeyMap {
	return previewKeyMap{
		Scroll:   key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Accept:   key.NewBinding(key.WithKeys(" ", "a"), key.WithHelp("space", "accept license")),
		Submit:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		Back:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
		Download: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "download")),
		Decline:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "decline")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

func newResultKeys() resultKeyMap {
	return resultKeyMap{
		Retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Back:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "enter"), key.WithHelp("q", "quit")),
	}
}
