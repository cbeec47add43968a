package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle    key.Binding
	Delete    key.Binding
	Add       key.Binding
	Edit      key.Binding
	ToggleAll key.Binding
	Clear     key.Binding
	Filter    key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
}

func newKeyMap() *keyMap {
	return &keyMap{
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:       key.NewBinding(key.WithKeys("a", "tab"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		ToggleAll: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		Filter:    key.NewBinding(key.WithKeys("f", "1", "2", "3"), key.WithHelp("f/1-3", "filter")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// short is appended to the list's own help; disabled bindings are hidden.
func (k *keyMap) short() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Edit, k.Delete, k.ToggleAll, k.Clear, k.Filter, k.Dismiss}
}
