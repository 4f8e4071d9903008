package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	Next      key.Binding
	Quit      key.Binding
	Customers key.Binding
	Bills     key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Edit      key.Binding
	Pay       key.Binding
	Filter    key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	FillFull  key.Binding
}

var defaultKeys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Customers: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "customers")),
	Bills:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "bills")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete measurement")),
	Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
	Cancel:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "manage order")),
	Pay:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "record payment")),
	Filter:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "status filter")),
	PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
	FillFull:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "paid in full")),
}

// bindings adapts a flat list of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }
