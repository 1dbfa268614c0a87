package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Start    key.Binding
	Launch   key.Binding
	Next     key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Close    key.Binding
	Cascade  key.Binding
	Grid     key.Binding
	Refresh  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Start: key.NewBinding(
		key.WithKeys("s", "esc"),
		key.WithHelp("s", "start menu"),
	),
	Launch: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "launch"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next window"),
	),
	Minimize: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "minimize"),
	),
	Maximize: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "maximize"),
	),
	Close: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "close"),
	),
	Cascade: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cascade"),
	),
	Grid: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "grid"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Next, k.Minimize, k.Maximize, k.Close, k.Cascade, k.Grid, k.Quit}
}
