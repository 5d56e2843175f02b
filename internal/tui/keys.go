package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Tag     key.Binding
	Float   key.Binding
	Close   key.Binding
	Cycle   key.Binding
	Ratio   key.Binding
	Shrink  key.Binding
	Grow    key.Binding
	Fewer   key.Binding
	More    key.Binding
	GapDown key.Binding
	GapUp   key.Binding
	Bar     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	tab Tab
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show")),
		Tag:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "tag")),
		Float:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "float")),
		Close:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
		Cycle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle layout")),
		Ratio:   key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "master ratio")),
		Shrink:  key.NewBinding(key.WithKeys("h")),
		Grow:    key.NewBinding(key.WithKeys("l")),
		Fewer:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-/+", "master count")),
		More:    key.NewBinding(key.WithKeys("+", "=")),
		GapDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "gap")),
		GapUp:   key.NewBinding(key.WithKeys("]")),
		Bar:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle bar")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the active tab.
func (k keyMap) ShortHelp() []key.Binding {
	if k.tab == TabLayout {
		return []key.Binding{k.Cycle, k.Ratio, k.Fewer, k.GapDown, k.Help, k.Quit}
	}
	return []key.Binding{k.Up, k.Down, k.Select, k.Tag, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	common := []key.Binding{k.NextTab, k.PrevTab, k.Refresh, k.Quit}
	if k.tab == TabLayout {
		return [][]key.Binding{{k.Cycle, k.Ratio, k.Fewer, k.GapDown, k.Bar}, common}
	}
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Tag, k.Float, k.Close}, common}
}
