package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding. Single-letter bindings only apply while the
// graph pane has focus so they do not swallow typed input.
type keyMap struct {
	AnalyzeText key.Binding
	AnalyzeFile key.Binding
	Focus       key.Binding
	Blur        key.Binding
	Prev        key.Binding
	Next        key.Binding
	Export      key.Binding
	Theme       key.Binding
	Fit         key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Relayout    key.Binding
	Labels      key.Binding
	Copy        key.Binding
	Preview     key.Binding
	Watch       key.Binding
	Example     key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		AnalyzeText: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze text")),
		AnalyzeFile: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "analyze file")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Blur:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "graph pane")),
		Prev:        key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←/[", "previous code")),
		Next:        key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→/]", "next code")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export report")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Fit:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Relayout:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "relayout")),
		Labels:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "edge labels")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy summary")),
		Preview:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview report")),
		Watch:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watch file")),
		Example:     key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "example")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AnalyzeText, k.AnalyzeFile, k.Focus, k.Prev, k.Next, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AnalyzeText, k.AnalyzeFile, k.Example, k.Watch, k.Focus, k.Blur},
		{k.Prev, k.Next, k.Fit, k.ZoomIn, k.ZoomOut, k.Relayout, k.Labels},
		{k.Export, k.Preview, k.Copy, k.Theme, k.Help, k.Quit},
	}
}
