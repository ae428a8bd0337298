package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	quit      key.Binding
	toggle    key.Binding
	rename    key.Binding
	copy      key.Binding
	skip      key.Binding
	restart   key.Binding
	buildInfo key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab")),
	quit:      key.NewBinding(key.WithKeys("q")),
	toggle:    key.NewBinding(key.WithKeys(" ")),
	rename:    key.NewBinding(key.WithKeys("e")),
	copy:      key.NewBinding(key.WithKeys("c")),
	skip:      key.NewBinding(key.WithKeys("s")),
	restart:   key.NewBinding(key.WithKeys("r")),
	buildInfo: key.NewBinding(key.WithKeys("f1")),
}
