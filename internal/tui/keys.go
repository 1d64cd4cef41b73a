package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Search    key.Binding
	Sort      key.Binding
	Column    key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Reload    key.Binding
	Track     key.Binding
	Announce  key.Binding
	Dismiss   key.Binding
	Save      key.Binding
	Copy      key.Binding
	Logout    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "buscar")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "ordenar")),
		Column:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "columna")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "arriba")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "abajo")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "anterior")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "siguiente")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
		Track:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "rastrear")),
		Announce:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "anunciar")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "descartar")),
		Save:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "guardar")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copiar guía")),
		Logout:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "cerrar sesión")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "aceptar")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "siguiente campo")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "campo anterior")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.Column, k.Up, k.Down, k.PrevPage, k.NextPage, k.Reload, k.Track, k.Announce, k.Copy, k.Dismiss, k.Save, k.Logout, k.Quit}
}

func (k keyMap) TrackHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Copy, k.Cancel}
}

func (k keyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Confirm, k.Cancel}
}
