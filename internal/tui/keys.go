package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by every screen.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Open  key.Binding
	Back  key.Binding

	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	Search  key.Binding
	Refresh key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Copy    key.Binding

	// Ticket filters and status change.
	Status   key.Binding
	Priority key.Binding

	Help   key.Binding
	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "subir")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "bajar")),
	Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←", "anterior")),
	Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→", "siguiente")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "abrir")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "volver")),
	NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "siguiente campo")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "campo anterior")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "guardar")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "buscar")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nuevo")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editar")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "eliminar")),
	Confirm:   key.NewBinding(key.WithKeys("y", "s"), key.WithHelp("y", "confirmar")),
	Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copiar")),
	Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "estado")),
	Priority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prioridad")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),
	Logout:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "cerrar sesión")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
}

// helpFor renders the help bar entry for a binding.
func helpFor(b key.Binding) string {
	h := b.Help()
	return helpEntry(h.Key, h.Desc)
}
