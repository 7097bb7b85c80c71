package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

type copyResultMsg struct {
	err error
}

// libraryModel browses the public knowledge base.
type libraryModel struct {
	deps      *deps
	seq       requestSeq
	items     []domain.Incidencia
	query     string
	searching bool
	cursor    int
	expanded  map[int64]bool
	loading   bool
	err       string
	statusMsg string
	width     int
}

func newLibraryModel(d *deps) libraryModel {
	return libraryModel{deps: d, expanded: make(map[int64]bool)}
}

func (m libraryModel) reload() (libraryModel, tea.Cmd) {
	m.loading = true
	seq := m.seq.next()
	d := m.deps
	return m, func() tea.Msg {
		items, err := d.client.PublicIncidencias(d.ctx)
		return loadedMsg[domain.Incidencia]{seq: seq, items: items, err: err}
	}
}

// visible is the list after the live search filter.
func (m libraryModel) visible() []domain.Incidencia {
	return domain.FilterIncidencias(m.items, m.query)
}

func (m libraryModel) Update(msg tea.Msg) (libraryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loadedMsg[domain.Incidencia]:
		if !m.seq.current(msg.seq) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.items = msg.items
		m.cursor = clampCursor(m.cursor, len(m.visible()))

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "no se pudo copiar: " + msg.err.Error()
		} else {
			m.statusMsg = "¡solución copiada!"
		}

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m libraryModel) updateSearch(msg tea.KeyMsg) (libraryModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.query = ""
	default:
		m.query = editRune(m.query, msg.String())
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	return m, nil
}

func (m libraryModel) updateList(msg tea.KeyMsg) (libraryModel, tea.Cmd) {
	k := m.deps.keys
	items := m.visible()
	switch {
	case key.Matches(msg, k.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Open):
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			m.expanded[id] = !m.expanded[id]
		}
	case key.Matches(msg, k.Search):
		m.searching = true
	case key.Matches(msg, k.Back):
		m.query = ""
	case key.Matches(msg, k.Copy):
		if m.cursor < len(items) {
			text := items[m.cursor].Solution
			write := m.deps.copy
			return m, func() tea.Msg {
				return copyResultMsg{err: write(text)}
			}
		}
	case key.Matches(msg, k.Refresh):
		return m.reload()
	}
	return m, nil
}

func (m libraryModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Biblioteca de soluciones") + "\n")
	b.WriteString(renderSearch(m.query, m.searching))
	b.WriteString("\n")

	if m.loading && len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render("cargando biblioteca...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return b.String()
	}
	items := m.visible()
	if len(items) == 0 {
		if m.query != "" {
			b.WriteString(" " + dimStyle.Render("Sin resultados para \""+m.query+"\".") + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("La biblioteca está vacía.") + "\n")
		}
		return b.String()
	}

	wrapWidth := m.width - 8
	if wrapWidth < 30 {
		wrapWidth = 60
	}
	for i, it := range items {
		active := i == m.cursor
		cursor := " "
		style := normalStyle
		if active {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		marker := "+"
		if m.expanded[it.ID] {
			marker = "-"
		}
		b.WriteString(" " + cursor + " " + metaStyle.Render(marker) + " " + style.Render(it.Title) +
			"  " + dimStyle.Render("["+it.Category+"]") + "\n")
		if m.expanded[it.ID] {
			wrapped := lipgloss.NewStyle().Width(wrapWidth).Render(it.Solution)
			for _, line := range strings.Split(wrapped, "\n") {
				b.WriteString("      " + normalStyle.Render(line) + "\n")
			}
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m libraryModel) helpKeys() string {
	k := m.deps.keys
	if m.searching {
		return helpBar(helpEntry("enter", "aplicar"), helpEntry("esc", "limpiar"))
	}
	return helpBar(helpEntry("1-5", "secciones"), helpEntry("j/k", "navegar"), helpEntry("enter", "expandir"),
		helpFor(k.Search), helpFor(k.Copy), helpFor(k.Refresh), helpFor(k.Quit))
}
