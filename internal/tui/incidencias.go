package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

type incidenciaSavedMsg struct {
	created bool
	err     error
}

type incidenciaDeletedMsg struct {
	id  int64
	err error
}

const (
	incFieldTitle = iota
	incFieldSolution
	incFieldCategory
	incFieldPublic
)

const (
	choicePublic  = "pública"
	choicePrivate = "privada"
)

// incidenciasModel maintains the knowledge base. Staff only.
type incidenciasModel struct {
	deps    *deps
	seq     requestSeq
	items   []domain.Incidencia
	cursor  int
	loading bool
	err     string
	flash   string

	editing bool
	current domain.Incidencia
	form    form
	saving  bool
	formErr string

	confirm *confirmation
}

func newIncidenciasModel(d *deps) incidenciasModel {
	return incidenciasModel{deps: d}
}

func (m incidenciasModel) reload() (incidenciasModel, tea.Cmd) {
	m.loading = true
	seq := m.seq.next()
	d := m.deps
	return m, func() tea.Msg {
		items, err := d.client.ListIncidencias(d.ctx)
		return loadedMsg[domain.Incidencia]{seq: seq, items: items, err: err}
	}
}

func newIncidenciaForm(i domain.Incidencia) form {
	visibility := choicePublic
	if !i.IsPublic {
		visibility = choicePrivate
	}
	f := newForm(
		textField("Título", "problema conocido"),
		textField("Solución", "pasos para resolverlo"),
		textField("Categoría", domain.DefaultCategory),
		choiceField("Visibilidad", []string{choicePublic, choicePrivate}, visibility),
	)
	f.setValue(incFieldTitle, i.Title)
	f.setValue(incFieldSolution, i.Solution)
	f.setValue(incFieldCategory, i.Category)
	return f
}

func (m incidenciasModel) isEditing() bool {
	return m.editing || m.confirm != nil
}

func (m incidenciasModel) Update(msg tea.Msg) (incidenciasModel, tea.Cmd) {
	switch msg := msg.(type) {
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
		m.cursor = clampCursor(m.cursor, len(m.items))

	case incidenciaSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.formErr = client.Message(msg.err)
			return m, nil
		}
		m.editing = false
		if msg.created {
			m.flash = "Incidencia creada."
		} else {
			m.flash = "Incidencia actualizada."
		}
		return m.reload()

	case incidenciaDeletedMsg:
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.flash = "Incidencia eliminada."
		return m.reload()

	case tea.KeyMsg:
		switch {
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.editing:
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m incidenciasModel) updateList(msg tea.KeyMsg) (incidenciasModel, tea.Cmd) {
	k := m.deps.keys
	m.flash = ""
	switch {
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.New):
		m.startEdit(domain.NewIncidencia())
	case key.Matches(msg, k.Edit), key.Matches(msg, k.Open):
		if m.cursor < len(m.items) {
			m.startEdit(m.items[m.cursor])
		}
	case key.Matches(msg, k.Delete):
		if m.cursor < len(m.items) {
			it := m.items[m.cursor]
			m.confirm = &confirmation{prompt: fmt.Sprintf("¿Eliminar la incidencia %q?", it.Title), id: it.ID}
		}
	case key.Matches(msg, k.Refresh):
		return m.reload()
	}
	return m, nil
}

func (m *incidenciasModel) startEdit(i domain.Incidencia) {
	m.editing = true
	m.current = i
	m.form = newIncidenciaForm(i)
	m.formErr = ""
}

func (m incidenciasModel) updateForm(msg tea.KeyMsg) (incidenciasModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	k := m.deps.keys
	switch {
	case key.Matches(msg, k.Back):
		m.editing = false
		return m, nil
	case key.Matches(msg, k.Submit):
		return m.save()
	}
	m.formErr = ""
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg, k)
	return m, cmd
}

func (m incidenciasModel) save() (incidenciasModel, tea.Cmd) {
	inc := m.current
	inc.Title = strings.TrimSpace(m.form.value(incFieldTitle))
	inc.Solution = strings.TrimSpace(m.form.value(incFieldSolution))
	inc.Category = strings.TrimSpace(m.form.value(incFieldCategory))
	inc.IsPublic = m.form.value(incFieldPublic) == choicePublic
	if inc.Category == "" {
		inc.Category = domain.DefaultCategory
	}
	if inc.Title == "" || inc.Solution == "" {
		m.formErr = "El título y la solución son obligatorios."
		return m, nil
	}
	m.saving = true
	d := m.deps
	return m, func() tea.Msg {
		if inc.ID == 0 {
			return incidenciaSavedMsg{created: true, err: d.client.CreateIncidencia(d.ctx, inc)}
		}
		return incidenciaSavedMsg{err: d.client.UpdateIncidencia(d.ctx, inc)}
	}
}

func (m incidenciasModel) updateConfirm(msg tea.KeyMsg) (incidenciasModel, tea.Cmd) {
	yes, done := m.confirm.answer(msg, m.deps.keys)
	if !done {
		return m, nil
	}
	id := m.confirm.id
	m.confirm = nil
	if !yes {
		return m, nil
	}
	d := m.deps
	return m, func() tea.Msg {
		return incidenciaDeletedMsg{id: id, err: d.client.DeleteIncidencia(d.ctx, id)}
	}
}

func (m incidenciasModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Gestión de incidencias") + "\n\n")

	if m.editing {
		heading := "Nueva incidencia"
		if m.current.ID != 0 {
			heading = fmt.Sprintf("Editar incidencia #%d", m.current.ID)
		}
		b.WriteString(" " + sectionHeaderStyle.Render(heading) + "\n")
		b.WriteString(m.form.View())
		b.WriteString("\n")
		if m.saving {
			b.WriteString(" " + dimStyle.Render("guardando...") + "\n")
		} else if m.formErr != "" {
			b.WriteString(" " + errorStyle.Render(m.formErr) + "\n")
		}
		return b.String()
	}

	if m.confirm != nil {
		b.WriteString(m.confirm.View() + "\n")
	}
	if m.loading && len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render("cargando incidencias...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err) + "\n\n")
	}
	if m.flash != "" {
		b.WriteString(" " + successStyle.Render(m.flash) + "\n\n")
	}
	if len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render("No hay incidencias registradas.") + "\n")
		return b.String()
	}
	for i, it := range m.items {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		visibility := successStyle.Render("pública")
		if !it.IsPublic {
			visibility = metaStyle.Render("privada")
		}
		fmt.Fprintf(&b, " %s %s %s  %s  %s\n", cursor, metaStyle.Render(fmt.Sprintf("#%-4d", it.ID)),
			style.Render(fmt.Sprintf("%-36s", truncStr(oneLine(it.Title), 36))),
			dimStyle.Render(fmt.Sprintf("%-14s", truncStr(it.Category, 14))), visibility)
	}
	return b.String()
}

func (m incidenciasModel) helpKeys() string {
	k := m.deps.keys
	switch {
	case m.editing:
		return helpBar(helpFor(k.NextField), helpEntry("←/→", "visibilidad"), helpFor(k.Submit), helpEntry("esc", "cancelar"))
	case m.confirm != nil:
		return helpBar(helpEntry("y", "eliminar"), helpEntry("n", "cancelar"))
	}
	return helpBar(helpEntry("1-4", "secciones"), helpEntry("j/k", "navegar"), helpFor(k.New), helpFor(k.Edit),
		helpFor(k.Delete), helpFor(k.Refresh), helpFor(k.Logout), helpFor(k.Quit))
}
