package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

type userCreatedMsg struct {
	resp *domain.CreatedUser
	err  error
}

type userDeletedMsg struct {
	id  int64
	err error
}

const (
	userFieldFirst = iota
	userFieldLast
	userFieldEmail
	userFieldRole
)

// usersModel manages accounts. Admin only.
type usersModel struct {
	deps    *deps
	seq     requestSeq
	users   []domain.User
	cursor  int
	loading bool
	err     string
	flash   string

	creating bool
	form     form
	saving   bool
	formErr  string
	created  *domain.CreatedUser

	confirm *confirmation
}

func newUsersModel(d *deps) usersModel {
	return usersModel{deps: d}
}

func (m usersModel) reload() (usersModel, tea.Cmd) {
	m.loading = true
	seq := m.seq.next()
	d := m.deps
	return m, func() tea.Msg {
		users, err := d.client.ListUsers(d.ctx)
		return loadedMsg[domain.User]{seq: seq, items: users, err: err}
	}
}

func newUserForm() form {
	roles := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		roles[i] = string(r)
	}
	return newForm(
		textField("Nombre", ""),
		textField("Apellido", ""),
		textField("Correo", "usuario@empresa.com"),
		choiceField("Rol", roles, string(domain.RoleAccountant)),
	)
}

func (m usersModel) isEditing() bool {
	return m.creating || m.confirm != nil
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[domain.User]:
		if !m.seq.current(msg.seq) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.users = msg.items
		m.cursor = clampCursor(m.cursor, len(m.users))

	case userCreatedMsg:
		m.saving = false
		if msg.err != nil {
			m.formErr = client.Message(msg.err)
			return m, nil
		}
		m.creating = false
		m.created = msg.resp
		return m.reload()

	case userDeletedMsg:
		if msg.err != nil {
			m.flash = ""
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.flash = "Usuario eliminado."
		return m.reload()

	case tea.KeyMsg:
		switch {
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.creating:
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m usersModel) updateList(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	k := m.deps.keys
	m.flash = ""
	if m.created != nil {
		// Any key dismisses the creation summary.
		m.created = nil
		return m, nil
	}
	switch {
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.New):
		m.creating = true
		m.formErr = ""
		m.form = newUserForm()
	case key.Matches(msg, k.Delete):
		if m.cursor < len(m.users) {
			u := m.users[m.cursor]
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			m.confirm = &confirmation{prompt: fmt.Sprintf("¿Eliminar al usuario %s?", name), id: u.ID}
		}
	case key.Matches(msg, k.Refresh):
		return m.reload()
	}
	return m, nil
}

func (m usersModel) updateForm(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	k := m.deps.keys
	switch {
	case key.Matches(msg, k.Back):
		m.creating = false
		return m, nil
	case key.Matches(msg, k.Submit):
		nu := domain.NewUser{
			FirstName: strings.TrimSpace(m.form.value(userFieldFirst)),
			LastName:  strings.TrimSpace(m.form.value(userFieldLast)),
			Email:     strings.TrimSpace(m.form.value(userFieldEmail)),
			Role:      domain.Role(m.form.value(userFieldRole)),
		}
		if nu.FirstName == "" || nu.LastName == "" || nu.Email == "" {
			m.formErr = "Nombre, apellido y correo son obligatorios."
			return m, nil
		}
		m.saving = true
		d := m.deps
		return m, func() tea.Msg {
			resp, err := d.client.CreateUser(d.ctx, nu)
			if err == nil {
				d.logger.Info("user created", "role", nu.Role)
			}
			return userCreatedMsg{resp: resp, err: err}
		}
	}
	m.formErr = ""
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg, k)
	return m, cmd
}

func (m usersModel) updateConfirm(msg tea.KeyMsg) (usersModel, tea.Cmd) {
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
		err := d.client.DeleteUser(d.ctx, id)
		if err == nil {
			d.logger.Info("user deleted", "user_id", id)
		}
		return userDeletedMsg{id: id, err: err}
	}
}

func (m usersModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Gestión de usuarios") + "\n\n")

	if m.creating {
		b.WriteString(m.form.View())
		b.WriteString("\n " + dimStyle.Render("La contraseña temporal la genera el servidor.") + "\n")
		if m.saving {
			b.WriteString(" " + dimStyle.Render("creando...") + "\n")
		} else if m.formErr != "" {
			b.WriteString(" " + errorStyle.Render(m.formErr) + "\n")
		}
		return b.String()
	}
	if m.created != nil {
		var box strings.Builder
		box.WriteString(successStyle.Render(m.created.Message) + "\n")
		if m.created.DefaultPassword != "" {
			box.WriteString(sectionHeaderStyle.Render("Contraseña temporal: ") + selectedStyle.Render(m.created.DefaultPassword) + "\n")
		}
		if m.created.SimulatedEmailContent != "" {
			box.WriteString("\n" + dimStyle.Render(m.created.SimulatedEmailContent))
		}
		b.WriteString(boxStyle.Render(box.String()) + "\n")
		b.WriteString(" " + metaStyle.Render("pulse cualquier tecla para continuar") + "\n")
		return b.String()
	}

	if m.confirm != nil {
		b.WriteString(m.confirm.View() + "\n")
	}
	if m.loading && len(m.users) == 0 {
		b.WriteString(" " + dimStyle.Render("cargando usuarios...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err) + "\n\n")
	}
	if m.flash != "" {
		b.WriteString(" " + successStyle.Render(m.flash) + "\n\n")
	}
	if len(m.users) == 0 {
		b.WriteString(" " + dimStyle.Render("No hay usuarios registrados.") + "\n")
		return b.String()
	}
	for i, u := range m.users {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		name := fmt.Sprintf("%-28s", truncStr(strings.TrimSpace(u.FirstName+" "+u.LastName), 28))
		fmt.Fprintf(&b, " %s %s %s  %s  %s\n", cursor, metaStyle.Render(fmt.Sprintf("#%-4d", u.ID)),
			style.Render(name), accentStyle.Render(fmt.Sprintf("%-9s", u.Role)), dimStyle.Render(u.Email))
	}
	return b.String()
}

func (m usersModel) helpKeys() string {
	k := m.deps.keys
	switch {
	case m.creating:
		return helpBar(helpFor(k.NextField), helpEntry("←/→", "rol"), helpFor(k.Submit), helpEntry("esc", "cancelar"))
	case m.confirm != nil:
		return helpBar(helpEntry("y", "eliminar"), helpEntry("n", "cancelar"))
	}
	return helpBar(helpEntry("1-4", "secciones"), helpEntry("j/k", "navegar"), helpFor(k.New), helpFor(k.Delete),
		helpFor(k.Refresh), helpFor(k.Logout), helpFor(k.Quit))
}
