package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

// loginDoneMsg is the result of Store.Login.
type loginDoneMsg struct {
	err error
}

const (
	loginFieldEmail = iota
	loginFieldPassword
)

type loginModel struct {
	deps       *deps
	form       form
	err        string
	submitting bool
}

func newLoginModel(d *deps) loginModel {
	return loginModel{
		deps: d,
		form: newForm(
			textField("Correo", "usuario@empresa.com"),
			passwordField("Contraseña"),
		),
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err.Error()
			m.form.setValue(loginFieldPassword, "")
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		submit := key.Matches(msg, m.deps.keys.Submit) ||
			(msg.Type == tea.KeyEnter && m.form.focus == loginFieldPassword)
		if submit {
			return m.submit()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg, m.deps.keys)
		return m, cmd
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := domain.Credentials{
		Email:    strings.TrimSpace(m.form.value(loginFieldEmail)),
		Password: m.form.value(loginFieldPassword),
	}
	if creds.Email == "" || creds.Password == "" {
		m.err = "Ingrese su correo y contraseña."
		return m, nil
	}
	m.err = ""
	m.submitting = true
	d := m.deps
	return m, func() tea.Msg {
		return loginDoneMsg{err: d.store.Login(d.ctx, creds)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("LC Consultores") + "\n")
	b.WriteString(" " + dimStyle.Render("Cada incidencia, registrada y resuelta.") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("ingresando...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	return helpBar(helpEntry("tab", "siguiente campo"), helpEntry("enter", "ingresar"), helpEntry("ctrl+c", "salir"))
}
