package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

// passwordChangedMsg reports a finished password change. user is the
// profile as stored afterwards.
type passwordChangedMsg struct {
	user *domain.UserProfile
	err  error
}

const (
	pwFieldOld = iota
	pwFieldNew
	pwFieldConfirm
)

// profileModel shows the user's data and the password change form. When
// forced, the user logged in with a temporary password and the current
// password is not asked for.
type profileModel struct {
	deps      *deps
	user      *domain.UserProfile
	forced    bool
	form      form
	saving    bool
	err       string
	statusMsg string
}

func newProfileModel(d *deps, user *domain.UserProfile) profileModel {
	m := profileModel{deps: d, user: user}
	m.forced = user != nil && user.MustChangePassword
	m.form = newPasswordForm(m.forced)
	return m
}

func newPasswordForm(forced bool) form {
	f := newForm(
		passwordField("Contraseña actual"),
		passwordField("Nueva contraseña"),
		passwordField("Confirmar contraseña"),
	)
	f.setHidden(pwFieldOld, forced)
	return f
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case passwordChangedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.user = msg.user
		m.forced = false
		m.form = newPasswordForm(false)
		m.statusMsg = "Contraseña actualizada correctamente."

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		if key.Matches(msg, m.deps.keys.Submit) {
			return m.submit()
		}
		m.err = ""
		m.statusMsg = ""
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg, m.deps.keys)
		return m, cmd
	}
	return m, nil
}

func (m profileModel) submit() (profileModel, tea.Cmd) {
	change := domain.PasswordChange{
		OldPassword: m.form.value(pwFieldOld),
		NewPassword: m.form.value(pwFieldNew),
	}
	if err := change.Validate(m.forced, m.form.value(pwFieldConfirm)); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.saving = true
	d := m.deps
	forced := m.forced
	return m, func() tea.Msg {
		if err := d.client.ChangePassword(d.ctx, change); err != nil {
			return passwordChangedMsg{err: err}
		}
		user := d.store.User()
		if user == nil {
			return passwordChangedMsg{}
		}
		if forced {
			user.MustChangePassword = false
			if err := d.store.SaveUser(*user); err != nil {
				// The server accepted the change; keep going on the in-memory copy.
				d.logger.Warn("persist profile after password change", "error", err)
				d.store.SetUser(*user)
			}
		}
		d.logger.Info("password changed", "user_id", user.ID, "forced", forced)
		return passwordChangedMsg{user: user}
	}
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Configuración de perfil") + "\n\n")
	if m.forced {
		b.WriteString(" " + warnStyle.Render("Debe cambiar su contraseña temporal antes de continuar.") + "\n\n")
	}
	if m.user != nil {
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("Nombre:"), normalStyle.Render(m.user.FullName()))
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("Correo:"), normalStyle.Render(m.user.Email))
		fmt.Fprintf(&b, " %s %s\n\n", sectionHeaderStyle.Render("Rol:"), normalStyle.Render(strings.ToUpper(string(m.user.Role))))
	}
	b.WriteString(" " + sectionHeaderStyle.Render("Cambiar contraseña") + "\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(" " + dimStyle.Render("actualizando...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case m.statusMsg != "":
		b.WriteString(" " + successStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m profileModel) helpKeys() string {
	k := m.deps.keys
	if m.forced {
		return helpBar(helpFor(k.NextField), helpFor(k.Submit), helpFor(k.Logout))
	}
	return helpBar(helpFor(k.NextField), helpFor(k.Submit), helpFor(k.Logout), helpEntry("ctrl+c", "salir"))
}
