package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

// adminTabs lists every staff pane; Usuarios is filtered out for technicians.
var adminTabs = []tab{
	{"1", "Reportes y control", viewControl},
	{"2", "Usuarios", viewUsers},
	{"3", "Incidencias", viewIncidencias},
	{"4", "Perfil", viewProfile},
}

// adminModel is the dashboard for admins and technicians.
type adminModel struct {
	deps        *deps
	user        *domain.UserProfile
	view        view
	control     controlModel
	users       usersModel
	incidencias incidenciasModel
	profile     profileModel
	width       int
	height      int
}

func newAdminModel(d *deps, user *domain.UserProfile) adminModel {
	m := adminModel{
		deps:        d,
		user:        user,
		view:        viewControl,
		control:     newControlModel(d),
		users:       newUsersModel(d),
		incidencias: newIncidenciasModel(d),
		profile:     newProfileModel(d, user),
	}
	if m.locked() {
		m.view = viewProfile
	}
	return m
}

func (m adminModel) locked() bool {
	return m.user != nil && m.user.MustChangePassword
}

func (m adminModel) isAdmin() bool {
	return m.user != nil && m.user.Role == domain.RoleAdmin
}

// tabs returns the panes this user may open.
func (m adminModel) tabs() []tab {
	if m.isAdmin() {
		return adminTabs
	}
	out := make([]tab, 0, len(adminTabs)-1)
	for _, t := range adminTabs {
		if t.v != viewUsers {
			out = append(out, t)
		}
	}
	return out
}

func (m adminModel) start() (adminModel, tea.Cmd) {
	if m.locked() {
		return m, nil
	}
	var cmd tea.Cmd
	m.control, cmd = m.control.reload()
	return m, cmd
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.control, _ = m.control.Update(msg)
		return m, nil

	case passwordChangedMsg:
		wasLocked := m.locked()
		m.profile, _ = m.profile.Update(msg)
		if msg.err != nil || msg.user == nil {
			return m, nil
		}
		m.user = msg.user
		if wasLocked {
			m.view = viewControl
			return m.start()
		}
		return m, nil

	case loadedMsg[domain.Ticket], ticketUpdatedMsg:
		m.control, cmd = m.control.Update(msg)
		return m, cmd

	case loadedMsg[domain.User], userCreatedMsg, userDeletedMsg:
		m.users, cmd = m.users.Update(msg)
		return m, cmd

	case loadedMsg[domain.Incidencia], incidenciaSavedMsg, incidenciaDeletedMsg:
		m.incidencias, cmd = m.incidencias.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.locked() {
			m.profile, cmd = m.profile.Update(msg)
			return m, cmd
		}
		if !m.isEditing() {
			if t, ok := tabFor(m.tabs(), msg.String()); ok {
				return m.switchTo(t.v)
			}
		}
		if msg.String() == "esc" && m.view == viewProfile {
			m.view = viewControl
			return m, nil
		}
		return m.updateActive(msg)
	}
	return m, nil
}

func (m adminModel) switchTo(v view) (adminModel, tea.Cmd) {
	if v == m.view {
		return m, nil
	}
	if v == viewUsers && !m.isAdmin() {
		return m, nil
	}
	m.view = v
	var cmd tea.Cmd
	switch v {
	case viewControl:
		m.control.detail = false
		m.control, cmd = m.control.reload()
	case viewUsers:
		m.users, cmd = m.users.reload()
	case viewIncidencias:
		m.incidencias, cmd = m.incidencias.reload()
	case viewProfile:
		m.profile.form.focusFirst()
	}
	return m, cmd
}

func (m adminModel) updateActive(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewControl:
		m.control, cmd = m.control.Update(msg)
	case viewUsers:
		m.users, cmd = m.users.Update(msg)
	case viewIncidencias:
		m.incidencias, cmd = m.incidencias.Update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.Update(msg)
	}
	return m, cmd
}

func (m adminModel) isEditing() bool {
	switch m.view {
	case viewControl:
		return m.control.searching
	case viewUsers:
		return m.users.isEditing()
	case viewIncidencias:
		return m.incidencias.isEditing()
	case viewProfile:
		return true
	}
	return false
}

func (m adminModel) View() string {
	tabs := renderTabs(m.tabs(), m.view, m.width, m.locked())
	var body string
	switch m.view {
	case viewControl:
		body = m.control.View()
	case viewUsers:
		body = m.users.View()
	case viewIncidencias:
		body = m.incidencias.View()
	case viewProfile:
		body = m.profile.View()
	}
	return tabs + "\n" + body
}

func (m adminModel) helpKeys() string {
	switch m.view {
	case viewControl:
		return m.control.helpKeys()
	case viewUsers:
		return m.users.helpKeys()
	case viewIncidencias:
		return m.incidencias.helpKeys()
	case viewProfile:
		if m.locked() {
			return m.profile.helpKeys()
		}
		return m.profile.helpKeys() + "  " + helpEntry("esc", "volver")
	}
	return ""
}
