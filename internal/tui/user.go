package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

var userTabs = []tab{
	{"1", "Inicio", viewHome},
	{"2", "Reportar", viewReport},
	{"3", "Historial", viewHistory},
	{"4", "Biblioteca", viewLibrary},
	{"5", "Perfil", viewProfile},
}

// userModel is the dashboard for accountants.
type userModel struct {
	deps    *deps
	user    *domain.UserProfile
	view    view
	report  reportModel
	history historyModel
	library libraryModel
	profile profileModel
	width   int
	height  int
}

func newUserModel(d *deps, user *domain.UserProfile) userModel {
	m := userModel{
		deps:    d,
		user:    user,
		view:    viewHome,
		report:  newReportModel(d),
		history: newHistoryModel(d),
		library: newLibraryModel(d),
		profile: newProfileModel(d, user),
	}
	if m.locked() {
		m.view = viewProfile
	}
	return m
}

// locked is true while a temporary password must be replaced.
func (m userModel) locked() bool {
	return m.user != nil && m.user.MustChangePassword
}

// start issues the initial loads. The home pane summarises the history.
func (m userModel) start() (userModel, tea.Cmd) {
	if m.locked() {
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.reload()
	return m, cmd
}

func (m userModel) Update(msg tea.Msg) (userModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history, _ = m.history.Update(msg)
		m.library, _ = m.library.Update(msg)
		return m, nil

	case ticketReportedMsg:
		m.report, _ = m.report.Update(msg)
		if msg.err != nil {
			return m, nil
		}
		m.view = viewHistory
		m.history.detail = false
		m.history, cmd = m.history.reload()
		m.history.flash = "¡Incidencia reportada con éxito! Su ticket ha sido registrado automáticamente."
		return m, cmd

	case passwordChangedMsg:
		wasLocked := m.locked()
		m.profile, _ = m.profile.Update(msg)
		if msg.err != nil || msg.user == nil {
			return m, nil
		}
		m.user = msg.user
		if wasLocked {
			m.view = viewHome
			return m.start()
		}
		return m, nil

	case loadedMsg[domain.Ticket], ticketUpdatedMsg:
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case loadedMsg[domain.Incidencia], copyResultMsg:
		m.library, cmd = m.library.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.locked() {
			m.profile, cmd = m.profile.Update(msg)
			return m, cmd
		}
		if !m.isEditing() {
			if t, ok := tabFor(userTabs, msg.String()); ok {
				return m.switchTo(t.v)
			}
		}
		if msg.String() == "esc" && (m.view == viewReport || m.view == viewProfile) {
			m.view = viewHome
			return m, nil
		}
		return m.updateActive(msg)
	}
	return m, nil
}

func (m userModel) switchTo(v view) (userModel, tea.Cmd) {
	if v == m.view {
		return m, nil
	}
	m.view = v
	var cmd tea.Cmd
	switch v {
	case viewHistory:
		m.history.detail = false
		m.history, cmd = m.history.reload()
	case viewLibrary:
		if m.library.items == nil {
			m.library, cmd = m.library.reload()
		}
	case viewReport:
		m.report.form.focusFirst()
	case viewProfile:
		m.profile.form.focusFirst()
	}
	return m, cmd
}

func (m userModel) updateActive(msg tea.KeyMsg) (userModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewReport:
		m.report, cmd = m.report.Update(msg)
	case viewHistory:
		m.history, cmd = m.history.Update(msg)
	case viewLibrary:
		m.library, cmd = m.library.Update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.Update(msg)
	}
	return m, cmd
}

// isEditing reports whether keys belong to a text input.
func (m userModel) isEditing() bool {
	switch m.view {
	case viewReport, viewProfile:
		return true
	case viewHistory:
		return m.history.editing
	case viewLibrary:
		return m.library.searching
	}
	return false
}

func (m userModel) View() string {
	tabs := renderTabs(userTabs, m.view, m.width, m.locked())
	var body string
	switch m.view {
	case viewHome:
		body = m.homeView()
	case viewReport:
		body = m.report.View()
	case viewHistory:
		body = m.history.View()
	case viewLibrary:
		body = m.library.View()
	case viewProfile:
		body = m.profile.View()
	}
	return tabs + "\n" + body
}

func (m userModel) homeView() string {
	var b strings.Builder
	name := ""
	if m.user != nil {
		name = m.user.FullName()
	}
	b.WriteString("\n " + titleStyle.Render(fmt.Sprintf("¡Bienvenido(a), %s!", name)) + "\n\n")
	b.WriteString(" " + dimStyle.Render("Use 2 para reportar una incidencia o 3 para revisar su historial.") + "\n\n")

	if m.history.loading && m.history.tickets == nil {
		b.WriteString(" " + dimStyle.Render("cargando resumen...") + "\n")
		return b.String()
	}
	counts := make(map[domain.Status]int)
	for _, t := range m.history.tickets {
		counts[t.Status]++
	}
	for _, s := range domain.Statuses {
		fmt.Fprintf(&b, "   %s %s\n", StatusStyle(s).Render(fmt.Sprintf("%-11s", s.Label())), normalStyle.Render(fmt.Sprint(counts[s])))
	}
	return b.String()
}

func (m userModel) helpKeys() string {
	switch m.view {
	case viewReport:
		return m.report.helpKeys() + "  " + helpEntry("esc", "volver")
	case viewHistory:
		return m.history.helpKeys()
	case viewLibrary:
		return m.library.helpKeys()
	case viewProfile:
		if m.locked() {
			return m.profile.helpKeys()
		}
		return m.profile.helpKeys() + "  " + helpEntry("esc", "volver")
	}
	k := m.deps.keys
	return helpBar(helpEntry("1-5", "secciones"), helpFor(k.Help), helpFor(k.Logout), helpFor(k.Quit))
}
