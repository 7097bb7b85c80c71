package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

// ticketReportedMsg is the result of POST /tickets.
type ticketReportedMsg struct {
	err error
}

// reportModel is the new-ticket form.
type reportModel struct {
	deps      *deps
	form      form
	err       string
	submitted bool
}

func newReportModel(d *deps) reportModel {
	return reportModel{deps: d, form: newTicketForm(domain.Ticket{})}
}

func (m reportModel) Update(msg tea.Msg) (reportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketReportedMsg:
		m.submitted = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.form = newTicketForm(domain.Ticket{})

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		if key.Matches(msg, m.deps.keys.Submit) {
			return m.submit()
		}
		m.err = ""
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg, m.deps.keys)
		return m, cmd
	}
	return m, nil
}

func (m reportModel) submit() (reportModel, tea.Cmd) {
	title, desc, prio, ok := ticketFormValues(m.form)
	if !ok {
		m.err = errTicketFieldsRequired
		return m, nil
	}
	m.submitted = true
	d := m.deps
	req := domain.NewTicket{Title: title, Description: desc, Priority: prio}
	return m, func() tea.Msg {
		err := d.client.CreateTicket(d.ctx, req)
		if err == nil {
			d.logger.Info("ticket reported", "priority", prio)
		}
		return ticketReportedMsg{err: err}
	}
}

func (m reportModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Reportar nueva incidencia") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(" " + dimStyle.Render("reportando...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m reportModel) helpKeys() string {
	k := m.deps.keys
	return helpBar(helpFor(k.NextField), helpEntry("←/→", "prioridad"), helpFor(k.Submit), helpFor(k.Logout))
}
