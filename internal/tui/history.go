package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

// ticketUpdatedMsg is the result of PUT /tickets/{id}.
type ticketUpdatedMsg struct {
	id  int64
	err error
}

// historyModel lists the caller's own tickets.
type historyModel struct {
	deps    *deps
	seq     requestSeq
	tickets []domain.Ticket
	cursor  int
	loading bool
	err     string
	flash   string

	detail  bool
	current domain.Ticket
	editing bool
	form    form
	saving  bool
	formErr string

	width  int
	height int
}

func newHistoryModel(d *deps) historyModel {
	return historyModel{deps: d}
}

// reload issues a fresh load. The returned model must be kept: it records
// the sequence number the response has to match.
func (m historyModel) reload() (historyModel, tea.Cmd) {
	m.loading = true
	seq := m.seq.next()
	return m, m.fetch(seq)
}

func (m historyModel) fetch(seq uint64) tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		tickets, err := d.client.MyTickets(d.ctx)
		return loadedMsg[domain.Ticket]{seq: seq, items: tickets, err: err}
	}
}

func (m historyModel) selected() (domain.Ticket, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tickets) {
		return domain.Ticket{}, false
	}
	return m.tickets[m.cursor], true
}

// refreshed returns the reloaded copy of t, or t itself when the reload no
// longer carries it.
func refreshed(tickets []domain.Ticket, t domain.Ticket) domain.Ticket {
	for _, r := range tickets {
		if r.ID == t.ID {
			return r
		}
	}
	return t
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loadedMsg[domain.Ticket]:
		if !m.seq.current(msg.seq) {
			m.deps.logger.Debug("dropping stale ticket list", "seq", msg.seq)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			m.tickets = nil
			return m, nil
		}
		m.err = ""
		m.tickets = msg.items
		m.cursor = clampCursor(m.cursor, len(m.tickets))
		if m.detail {
			m.current = refreshed(m.tickets, m.current)
		}

	case ticketUpdatedMsg:
		m.saving = false
		if msg.err != nil {
			m.formErr = client.Message(msg.err)
			return m, nil
		}
		m.editing = false
		m.detail = false
		m.flash = "Ticket actualizado."
		return m.reload()

	case tea.KeyMsg:
		switch {
		case m.editing:
			return m.updateEdit(msg)
		case m.detail:
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m historyModel) updateList(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	k := m.deps.keys
	m.flash = ""
	switch {
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Open):
		if t, ok := m.selected(); ok {
			m.detail = true
			m.current = t
		}
	case key.Matches(msg, k.Refresh):
		return m.reload()
	}
	return m, nil
}

func (m historyModel) updateDetail(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	k := m.deps.keys
	switch {
	case key.Matches(msg, k.Back):
		m.detail = false
	case key.Matches(msg, k.Edit):
		m.editing = true
		m.formErr = ""
		m.form = newTicketForm(m.current)
	}
	return m, nil
}

func (m historyModel) updateEdit(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	k := m.deps.keys
	switch {
	case key.Matches(msg, k.Back):
		m.editing = false
		m.formErr = ""
		return m, nil
	case key.Matches(msg, k.Submit):
		return m.save()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg, k)
	return m, cmd
}

func (m historyModel) save() (historyModel, tea.Cmd) {
	t := m.current
	title, desc, prio, ok := ticketFormValues(m.form)
	if !ok {
		m.formErr = errTicketFieldsRequired
		return m, nil
	}
	m.saving = true
	d := m.deps
	u := domain.TicketUpdate{Title: title, Description: desc, Priority: prio}
	return m, func() tea.Msg {
		return ticketUpdatedMsg{id: t.ID, err: d.client.UpdateTicket(d.ctx, t.ID, u)}
	}
}

func (m historyModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Mi historial de incidencias") + "\n\n")

	if m.editing {
		b.WriteString(m.form.View())
		b.WriteString("\n")
		if m.saving {
			b.WriteString(" " + dimStyle.Render("guardando...") + "\n")
		} else if m.formErr != "" {
			b.WriteString(" " + errorStyle.Render(m.formErr) + "\n")
		}
		return b.String()
	}
	if m.detail {
		b.WriteString(ticketDetail(m.current, m.deps.now(), m.width))
		return b.String()
	}

	if m.loading && len(m.tickets) == 0 {
		b.WriteString(" " + dimStyle.Render("cargando historial...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return b.String()
	}
	if m.flash != "" {
		b.WriteString(" " + successStyle.Render(m.flash) + "\n\n")
	}
	if len(m.tickets) == 0 {
		b.WriteString(" " + dimStyle.Render("Aún no ha reportado ninguna incidencia.") + "\n")
		return b.String()
	}
	for i, t := range m.tickets {
		b.WriteString(ticketRow(t, i == m.cursor, false, m.width))
	}
	return b.String()
}

func (m historyModel) helpKeys() string {
	k := m.deps.keys
	switch {
	case m.editing:
		return helpBar(helpFor(k.NextField), helpEntry("←/→", "prioridad"), helpFor(k.Submit), helpEntry("esc", "cancelar"))
	case m.detail:
		return helpBar(helpFor(k.Edit), helpFor(k.Back), helpFor(k.Logout), helpFor(k.Quit))
	}
	return helpBar(helpEntry("1-5", "secciones"), helpEntry("j/k", "navegar"), helpFor(k.Open), helpFor(k.Refresh), helpFor(k.Logout), helpFor(k.Quit))
}
