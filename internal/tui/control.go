package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

// Filter cycles; "" means no filter.
var (
	statusFilterOrder   = append([]domain.Status{""}, domain.Statuses...)
	priorityFilterOrder = append([]domain.Priority{""}, domain.Priorities...)
)

// maxNotices caps the stale tickets listed in the notification panel.
const maxNotices = 5

// controlModel is the staff ticket board: every ticket, filters, stale
// notifications and status changes.
type controlModel struct {
	deps      *deps
	seq       requestSeq
	tickets   []domain.Ticket
	filter    domain.TicketFilter
	searching bool
	cursor    int
	loading   bool
	err       string
	flash     string

	detail    bool
	current   domain.Ticket
	newStatus domain.Status
	saving    bool
	detailErr string

	width  int
	height int
}

func newControlModel(d *deps) controlModel {
	return controlModel{deps: d}
}

func (m controlModel) reload() (controlModel, tea.Cmd) {
	m.loading = true
	seq := m.seq.next()
	d := m.deps
	return m, func() tea.Msg {
		tickets, err := d.client.ListTickets(d.ctx)
		return loadedMsg[domain.Ticket]{seq: seq, items: tickets, err: err}
	}
}

func (m controlModel) visible() []domain.Ticket {
	return m.filter.Apply(m.tickets)
}

func (m controlModel) selected() (domain.Ticket, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return domain.Ticket{}, false
	}
	return v[m.cursor], true
}

// notices returns tickets left unattended past the stale threshold.
func (m controlModel) notices() []domain.Ticket {
	now := m.deps.now()
	var out []domain.Ticket
	for _, t := range m.tickets {
		if t.Staleness(now, m.deps.staleAfter) != domain.Fresh {
			out = append(out, t)
		}
	}
	return out
}

func (m controlModel) Update(msg tea.Msg) (controlModel, tea.Cmd) {
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
			return m, nil
		}
		m.err = ""
		m.tickets = msg.items
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		if m.detail {
			m.current = refreshed(m.tickets, m.current)
		}

	case ticketUpdatedMsg:
		m.saving = false
		if msg.err != nil {
			m.detailErr = client.Message(msg.err)
			return m, nil
		}
		m.detail = false
		m.flash = fmt.Sprintf("Ticket #%d actualizado.", msg.id)
		return m.reload()

	case tea.KeyMsg:
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.detail:
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m controlModel) updateSearch(msg tea.KeyMsg) (controlModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.filter.Query = ""
	default:
		m.filter.Query = editRune(m.filter.Query, msg.String())
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	return m, nil
}

func (m controlModel) updateList(msg tea.KeyMsg) (controlModel, tea.Cmd) {
	k := m.deps.keys
	m.flash = ""
	switch {
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.visible())-1 {
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
			m.newStatus = t.Status
			m.detailErr = ""
		}
	case key.Matches(msg, k.Status):
		m.filter.Status = domain.Next(statusFilterOrder, m.filter.Status)
		m.cursor = 0
	case key.Matches(msg, k.Priority):
		m.filter.Priority = domain.Next(priorityFilterOrder, m.filter.Priority)
		m.cursor = 0
	case key.Matches(msg, k.Search):
		m.searching = true
	case key.Matches(msg, k.Back):
		m.filter = domain.TicketFilter{}
		m.cursor = 0
	case key.Matches(msg, k.Refresh):
		return m.reload()
	}
	return m, nil
}

func (m controlModel) updateDetail(msg tea.KeyMsg) (controlModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	k := m.deps.keys
	switch {
	case key.Matches(msg, k.Back):
		m.detail = false
	case key.Matches(msg, k.Status), key.Matches(msg, k.Right):
		m.newStatus = domain.Next(domain.Statuses, m.newStatus)
	case key.Matches(msg, k.Left):
		for range len(domain.Statuses) - 1 {
			m.newStatus = domain.Next(domain.Statuses, m.newStatus)
		}
	case key.Matches(msg, k.Submit), key.Matches(msg, k.Open):
		t := m.current
		if m.newStatus == t.Status {
			m.detail = false
			return m, nil
		}
		m.saving = true
		d := m.deps
		status := m.newStatus
		return m, func() tea.Msg {
			err := d.client.UpdateTicket(d.ctx, t.ID, domain.TicketUpdate{Status: status})
			if err == nil {
				d.logger.Info("ticket status changed", "ticket_id", t.ID, "from", t.Status, "to", status)
			}
			return ticketUpdatedMsg{id: t.ID, err: err}
		}
	}
	return m, nil
}

func (m controlModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Reportes y control") + "\n")

	if m.detail {
		b.WriteString("\n")
		b.WriteString(ticketDetail(m.current, m.deps.now(), m.width))
		b.WriteString("\n " + sectionHeaderStyle.Render("Nuevo estado:") + " " +
			accentStyle.Render("‹ ") + StatusBadge(m.newStatus) + accentStyle.Render(" ›") + "\n")
		if m.saving {
			b.WriteString("\n " + dimStyle.Render("guardando...") + "\n")
		} else if m.detailErr != "" {
			b.WriteString("\n " + errorStyle.Render(m.detailErr) + "\n")
		}
		return b.String()
	}

	b.WriteString(m.noticeView())
	b.WriteString(m.filterLine())
	b.WriteString(renderSearch(m.filter.Query, m.searching))
	b.WriteString("\n")

	if m.loading && len(m.tickets) == 0 {
		b.WriteString(" " + dimStyle.Render("cargando tickets...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return b.String()
	}
	if m.flash != "" {
		b.WriteString(" " + successStyle.Render(m.flash) + "\n\n")
	}
	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(" " + dimStyle.Render("No hay tickets que coincidan con los filtros.") + "\n")
		return b.String()
	}
	for i, t := range visible {
		b.WriteString(ticketRow(t, i == m.cursor, true, m.width))
	}
	return b.String()
}

func (m controlModel) noticeView() string {
	notices := m.notices()
	if len(notices) == 0 {
		return ""
	}
	days := int(m.deps.staleAfter.Hours() / 24)
	var b strings.Builder
	b.WriteString(" " + warnStyle.Render(fmt.Sprintf("⚠ %d tickets sin atender hace más de %d días", len(notices), days)) + "\n")
	now := m.deps.now()
	for i, t := range notices {
		if i == maxNotices {
			b.WriteString("   " + dimStyle.Render(fmt.Sprintf("... y %d más", len(notices)-maxNotices)) + "\n")
			break
		}
		kind := "abierto"
		if t.Staleness(now, m.deps.staleAfter) == domain.StaleInProgress {
			kind = "en proceso"
		}
		b.WriteString("   " + metaStyle.Render(fmt.Sprintf("#%d", t.ID)) + " " +
			normalStyle.Render(truncStr(oneLine(t.Title), 40)) + " " +
			dimStyle.Render(kind+" "+formatAge(now, t.CreatedAt)) + "\n")
	}
	return b.String()
}

func (m controlModel) filterLine() string {
	status := "todos"
	if m.filter.Status != "" {
		status = StatusBadge(m.filter.Status)
	}
	prio := "todas"
	if m.filter.Priority != "" {
		prio = PriorityStyle(m.filter.Priority).Render(string(m.filter.Priority))
	}
	return fmt.Sprintf(" %s %s  %s %s  %s\n",
		sectionHeaderStyle.Render("Estado:"), status,
		sectionHeaderStyle.Render("Prioridad:"), prio,
		metaStyle.Render(fmt.Sprintf("%d/%d", len(m.visible()), len(m.tickets))))
}

func (m controlModel) helpKeys() string {
	k := m.deps.keys
	switch {
	case m.searching:
		return helpBar(helpEntry("enter", "aplicar"), helpEntry("esc", "limpiar"))
	case m.detail:
		return helpBar(helpEntry("s/←/→", "cambiar estado"), helpEntry("enter", "guardar"), helpFor(k.Back))
	}
	return helpBar(helpEntry("j/k", "navegar"), helpFor(k.Open), helpEntry("s", "filtrar estado"),
		helpEntry("p", "filtrar prioridad"), helpFor(k.Search), helpFor(k.Refresh), helpFor(k.Logout), helpFor(k.Quit))
}
