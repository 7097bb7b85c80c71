package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

// ticketRow renders one list line. withReporter adds the author column used
// by the staff list.
func ticketRow(t domain.Ticket, active, withReporter bool, width int) string {
	cursor := " "
	if active {
		cursor = accentStyle.Render("▸")
	}
	id := metaStyle.Render(fmt.Sprintf("#%-4d", t.ID))
	titleWidth := width - 44
	if withReporter {
		titleWidth -= 18
	}
	if titleWidth < 12 {
		titleWidth = 12
	}
	rowStyle := normalStyle
	if active {
		rowStyle = selectedStyle
	}
	title := rowStyle.Render(fmt.Sprintf("%-*s", titleWidth, truncStr(oneLine(t.Title), titleWidth)))
	prio := PriorityStyle(t.Priority).Render(fmt.Sprintf("%-5s", strings.ToUpper(string(t.Priority))))
	status := StatusStyle(t.Status).Render(fmt.Sprintf("%-10s", t.Status.Label()))
	row := fmt.Sprintf(" %s %s %s  %s  %s", cursor, id, title, prio, status)
	if withReporter {
		row += "  " + dimStyle.Render(fmt.Sprintf("%-16s", truncStr(reporterName(t.User), 16)))
	}
	row += "  " + metaStyle.Render(formatDate(t.CreatedAt))
	if active {
		row = selectedRowBg.Render(row)
	}
	return row + "\n"
}

func reporterName(r domain.Reporter) string {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if name == "" {
		return r.Email
	}
	return name
}

// ticketDetail renders the full ticket.
func ticketDetail(t domain.Ticket, now time.Time, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s %s\n\n", metaStyle.Render(fmt.Sprintf("#%d", t.ID)), selectedStyle.Render(t.Title))
	fmt.Fprintf(&b, " %s %s   %s %s\n",
		sectionHeaderStyle.Render("Estado:"), StatusBadge(t.Status),
		sectionHeaderStyle.Render("Prioridad:"), PriorityStyle(t.Priority).Render(strings.ToUpper(string(t.Priority))))
	if name := reporterName(t.User); name != "" {
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("Reportado por:"), normalStyle.Render(name))
	}
	fmt.Fprintf(&b, " %s %s %s\n\n", sectionHeaderStyle.Render("Creado:"),
		normalStyle.Render(formatDate(t.CreatedAt)), metaStyle.Render("("+formatAge(now, t.CreatedAt)+")"))

	detailWidth := width - 4
	if detailWidth < 40 {
		detailWidth = 40
	}
	desc := t.Description
	if strings.TrimSpace(desc) == "" {
		desc = dimStyle.Render("(sin descripción)")
	}
	wrapped := lipgloss.NewStyle().Width(detailWidth).Render(desc)
	for _, line := range strings.Split(wrapped, "\n") {
		b.WriteString(" " + normalStyle.Render(line) + "\n")
	}
	return b.String()
}

func priorityChoices() []string {
	out := make([]string, len(domain.Priorities))
	for i, p := range domain.Priorities {
		out[i] = string(p)
	}
	return out
}

// Ticket form field indexes.
const (
	ticketFieldTitle = iota
	ticketFieldDescription
	ticketFieldPriority
)

// newTicketForm is the title/description/priority form shared by reporting
// and editing.
func newTicketForm(t domain.Ticket) form {
	prio := t.Priority
	if prio == "" {
		prio = domain.PriorityMedium
	}
	f := newForm(
		textField("Título", "resumen de la falla"),
		textField("Descripción", "descripción detallada de la incidencia"),
		choiceField("Prioridad", priorityChoices(), string(prio)),
	)
	f.setValue(ticketFieldTitle, t.Title)
	f.setValue(ticketFieldDescription, t.Description)
	return f
}

// errTicketFieldsRequired is shown when the ticket form is incomplete.
const errTicketFieldsRequired = "El título y la descripción son obligatorios."

// ticketFormValues reads the form, returning ok=false when a required field
// is empty.
func ticketFormValues(f form) (title, desc string, prio domain.Priority, ok bool) {
	title = strings.TrimSpace(f.value(ticketFieldTitle))
	desc = strings.TrimSpace(f.value(ticketFieldDescription))
	prio = domain.Priority(f.value(ticketFieldPriority))
	return title, desc, prio, title != "" && desc != ""
}
