package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b82f6"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Bold(true)

	// Feedback
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3b82f6")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1e1e2a")).
			Padding(0, 1)

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	statusColors = map[domain.Status]lipgloss.Color{
		domain.StatusOpen:       lipgloss.Color("#e06060"),
		domain.StatusInProgress: lipgloss.Color("#d4a844"),
		domain.StatusResolved:   lipgloss.Color("#4ade80"),
	}

	priorityColors = map[domain.Priority]lipgloss.Color{
		domain.PriorityLow:    lipgloss.Color("#60a0e0"),
		domain.PriorityMedium: lipgloss.Color("#d4a844"),
		domain.PriorityHigh:   lipgloss.Color("#e06060"),
	}
)

// StatusStyle returns the badge style for a ticket status. Unknown states
// render like abierto.
func StatusStyle(s domain.Status) lipgloss.Style {
	c, ok := statusColors[s]
	if !ok {
		c = statusColors[domain.StatusOpen]
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// StatusBadge renders the status label in its colour.
func StatusBadge(s domain.Status) string {
	return StatusStyle(s).Render(s.Label())
}

// PriorityStyle returns the style for a ticket priority.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	c, ok := priorityColors[p]
	if !ok {
		return dimStyle
	}
	return lipgloss.NewStyle().Foreground(c)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard spacing.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

func helpItems(webURL string) []helpItem {
	return []helpItem{
		{"Versión web", webURL, webURL},
	}
}

// helpView renders the help overlay with a cursor over the links.
func helpView(cursor int, items []helpItem) string {
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	linkStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a5fa"))

	commands := []struct{ cmd, desc string }{
		{"ticketera", "Abrir la aplicación interactiva"},
		{"ticketera login", "Iniciar sesión"},
		{"ticketera logout", "Cerrar la sesión guardada"},
		{"ticketera tickets", "Listar incidencias reportadas"},
		{"ticketera library", "Buscar en la biblioteca de soluciones"},
		{"ticketera open", "Abrir la versión web"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("T I C K E T E R A"))
	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Comandos"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Enlaces (enter para abrir)"))
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = linkStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, descStyle.Italic(true).Render(item.desc))
	}
	return b.String()
}
