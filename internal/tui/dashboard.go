package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewHome view = iota
	viewReport
	viewHistory
	viewLibrary
	viewProfile
	viewControl
	viewUsers
	viewIncidencias
)

// tab is one entry in a dashboard's tab bar.
type tab struct {
	key  string
	name string
	v    view
}

// renderTabs spreads the tabs over equal-width columns. When locked, only
// the active tab is highlighted and the others are dimmed further.
func renderTabs(tabs []tab, active view, width int, locked bool) string {
	if len(tabs) == 0 {
		return ""
	}
	colWidth := width / len(tabs)
	var bar strings.Builder
	for _, t := range tabs {
		var label string
		switch {
		case t.v == active:
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		case locked:
			label = metaStyle.Render(t.key + " " + t.name)
		default:
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		bar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return bar.String()
}

// tabFor returns the tab bound to key, if any.
func tabFor(tabs []tab, key string) (tab, bool) {
	for _, t := range tabs {
		if t.key == key {
			return t, true
		}
	}
	return tab{}, false
}
