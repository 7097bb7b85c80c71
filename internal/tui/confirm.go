package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmation is a pending yes/no question about a destructive action.
type confirmation struct {
	prompt string
	id     int64
}

// answer resolves a key against the pending question: yes and done report
// whether the action was accepted and whether the question is closed.
func (c *confirmation) answer(msg tea.KeyMsg, keys KeyMap) (yes, done bool) {
	if key.Matches(msg, keys.Confirm) {
		return true, true
	}
	switch msg.String() {
	case "n", "esc":
		return false, true
	}
	return false, false
}

func (c confirmation) View() string {
	return " " + warnStyle.Render(c.prompt) + " " + dimStyle.Render("(y/n)") + "\n"
}
