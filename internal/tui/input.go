package tui

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
)

// maxInputLen is the maximum number of runes allowed in form and search inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline search editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// newTextInput returns a blurred single-line input with the shared look.
func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = maxInputLen
	ti.PlaceholderStyle = inputPlaceholderStyle
	return ti
}

// newPasswordInput is a text input that masks what is typed.
func newPasswordInput(placeholder string) textinput.Model {
	ti := newTextInput(placeholder)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}

// renderSearch renders the inline search prompt shared by list panes.
func renderSearch(query string, editing bool) string {
	if !editing && query == "" {
		return ""
	}
	line := " " + inputPromptStyle.Render("/ ")
	if query == "" {
		line += inputPlaceholderStyle.Render("buscar...")
	} else {
		line += normalStyle.Render(query)
	}
	if editing {
		line += accentStyle.Render("█")
	}
	return line + "\n"
}
